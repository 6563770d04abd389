package commands

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSymbols_TreeOutput(t *testing.T) {
	symbolsOutputStyle = "tree"
	cmd := NewSymbolsCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetIn(strings.NewReader("name: Alice\nage: 30\n"))

	err := cmd.RunE(cmd, nil)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "name:")
	assert.Contains(t, out.String(), "age:")
}

func TestSymbols_FlatOutput(t *testing.T) {
	symbolsOutputStyle = "flat"
	defer func() { symbolsOutputStyle = "tree" }()
	cmd := NewSymbolsCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetIn(strings.NewReader("user:\n  name: Bob\n"))

	err := cmd.RunE(cmd, nil)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "(root).user.name: String")
}

func TestSymbols_JSONOutput(t *testing.T) {
	symbolsOutputStyle = "json"
	defer func() { symbolsOutputStyle = "tree" }()
	cmd := NewSymbolsCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetIn(strings.NewReader("a: 1\n"))

	err := cmd.RunE(cmd, nil)
	require.NoError(t, err)
	assert.Contains(t, out.String(), `"Name"`)
	assert.Contains(t, out.String(), `"Kind"`)
}

func TestSymbols_ParseErrorsWarnButDoNotFail(t *testing.T) {
	symbolsOutputStyle = "tree"
	cmd := NewSymbolsCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader("a 1\n"))

	err := cmd.RunE(cmd, nil)
	require.NoError(t, err)
	assert.Contains(t, errOut.String(), "warning:")
}

func TestWriteFlatSymbol_ArrayIndexUsesBrackets(t *testing.T) {
	cmd := NewSymbolsCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetIn(strings.NewReader("items:\n  - 1\n  - 2\n"))
	symbolsOutputStyle = "flat"
	defer func() { symbolsOutputStyle = "tree" }()

	err := cmd.RunE(cmd, nil)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "(root).items[0]: Number")
}
