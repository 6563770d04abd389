package commands

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode_JSONFromStdin(t *testing.T) {
	encodeFrom = ""
	cmd := NewEncodeCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(`{"name": "Alice", "age": 30}`))

	err := cmd.RunE(cmd, nil)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "name: Alice")
	assert.Contains(t, out.String(), "age: 30")
}

func TestEncode_InvalidJSONFails(t *testing.T) {
	encodeFrom = ""
	cmd := NewEncodeCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetIn(strings.NewReader(`{not json`))

	err := cmd.RunE(cmd, nil)
	require.Error(t, err)
	assert.Equal(t, 2, ExitCode(err))
}

func TestEncode_UnsupportedFromFormat(t *testing.T) {
	encodeFrom = "toml"
	defer func() { encodeFrom = "" }()

	cmd := NewEncodeCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetIn(strings.NewReader(`{}`))

	err := cmd.RunE(cmd, nil)
	require.Error(t, err)
	assert.Equal(t, 1, ExitCode(err))
}

func TestGuessFormat(t *testing.T) {
	assert.Equal(t, "yaml", guessFormat("data.yaml"))
	assert.Equal(t, "yaml", guessFormat("data.YML"))
	assert.Equal(t, "json", guessFormat("data.json"))
	assert.Equal(t, "json", guessFormat("data"))
}
