package commands

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetDiagnoseFlags() {
	diagnoseFormat = "json"
	diagnoseContext = false
	diagnoseMinSeverity = "error"
}

func TestDiagnose_CleanDocumentHasEmptyDiagnostics(t *testing.T) {
	resetDiagnoseFlags()
	cmd := NewDiagnoseCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetIn(strings.NewReader("a: 1\n"))

	err := cmd.RunE(cmd, nil)
	require.NoError(t, err)
	assert.Contains(t, out.String(), `"diagnostics": []`)
	assert.Contains(t, out.String(), `"error_count": 0`)
}

func TestDiagnose_AlwaysExitsZeroOnParseError(t *testing.T) {
	resetDiagnoseFlags()
	cmd := NewDiagnoseCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetIn(strings.NewReader("a 1\n"))

	err := cmd.RunE(cmd, nil)
	require.NoError(t, err)
	assert.Contains(t, out.String(), `"error_count": 1`)
}

func TestDiagnose_SARIFFormat(t *testing.T) {
	resetDiagnoseFlags()
	diagnoseFormat = "sarif"
	cmd := NewDiagnoseCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetIn(strings.NewReader("a 1\n"))

	err := cmd.RunE(cmd, nil)
	require.NoError(t, err)
	assert.Contains(t, out.String(), `"$schema"`)
	assert.Contains(t, out.String(), `"ruleId"`)
}

func TestDiagnose_ContextIncludesSourceLine(t *testing.T) {
	resetDiagnoseFlags()
	diagnoseContext = true
	cmd := NewDiagnoseCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetIn(strings.NewReader("a 1\n"))

	err := cmd.RunE(cmd, nil)
	require.NoError(t, err)
	assert.Contains(t, out.String(), `"context": "a 1"`)
}

func TestDiagnose_MinSeverityBelowErrorKeepsErrors(t *testing.T) {
	resetDiagnoseFlags()
	diagnoseMinSeverity = "warning"
	cmd := NewDiagnoseCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetIn(strings.NewReader("a 1\n"))

	err := cmd.RunE(cmd, nil)
	require.NoError(t, err)
	// Every ParseError currently surfaces as "error" severity, which
	// outranks "warning", so it should still be included.
	assert.Contains(t, out.String(), `"error_count": 1`)
}

func TestDiagnose_UnsupportedFormatFails(t *testing.T) {
	resetDiagnoseFlags()
	diagnoseFormat = "xml"
	cmd := NewDiagnoseCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetIn(strings.NewReader("a: 1\n"))

	err := cmd.RunE(cmd, nil)
	require.Error(t, err)
	assert.Equal(t, 1, ExitCode(err))
}

func TestPathToFileURI(t *testing.T) {
	assert.Equal(t, "stdin", pathToFileURI("stdin"))
	assert.Equal(t, "file:///abs/path.toon", pathToFileURI("/abs/path.toon"))
	assert.Equal(t, "relative.toon", pathToFileURI("relative.toon"))
}
