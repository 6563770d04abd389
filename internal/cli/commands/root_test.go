package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewRootCommand(t *testing.T) {
	cmd := NewRootCommand()

	assert.Equal(t, "toonctl", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.NotEmpty(t, cmd.Long)

	expectedCommands := []string{
		"version",
		"encode",
		"decode",
		"check",
		"format",
		"symbols",
		"diagnose",
		"lsp",
		"completion",
	}

	names := make(map[string]bool)
	for _, c := range cmd.Commands() {
		names[c.Name()] = true
	}
	for _, expected := range expectedCommands {
		assert.True(t, names[expected], "expected command %s to be registered", expected)
	}
}

func TestNewVersionCommand(t *testing.T) {
	Version = "1.0.0-test"
	GitCommit = "abc123"
	BuildDate = "2025-01-01"
	GoVersion = "go1.23"

	cmd := NewVersionCommand()

	assert.Equal(t, "version", cmd.Use)
	if assert.NotNil(t, cmd.Run) {
		cmd.Run(cmd, []string{})
	}
}

func TestExecute(t *testing.T) {
	cmd := NewRootCommand()
	assert.NotNil(t, cmd)
}
