package lsp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.lsp.dev/protocol"
)

func TestConvertCompletionKind(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected protocol.CompletionItemKind
	}{
		{"keyword", "Keyword", protocol.CompletionItemKindKeyword},
		{"property", "Property", protocol.CompletionItemKindProperty},
		{"unknown falls back to text", "Something", protocol.CompletionItemKindText},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, convertCompletionKind(tt.input))
		})
	}
}

func TestConvertSymbolKind(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected protocol.SymbolKind
	}{
		{"object", "Object", protocol.SymbolKindObject},
		{"array", "Array", protocol.SymbolKindArray},
		{"string", "String", protocol.SymbolKindString},
		{"number", "Number", protocol.SymbolKindNumber},
		{"boolean", "Boolean", protocol.SymbolKindBoolean},
		{"null", "Null", protocol.SymbolKindNull},
		{"property", "Property", protocol.SymbolKindProperty},
		{"unknown falls back to object", "Mystery", protocol.SymbolKindObject},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, convertSymbolKind(tt.input))
		})
	}
}

func TestLinePrefixAt(t *testing.T) {
	text := "name: Ada\n  age: 30\n"
	assert.Equal(t, "name", linePrefixAt(text, 0, 4))
	assert.Equal(t, "name: Ada", linePrefixAt(text, 0, 100))
	assert.Equal(t, "", linePrefixAt(text, 0, 0))
	assert.Equal(t, "", linePrefixAt(text, 5, 0))
	assert.Equal(t, "  age: ", linePrefixAt(text, 1, 7))
}

func TestFullDocumentRange(t *testing.T) {
	rng := fullDocumentRange("a: 1\nb: 2\n")
	assert.Equal(t, uint32(0), rng.Start.Line)
	assert.Equal(t, uint32(0), rng.Start.Character)
	assert.Equal(t, uint32(2), rng.End.Line)
	assert.Equal(t, uint32(0), rng.End.Character)
}
