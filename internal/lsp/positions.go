package lsp

import (
	"go.lsp.dev/protocol"

	"github.com/toon-lang/toon-lsp/internal/toon/ast"
	"github.com/toon-lang/toon-lsp/internal/toon/services"
)

// spanToRange converts an ast.Span to an LSP Range. No unit conversion
// is needed: ast.Position.Column is already stored in UTF-16 code
// units, the same unit protocol.Position.Character uses.
func spanToRange(sp ast.Span) protocol.Range {
	return protocol.Range{
		Start: protocol.Position{Line: uint32(sp.Start.Line), Character: uint32(sp.Start.Column)},
		End:   protocol.Position{Line: uint32(sp.End.Line), Character: uint32(sp.End.Column)},
	}
}

// lspPosToAST converts an incoming LSP position (UTF-16 line/character)
// into an ast.Position with a resolved byte offset, using the
// document's full text to bridge UTF-16 columns to bytes.
func lspPosToAST(text string, pos protocol.Position) ast.Position {
	return services.ResolvePosition(text, int(pos.Line), int(pos.Character))
}
