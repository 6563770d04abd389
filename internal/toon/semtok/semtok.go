// Package semtok walks a parsed AST in document order and emits the
// semantic token stream the editor protocol expects, in both its plain
// form and the LSP delta-encoded wire form.
package semtok

import "github.com/toon-lang/toon-lsp/internal/toon/ast"

// TokenType indices, fixed to match the legend advertised at
// initialisation; these numeric values are part of the wire contract
// and must never be reordered.
const (
	TypeProperty = 0
	TypeString   = 1
	TypeNumber   = 2
	TypeKeyword  = 3
	TypeOperator = 4
)

// Modifier bits, also fixed by the advertised legend.
const (
	ModDefinition = 1 << 0
	ModReadonly   = 1 << 1
)

// Token is one semantic token before delta encoding: a position (in
// UTF-16 columns, since ast.Position already carries that unit), a
// length in UTF-16 code units, a type index, and a modifier bitset.
type Token struct {
	Line      int
	StartCol  int
	Length    int
	Type      int
	Modifiers int
}

// Legend is the fixed type/modifier name legend the server advertises
// during initialise; Collect's Type/Modifiers values index into it.
var Legend = struct {
	TokenTypes     []string
	TokenModifiers []string
}{
	TokenTypes:     []string{"property", "string", "number", "keyword", "operator"},
	TokenModifiers: []string{"definition", "readonly"},
}

// Collect walks doc in document order and returns its flat semantic
// token sequence: object keys as Property+Definition, strings/numbers as
// their type with Readonly, booleans and null as Keyword+Readonly.
func Collect(doc *ast.Document) []Token {
	var tokens []Token
	if doc == nil {
		return tokens
	}
	var visit func(n ast.Node)
	visit = func(n ast.Node) {
		switch v := n.(type) {
		case *ast.Document:
			for _, c := range v.Children {
				visit(c)
			}
		case *ast.Object:
			for _, e := range v.Entries {
				tokens = append(tokens, spanToken(e.KeySpan, TypeProperty, ModDefinition))
				visit(e.Value)
			}
		case *ast.Array:
			for _, item := range v.Items {
				visit(item)
			}
		case *ast.String:
			tokens = append(tokens, spanToken(v.Sp, TypeString, ModReadonly))
		case *ast.Number:
			tokens = append(tokens, spanToken(v.Sp, TypeNumber, ModReadonly))
		case *ast.Bool:
			tokens = append(tokens, spanToken(v.Sp, TypeKeyword, ModReadonly))
		case *ast.Null:
			tokens = append(tokens, spanToken(v.Sp, TypeKeyword, ModReadonly))
		}
	}
	visit(doc)
	return tokens
}

func spanToken(sp ast.Span, typ, mods int) Token {
	length := sp.End.Column - sp.Start.Column
	if sp.End.Line != sp.Start.Line || length < 0 {
		length = 0
	}
	return Token{Line: sp.Start.Line, StartCol: sp.Start.Column, Length: length, Type: typ, Modifiers: mods}
}

// Encode packs tokens into the LSP delta wire format: five integers per
// token, (deltaLine, deltaStartOrAbsolute, length, type, modifiers).
// Tokens must already be in document order (Collect guarantees this).
func Encode(tokens []Token) []uint32 {
	data := make([]uint32, 0, len(tokens)*5)
	prevLine, prevCol := 0, 0
	for _, t := range tokens {
		deltaLine := t.Line - prevLine
		var deltaStart int
		if deltaLine == 0 {
			deltaStart = t.StartCol - prevCol
		} else {
			deltaStart = t.StartCol
		}
		data = append(data, uint32(deltaLine), uint32(deltaStart), uint32(t.Length), uint32(t.Type), uint32(t.Modifiers))
		prevLine = t.Line
		prevCol = t.StartCol
	}
	return data
}

// InRange filters tokens to those overlapping [startLine,startCol] to
// [endLine,endCol]: a token overlaps unless it is strictly before the
// range's start or strictly after its end.
func InRange(tokens []Token, startLine, startCol, endLine, endCol int) []Token {
	var out []Token
	for _, t := range tokens {
		tokEnd := t.StartCol + t.Length
		beforeStart := t.Line < startLine || (t.Line == startLine && tokEnd <= startCol)
		afterEnd := t.Line > endLine || (t.Line == endLine && t.StartCol >= endCol)
		if !beforeStart && !afterEnd {
			out = append(out, t)
		}
	}
	return out
}
