package lexer

import (
	"fmt"

	"github.com/toon-lang/toon-lsp/internal/toon/ast"
)

// Kind tags a Token's grammatical category.
type Kind int

const (
	Colon Kind = iota
	Comma
	LeftBracket
	RightBracket
	LeftBrace
	RightBrace
	Dash

	Newline
	Indent
	Dedent
	Eof

	String
	Number
	True
	False
	Null

	Identifier
	Error
)

func (k Kind) String() string {
	switch k {
	case Colon:
		return "Colon"
	case Comma:
		return "Comma"
	case LeftBracket:
		return "LeftBracket"
	case RightBracket:
		return "RightBracket"
	case LeftBrace:
		return "LeftBrace"
	case RightBrace:
		return "RightBrace"
	case Dash:
		return "Dash"
	case Newline:
		return "Newline"
	case Indent:
		return "Indent"
	case Dedent:
		return "Dedent"
	case Eof:
		return "Eof"
	case String:
		return "String"
	case Number:
		return "Number"
	case True:
		return "True"
	case False:
		return "False"
	case Null:
		return "Null"
	case Identifier:
		return "Identifier"
	case Error:
		return "Error"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Token is a single lexical unit: a kind tag, a span, and, for the kinds
// that carry a payload, the decoded text. String carries the decoded
// value (escapes resolved); Number carries the raw source text so the
// parser can choose PosInt/NegInt/Float; Identifier carries the
// identifier text; Error carries a human-readable message.
type Token struct {
	Kind Kind
	Span ast.Span
	Text string
}

func (t Token) String() string {
	return fmt.Sprintf("%s(%q)@%d:%d", t.Kind, t.Text, t.Span.Start.Line, t.Span.Start.Column)
}
