package parser

import (
	"fmt"

	"github.com/toon-lang/toon-lsp/internal/toon/ast"
)

// ErrorKind enumerates the fifteen kinds of lexical/syntactic error the
// parser can produce. Each maps to a stable E001-E015 code via Code().
type ErrorKind int

const (
	UnexpectedChar ErrorKind = iota
	UnexpectedToken
	ExpectedColon
	ExpectedValue
	ExpectedKey
	InvalidNumber
	UnterminatedString
	InvalidEscape
	InvalidIndent
	UnexpectedEof
	DuplicateKey
	MaxDepthExceeded
	DocumentTooLarge
	TooManyArrayItems
	TooManyObjectEntries
)

var errorKindNames = [...]string{
	"UnexpectedChar",
	"UnexpectedToken",
	"ExpectedColon",
	"ExpectedValue",
	"ExpectedKey",
	"InvalidNumber",
	"UnterminatedString",
	"InvalidEscape",
	"InvalidIndent",
	"UnexpectedEof",
	"DuplicateKey",
	"MaxDepthExceeded",
	"DocumentTooLarge",
	"TooManyArrayItems",
	"TooManyObjectEntries",
}

func (k ErrorKind) String() string {
	if int(k) < 0 || int(k) >= len(errorKindNames) {
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
	return errorKindNames[k]
}

var errorKindCodes = [...]string{
	"E001", "E002", "E003", "E004", "E005",
	"E006", "E007", "E008", "E009", "E010",
	"E011", "E012", "E013", "E014", "E015",
}

// Code returns the stable diagnostic code for kind, e.g. "E001".
func (k ErrorKind) Code() string {
	if int(k) < 0 || int(k) >= len(errorKindCodes) {
		return "E000"
	}
	return errorKindCodes[k]
}

var errorKindMessages = [...]string{
	"unexpected character",
	"unexpected token",
	"expected ':'",
	"expected a value",
	"expected a key",
	"invalid number literal",
	"unterminated string",
	"invalid escape sequence",
	"invalid indentation",
	"unexpected end of input",
	"duplicate key",
	"maximum nesting depth exceeded",
	"document too large",
	"too many array items",
	"too many object entries",
}

// Message returns kind's short, stable-codepoint but not stable-wording
// human message. Messages never include file paths; the channel supplies
// file context.
func (k ErrorKind) Message() string {
	if int(k) < 0 || int(k) >= len(errorKindMessages) {
		return "parse error"
	}
	return errorKindMessages[k]
}

// ParseError is a single lexical or syntactic error: a kind, the span of
// the offending construct, and an optional free-form context string
// (e.g. the surrounding key name) a caller may attach.
type ParseError struct {
	Kind    ErrorKind
	Span    ast.Span
	Context string
}

func (e *ParseError) Error() string {
	if e.Context != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Kind.Code(), e.Kind.Message(), e.Context)
	}
	return fmt.Sprintf("%s: %s", e.Kind.Code(), e.Kind.Message())
}

// WithContext returns a copy of e carrying the given context string.
func (e *ParseError) WithContext(context string) *ParseError {
	cp := *e
	cp.Context = context
	return &cp
}
