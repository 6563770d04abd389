// Package parser turns a TOON token vector into a positioned ast.Node
// tree. It is a recursive-descent parser with single-token lookahead
// over a pre-materialised token vector (rather than a streaming
// iterator) because error recovery needs bounded backtracking to a
// synchronisation point, and because distinguishing a Dash item marker
// from a negative number needs one token of lookahead into the lexer
// itself. The parser never panics: every error becomes an entry in an
// internal list and triggers synchronisation to the next statement.
package parser

import (
	"strconv"
	"strings"

	"github.com/toon-lang/toon-lsp/internal/toon/ast"
	"github.com/toon-lang/toon-lsp/internal/toon/lexer"
)

// Resource guards. The specification leaves exact limits to the
// implementation; these are the suggested defaults.
const (
	MaxNestingDepth   = 256
	MaxSourceBytes    = 16 * 1024 * 1024
	MaxContainerItems = 1_000_000
)

type parser struct {
	tokens     []lexer.Token
	pos        int
	errors     []*ParseError
	recovering bool
	depth      int
}

// Parse runs in strict mode: it returns the fully parsed AST on success,
// or the first error encountered on failure. Intended for batch tools
// that must abort early rather than report everything.
func Parse(text string) (*ast.Document, error) {
	doc, errs := ParseWithErrors(text)
	if len(errs) > 0 {
		return nil, errs[0]
	}
	return doc, nil
}

// ParseWithErrors always returns as much AST as possible plus every
// collected error. An empty input returns an empty Document and an
// empty error list. This is the IDE-mode entry point: the document
// store and every feature service call through here.
func ParseWithErrors(text string) (*ast.Document, []*ParseError) {
	if len(text) > MaxSourceBytes {
		return &ast.Document{}, []*ParseError{{Kind: DocumentTooLarge, Span: ast.Point(ast.Start())}}
	}

	tokens, lexErrors := extractLexErrors(lexer.ScanTokens(text))
	p := &parser{tokens: tokens, errors: lexErrors}
	doc := p.parseDocument()
	return doc, p.errors
}

// extractLexErrors splits a raw token vector into the tokens the grammar
// understands and the lexical errors the lexer flagged inline. Removing
// Error tokens from the stream before parsing is this implementation's
// documented choice for folding lexical and syntactic error reporting
// into one list without teaching the grammar about an Error token kind.
func extractLexErrors(tokens []lexer.Token) ([]lexer.Token, []*ParseError) {
	filtered := make([]lexer.Token, 0, len(tokens))
	var errs []*ParseError
	for _, t := range tokens {
		if t.Kind == lexer.Error {
			errs = append(errs, &ParseError{Kind: classifyLexError(t.Text), Span: t.Span})
			continue
		}
		filtered = append(filtered, t)
	}
	return filtered, errs
}

func classifyLexError(message string) ErrorKind {
	switch {
	case strings.Contains(message, "unterminated string"):
		return UnterminatedString
	case strings.Contains(message, "invalid escape"):
		return InvalidEscape
	case strings.Contains(message, "indentation"):
		return InvalidIndent
	default:
		return UnexpectedChar
	}
}

func (p *parser) peek() lexer.Token {
	if p.pos >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[p.pos]
}

func (p *parser) check(k lexer.Kind) bool {
	return p.peek().Kind == k
}

func (p *parser) advance() lexer.Token {
	t := p.peek()
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	return t
}

func (p *parser) expect(k lexer.Kind) bool {
	if p.check(k) {
		p.advance()
		return true
	}
	return false
}

// reportError records a single error and, unless already recovering
// (errors on the same statement are swallowed to avoid duplicate
// diagnostics), synchronises by skipping forward to the next Newline,
// Dedent, or Eof, consuming a single Newline so parsing resumes at the
// next logical line.
func (p *parser) reportError(kind ErrorKind, span ast.Span) {
	if p.recovering {
		return
	}
	p.errors = append(p.errors, &ParseError{Kind: kind, Span: span})
	p.recovering = true
	for {
		tok := p.peek()
		if tok.Kind == lexer.Eof || tok.Kind == lexer.Dedent {
			break
		}
		if tok.Kind == lexer.Newline {
			p.advance()
			break
		}
		p.advance()
	}
	p.recovering = false
}

// endsWithOwnDedent reports whether n's grammar form consumes through to
// a Dedent token itself (nested object, expanded array, tabular array),
// meaning the cursor is already at the next sibling rather than sitting
// before a trailing Newline.
func endsWithOwnDedent(n ast.Node) bool {
	switch v := n.(type) {
	case *ast.Object:
		return true
	case *ast.Array:
		return v.Form == ast.Expanded || v.Form == ast.Tabular
	default:
		return false
	}
}

func (p *parser) skipBlankLines() {
	for p.check(lexer.Newline) {
		p.advance()
	}
}

// parseDocument parses the whole token vector into the root node: a
// Document wrapping a single Object of top-level entries, or an empty
// Document if the input has none.
func (p *parser) parseDocument() *ast.Document {
	start := p.peek().Span.Start
	p.skipBlankLines()

	if p.check(lexer.Eof) {
		end := p.peek().Span.End
		return &ast.Document{Children: nil, Sp: ast.Span{Start: start, End: end}}
	}

	entries := p.parseEntries()
	end := p.peek().Span.End
	sp := ast.Span{Start: start, End: end}
	if len(entries) == 0 {
		return &ast.Document{Children: nil, Sp: sp}
	}
	obj := &ast.Object{Entries: entries, Sp: sp}
	return &ast.Document{Children: []ast.Node{obj}, Sp: sp}
}

// parseEntries parses a sequence of "key: value" entries until a Dedent
// or Eof, skipping blank lines between them.
func (p *parser) parseEntries() []ast.ObjectEntry {
	var entries []ast.ObjectEntry
	for {
		p.skipBlankLines()
		if p.check(lexer.Dedent) || p.check(lexer.Eof) {
			return entries
		}
		entry, ok := p.parseEntry()
		if !ok {
			continue
		}
		entries = append(entries, entry)
		if len(entries) > MaxContainerItems {
			p.reportError(TooManyObjectEntries, entry.Value.Span())
			return entries
		}
		// A value whose grammar form ends in its own Dedent (nested
		// object, expanded array, tabular array) already leaves the
		// cursor positioned at the next sibling; only values that sit
		// on the same line as their key (literals, unquoted strings,
		// inline arrays) need a trailing Newline/Dedent/Eof check.
		if !endsWithOwnDedent(entry.Value) && !p.check(lexer.Newline) && !p.check(lexer.Dedent) && !p.check(lexer.Eof) {
			p.reportError(UnexpectedToken, p.peek().Span)
		}
	}
}

// parseEntry parses one "key[header]: value" entry.
func (p *parser) parseEntry() (ast.ObjectEntry, bool) {
	keyTok := p.peek()
	var key string
	switch keyTok.Kind {
	case lexer.Identifier, lexer.True, lexer.False, lexer.Null, lexer.String:
		key = keyTok.Text
		p.advance()
	default:
		p.reportError(ExpectedKey, keyTok.Span)
		return ast.ObjectEntry{}, false
	}
	keySpan := keyTok.Span

	hasHeader := false
	var headerFields []string
	if p.check(lexer.LeftBracket) {
		hasHeader = true
		p.advance()
		if p.check(lexer.Number) {
			p.advance() // N is a hint; not enforced
		}
		if !p.expect(lexer.RightBracket) {
			p.reportError(UnexpectedToken, p.peek().Span)
			return ast.ObjectEntry{}, false
		}
		if p.check(lexer.LeftBrace) {
			p.advance()
			for !p.check(lexer.RightBrace) && !p.check(lexer.Eof) {
				if !p.check(lexer.Identifier) {
					p.reportError(UnexpectedToken, p.peek().Span)
					return ast.ObjectEntry{}, false
				}
				headerFields = append(headerFields, p.peek().Text)
				p.advance()
				if p.check(lexer.Comma) {
					p.advance()
				}
			}
			if !p.expect(lexer.RightBrace) {
				p.reportError(UnexpectedToken, p.peek().Span)
				return ast.ObjectEntry{}, false
			}
		}
	}

	if !p.expect(lexer.Colon) {
		p.reportError(ExpectedColon, p.peek().Span)
		return ast.ObjectEntry{}, false
	}

	value, ok := p.parseValue(hasHeader, headerFields)
	if !ok {
		return ast.ObjectEntry{}, false
	}
	return ast.ObjectEntry{Key: key, KeySpan: keySpan, Value: value}, true
}

// parseValue dispatches on the current token per the grammar in prose:
// a tabular/inline array (if the entry had an array header), a literal,
// a nested object or expanded array (introduced by newline), or an
// unquoted string run.
func (p *parser) parseValue(hasHeader bool, headerFields []string) (ast.Node, bool) {
	if hasHeader {
		if len(headerFields) > 0 {
			return p.parseTabularArray(headerFields)
		}
		return p.parseInlineArray()
	}

	cur := p.peek()
	switch cur.Kind {
	case lexer.String:
		p.advance()
		return &ast.String{Value: cur.Text, Sp: cur.Span}, true
	case lexer.Number:
		p.advance()
		return p.numberNode(cur)
	case lexer.True:
		p.advance()
		return &ast.Bool{Value: true, Sp: cur.Span}, true
	case lexer.False:
		p.advance()
		return &ast.Bool{Value: false, Sp: cur.Span}, true
	case lexer.Null:
		p.advance()
		return &ast.Null{Sp: cur.Span}, true
	case lexer.Newline:
		return p.parseIndentedValue()
	case lexer.Identifier:
		return p.parseUnquotedString()
	default:
		p.reportError(ExpectedValue, cur.Span)
		return nil, false
	}
}

func (p *parser) numberNode(tok lexer.Token) (ast.Node, bool) {
	nv, err := parseNumberText(tok.Text)
	if err != nil {
		p.reportError(InvalidNumber, tok.Span)
		return &ast.Number{Value: ast.NumberValue{}, Sp: tok.Span}, true
	}
	return &ast.Number{Value: nv, Sp: tok.Span}, true
}

func parseNumberText(raw string) (ast.NumberValue, error) {
	if strings.ContainsAny(raw, ".eE") {
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return ast.NumberValue{}, err
		}
		return ast.NumberValue{Kind: ast.Float, FloatVal: f}, nil
	}
	if strings.HasPrefix(raw, "-") {
		if raw == "-0" {
			return ast.NumberValue{Kind: ast.PosInt, PosIntVal: 0}, nil
		}
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return ast.NumberValue{}, err
		}
		return ast.NumberValue{Kind: ast.NegInt, NegIntVal: n}, nil
	}
	n, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return ast.NumberValue{}, err
	}
	return ast.NumberValue{Kind: ast.PosInt, PosIntVal: n}, nil
}

// parseIndentedValue handles the Newline-introduced forms: a nested
// object (Newline, Indent, entries, Dedent) or an expanded array
// (Newline, Indent, Dash items, Dedent).
func (p *parser) parseIndentedValue() (ast.Node, bool) {
	nlSpan := p.peek().Span
	p.advance() // Newline

	if !p.check(lexer.Indent) {
		p.reportError(ExpectedValue, nlSpan)
		return nil, false
	}
	startSpan := p.peek().Span
	p.advance() // Indent

	p.depth++
	if p.depth > MaxNestingDepth {
		p.reportError(MaxDepthExceeded, startSpan)
		p.depth--
		return &ast.Null{Sp: startSpan}, true
	}

	var node ast.Node
	if p.check(lexer.Dash) {
		node = p.parseExpandedArrayBody(startSpan)
	} else {
		entries := p.parseEntries()
		end := p.peek().Span.End
		node = &ast.Object{Entries: entries, Sp: ast.Span{Start: startSpan.Start, End: end}}
	}
	p.depth--

	if !p.expect(lexer.Dedent) {
		p.reportError(UnexpectedEof, p.peek().Span)
	}
	return node, true
}

func (p *parser) parseExpandedArrayBody(startSpan ast.Span) ast.Node {
	var items []ast.Node
	for p.check(lexer.Dash) {
		p.advance()
		val, ok := p.parseValue(false, nil)
		if ok {
			items = append(items, val)
			if len(items) > MaxContainerItems {
				p.reportError(TooManyArrayItems, val.Span())
				break
			}
			if !endsWithOwnDedent(val) && !p.check(lexer.Dedent) && !p.check(lexer.Eof) && !p.check(lexer.Newline) && !p.check(lexer.Dash) {
				p.reportError(UnexpectedToken, p.peek().Span)
			}
		}
		p.skipBlankLines()
	}
	end := p.peek().Span.End
	return &ast.Array{Items: items, Form: ast.Expanded, Sp: ast.Span{Start: startSpan.Start, End: end}}
}

// parseInlineArray parses "v1, v2, v3" on a single line after a [N]
// header with no field list.
func (p *parser) parseInlineArray() (ast.Node, bool) {
	start := p.peek().Span
	var items []ast.Node
	for {
		if p.check(lexer.Newline) || p.check(lexer.Eof) || p.check(lexer.Dedent) {
			break
		}
		val, ok := p.parseLiteralValue()
		if !ok {
			return nil, false
		}
		items = append(items, val)
		if len(items) > MaxContainerItems {
			p.reportError(TooManyArrayItems, val.Span())
			break
		}
		if p.check(lexer.Comma) {
			p.advance()
			continue
		}
		break
	}
	end := p.peek().Span.Start
	sp := start
	if len(items) > 0 {
		sp = ast.Span{Start: start.Start, End: items[len(items)-1].Span().End}
	} else {
		sp = ast.Span{Start: start.Start, End: end}
	}
	return &ast.Array{Items: items, Form: ast.Inline, Sp: sp}, true
}

// parseTabularArray parses the rows following a "[N]{f1,f2,...}" header:
// one Object per row, zipping the header's field names with the row's
// comma-separated values.
func (p *parser) parseTabularArray(fields []string) (ast.Node, bool) {
	if !p.expect(lexer.Newline) {
		p.reportError(ExpectedValue, p.peek().Span)
		return nil, false
	}
	if !p.expect(lexer.Indent) {
		p.reportError(ExpectedValue, p.peek().Span)
		return nil, false
	}
	start := p.peek().Span

	var rows []ast.Node
	for !p.check(lexer.Dedent) && !p.check(lexer.Eof) {
		p.skipBlankLines()
		if p.check(lexer.Dedent) || p.check(lexer.Eof) {
			break
		}
		rowStart := p.peek().Span
		var entries []ast.ObjectEntry
		for i, field := range fields {
			val, ok := p.parseLiteralValue()
			if !ok {
				return nil, false
			}
			entries = append(entries, ast.ObjectEntry{Key: field, KeySpan: ast.Point(val.Span().Start), Value: val})
			if i < len(fields)-1 {
				if !p.expect(lexer.Comma) {
					p.reportError(UnexpectedToken, p.peek().Span)
					break
				}
			}
		}
		rowEnd := p.peek().Span.Start
		if len(entries) > 0 {
			rowEnd = entries[len(entries)-1].Value.Span().End
		}
		rows = append(rows, &ast.Object{Entries: entries, Sp: ast.Span{Start: rowStart.Start, End: rowEnd}})
		if len(rows) > MaxContainerItems {
			p.reportError(TooManyArrayItems, rowStart)
			break
		}
		if !p.check(lexer.Dedent) && !p.check(lexer.Eof) {
			if !p.expect(lexer.Newline) {
				p.reportError(UnexpectedToken, p.peek().Span)
			}
		}
	}

	end := p.peek().Span.End
	if !p.expect(lexer.Dedent) {
		p.reportError(UnexpectedEof, p.peek().Span)
	}
	return &ast.Array{Items: rows, Form: ast.Tabular, Sp: ast.Span{Start: start.Start, End: end}}, true
}

// parseLiteralValue parses a single literal used inside inline and
// tabular arrays: a string, number, boolean, null, or a bare identifier
// treated as its own text (matching how unquoted scalar values are
// accepted elsewhere in the grammar).
func (p *parser) parseLiteralValue() (ast.Node, bool) {
	cur := p.peek()
	switch cur.Kind {
	case lexer.String:
		p.advance()
		return &ast.String{Value: cur.Text, Sp: cur.Span}, true
	case lexer.Number:
		p.advance()
		return p.numberNode(cur)
	case lexer.True:
		p.advance()
		return &ast.Bool{Value: true, Sp: cur.Span}, true
	case lexer.False:
		p.advance()
		return &ast.Bool{Value: false, Sp: cur.Span}, true
	case lexer.Null:
		p.advance()
		return &ast.Null{Sp: cur.Span}, true
	case lexer.Identifier:
		p.advance()
		return &ast.String{Value: cur.Text, Sp: cur.Span}, true
	default:
		p.reportError(ExpectedValue, cur.Span)
		return nil, false
	}
}

// parseUnquotedString implements the open-question behaviour documented
// in the design notes: an unquoted run of identifier/number/keyword
// tokens concatenated with single spaces, trimmed at both ends, read
// until the next Newline. This implementation's choice of permitted
// token kinds in the run is Identifier, Number, True, False, and Null;
// encountering any structural token (colon, comma, bracket) ends the
// run rather than being absorbed into it.
func (p *parser) parseUnquotedString() (ast.Node, bool) {
	start := p.peek().Span
	var parts []string
	var last ast.Span
	for {
		cur := p.peek()
		switch cur.Kind {
		case lexer.Identifier, lexer.True, lexer.False, lexer.Null:
			parts = append(parts, cur.Text)
			last = cur.Span
			p.advance()
		case lexer.Number:
			parts = append(parts, cur.Text)
			last = cur.Span
			p.advance()
		default:
			if len(parts) == 0 {
				p.reportError(ExpectedValue, cur.Span)
				return nil, false
			}
			sp := ast.Span{Start: start.Start, End: last.End}
			return &ast.String{Value: strings.TrimSpace(strings.Join(parts, " ")), Sp: sp}, true
		}
	}
}

// DetectDuplicateKeys runs the secondary scan mentioned in the design
// notes: duplicate keys are legal TOON (later keys shadow earlier ones
// once canonicalised to JSON) so the parser itself never rejects them,
// but callers such as "diagnose" may want a DuplicateKey diagnostic per
// repeated key within a single object.
func DetectDuplicateKeys(doc *ast.Document) []*ParseError {
	var errs []*ParseError
	var walk func(n ast.Node)
	walk = func(n ast.Node) {
		switch v := n.(type) {
		case *ast.Document:
			for _, c := range v.Children {
				walk(c)
			}
		case *ast.Object:
			seen := make(map[string]bool, len(v.Entries))
			for _, e := range v.Entries {
				if seen[e.Key] {
					errs = append(errs, &ParseError{Kind: DuplicateKey, Span: e.KeySpan, Context: e.Key})
				}
				seen[e.Key] = true
				walk(e.Value)
			}
		case *ast.Array:
			for _, item := range v.Items {
				walk(item)
			}
		}
	}
	if doc != nil {
		walk(doc)
	}
	return errs
}
