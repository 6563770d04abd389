// Package services assembles the editor-facing features (hover,
// completion, definition, references, rename) on top of astutil's
// position lookups and utf16pos's coordinate bridge. Every service
// consumes a parsed AST and a cursor and returns small owned records for
// a handler to serialise; a missing AST or an out-of-range cursor is
// absorbed here (an empty result), never an error.
package services

import (
	"fmt"
	"sort"
	"strings"

	"github.com/toon-lang/toon-lsp/internal/toon/ast"
	"github.com/toon-lang/toon-lsp/internal/toon/astutil"
	"github.com/toon-lang/toon-lsp/internal/toon/format"
	"github.com/toon-lang/toon-lsp/internal/toon/utf16pos"
)

// ResolvePosition turns an LSP {line, character} pair (character in
// UTF-16 code units) into an ast.Position with a correct byte Offset,
// by looking up the line's text in text and converting via utf16pos.
func ResolvePosition(text string, line, character int) ast.Position {
	lineText := utf16pos.Line(text, line)
	byteCol := utf16pos.UTF16ToUTF8Col(lineText, character)
	return ast.Position{Line: line, Column: character, Offset: lineStartOffset(text, line) + byteCol}
}

func lineStartOffset(text string, line int) int {
	if line <= 0 {
		return 0
	}
	seen := 0
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			seen++
			if seen == line {
				return i + 1
			}
		}
	}
	return len(text)
}

// HoverResult is Hover's response: a rendered summary and the span it
// describes, for the client to highlight.
type HoverResult struct {
	Summary string
	Span    ast.Span
}

// Hover renders a one-line type summary for the node at pos. On a key,
// the summary is "key : TypeSummary"; on a value, it is the type
// summary alone.
func Hover(doc *ast.Document, pos ast.Position) (*HoverResult, bool) {
	found, ok := astutil.FindNodeAtPosition(doc, pos)
	if !ok {
		return nil, false
	}
	if found.OnKey != nil {
		return &HoverResult{
			Summary: found.OnKey.Key + " : " + typeSummary(found.OnKey.Value),
			Span:    found.OnKey.KeySpan,
		}, true
	}
	return &HoverResult{Summary: typeSummary(found.Node), Span: found.Node.Span()}, true
}

func typeSummary(n ast.Node) string {
	switch v := n.(type) {
	case *ast.Object:
		return fmt.Sprintf("Object (%d entries)", len(v.Entries))
	case *ast.Array:
		return fmt.Sprintf("Array (%d items)", len(v.Items))
	case *ast.String:
		return fmt.Sprintf("String %q", truncatePreview(v.Value, 30))
	case *ast.Number:
		kind := "Integer"
		if v.Value.Kind == ast.Float {
			kind = "Float"
		}
		return fmt.Sprintf("Number (%s) %s", kind, format.FormatNumber(v.Value))
	case *ast.Bool:
		return fmt.Sprintf("Boolean %v", v.Value)
	case *ast.Null:
		return "Null"
	default:
		return ""
	}
}

func truncatePreview(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}

// CompletionItem is one completion suggestion.
type CompletionItem struct {
	Label  string
	Kind   string // "Property" or "Keyword"
	Detail string
}

func keywordItems() []CompletionItem {
	return []CompletionItem{
		{Label: "true", Kind: "Keyword", Detail: "boolean literal"},
		{Label: "false", Kind: "Keyword", Detail: "boolean literal"},
		{Label: "null", Kind: "Keyword", Detail: "null literal"},
	}
}

// Completion returns contextual suggestions. linePrefix is the cursor
// line's text up to (not including) the cursor column: immediately
// after a bare ':' it offers true/false/null; at the start of a line or
// after only whitespace it offers ancestor and sibling keys; otherwise
// it offers both.
func Completion(doc *ast.Document, pos ast.Position, linePrefix string) []CompletionItem {
	trimmedRight := strings.TrimRight(linePrefix, " \t")
	afterColon := strings.HasSuffix(trimmedRight, ":")
	onlyWhitespace := strings.TrimSpace(linePrefix) == ""

	if afterColon {
		return keywordItems()
	}
	keys := keyCompletions(doc, pos)
	if onlyWhitespace {
		return keys
	}
	return append(keywordItems(), keys...)
}

func keyCompletions(doc *ast.Document, pos ast.Position) []CompletionItem {
	found, ok := astutil.FindNodeAtPosition(doc, pos)
	if !ok {
		return nil
	}
	var names []string
	names = append(names, astutil.CollectParentKeys(found.Path)...)
	if obj, isObj := found.Node.(*ast.Object); isObj {
		names = append(names, astutil.CollectSiblingKeys(obj.Entries, nil)...)
	}
	seen := make(map[string]bool, len(names))
	items := make([]CompletionItem, 0, len(names))
	for _, name := range names {
		if seen[name] {
			continue
		}
		seen[name] = true
		items = append(items, CompletionItem{Label: name, Kind: "Property", Detail: "key"})
	}
	return items
}

// Definition returns every key span in the enclosing object matching the
// key under the cursor. Empty if the cursor is on a value rather than a
// key.
func Definition(doc *ast.Document, pos ast.Position) []ast.Span {
	found, ok := astutil.FindNodeAtPosition(doc, pos)
	if !ok || found.OnKey == nil {
		return nil
	}
	obj, isObj := found.Node.(*ast.Object)
	if !isObj {
		return nil
	}
	return astutil.FindKeyDefinitions(obj.Entries, found.OnKey.Key)
}

// References returns every key span across the whole document matching
// the exact name of the key under the cursor, sorted by position.
// includeDeclaration controls whether the occurrence covering the cursor
// itself is included. Empty if the cursor is not on a key.
func References(doc *ast.Document, pos ast.Position, includeDeclaration bool) []ast.Span {
	found, ok := astutil.FindNodeAtPosition(doc, pos)
	if !ok || found.OnKey == nil {
		return nil
	}
	name := found.OnKey.Key
	var spans []ast.Span
	for _, occ := range astutil.CollectAllKeys(doc) {
		if occ.Key != name {
			continue
		}
		if !includeDeclaration && occ.Span.Contains(pos) {
			continue
		}
		spans = append(spans, occ.Span)
	}
	sortSpans(spans)
	return spans
}

func sortSpans(spans []ast.Span) {
	sort.Slice(spans, func(i, j int) bool {
		if spans[i].Start.Line != spans[j].Start.Line {
			return spans[i].Start.Line < spans[j].Start.Line
		}
		return spans[i].Start.Column < spans[j].Start.Column
	})
}

// PrepareRename reports whether the cursor sits on a key and, if so,
// that key's span and current name.
func PrepareRename(doc *ast.Document, pos ast.Position) (span ast.Span, name string, ok bool) {
	found, found1 := astutil.FindNodeAtPosition(doc, pos)
	if !found1 || found.OnKey == nil {
		return ast.Span{}, "", false
	}
	return found.OnKey.KeySpan, found.OnKey.Key, true
}

// RenameEdit is one textual replacement a rename produces.
type RenameEdit struct {
	Span    ast.Span
	NewText string
}

// Rename collects every key span in the document matching the cursor's
// key and produces one edit per occurrence. It does not enforce
// uniqueness: a rename that would create duplicate keys at one scope is
// still emitted, leaving the handler to warn if it chooses to.
func Rename(doc *ast.Document, pos ast.Position, newName string) ([]RenameEdit, bool) {
	_, _, ok := PrepareRename(doc, pos)
	if !ok {
		return nil, false
	}
	spans := References(doc, pos, true)
	edits := make([]RenameEdit, len(spans))
	for i, sp := range spans {
		edits[i] = RenameEdit{Span: sp, NewText: newName}
	}
	return edits, true
}
