package services

import (
	"strconv"
	"strings"

	"github.com/toon-lang/toon-lsp/internal/toon/ast"
	"github.com/toon-lang/toon-lsp/internal/toon/astutil"
	"github.com/toon-lang/toon-lsp/internal/toon/docstore"
)

// Symbol is one entry in a document's outline: a key or array index,
// its kind, and the span it covers, nested to mirror the document's
// structure.
type Symbol struct {
	Name     string
	Kind     string
	Span     ast.Span
	Children []Symbol
}

// DocumentSymbols builds the outline tree for a single document's AST,
// the source for the LSP textDocument/documentSymbol request and the
// CLI "symbols" command.
func DocumentSymbols(doc *ast.Document) []Symbol {
	if doc == nil {
		return nil
	}
	out := make([]Symbol, 0, len(doc.Children))
	for _, c := range doc.Children {
		out = append(out, symbolOf(c, ""))
	}
	return out
}

func symbolOf(n ast.Node, name string) Symbol {
	switch v := n.(type) {
	case *ast.Object:
		sym := Symbol{Name: name, Kind: "Object", Span: v.Sp}
		sym.Children = make([]Symbol, 0, len(v.Entries))
		for _, e := range v.Entries {
			sym.Children = append(sym.Children, symbolOf(e.Value, e.Key))
		}
		return sym
	case *ast.Array:
		sym := Symbol{Name: name, Kind: "Array", Span: v.Sp}
		sym.Children = make([]Symbol, 0, len(v.Items))
		for i, item := range v.Items {
			sym.Children = append(sym.Children, symbolOf(item, indexName(i)))
		}
		return sym
	case *ast.String:
		return Symbol{Name: name, Kind: "String", Span: v.Sp}
	case *ast.Number:
		return Symbol{Name: name, Kind: "Number", Span: v.Sp}
	case *ast.Bool:
		return Symbol{Name: name, Kind: "Boolean", Span: v.Sp}
	case *ast.Null:
		return Symbol{Name: name, Kind: "Null", Span: v.Sp}
	default:
		return Symbol{Name: name, Kind: "Unknown", Span: n.Span()}
	}
}

func indexName(i int) string {
	return "[" + strconv.Itoa(i) + "]"
}

// WorkspaceSymbol pairs a Symbol with the URI of the document it was
// found in, for cross-document results.
type WorkspaceSymbol struct {
	URI string
	Symbol
}

// WorkspaceSymbols scans every document currently open in store and
// returns every key whose name contains query (case-insensitive; an
// empty query matches everything). Unlike the teacher's tooling.
// SymbolIndex, which maintains a separate incrementally-updated
// name->location map alongside the document store, this scans docstore
// snapshots directly: TOON documents are small and parsing is already
// linear, so an on-demand walk avoids keeping a second index in sync
// with every open/change/close.
func WorkspaceSymbols(store *docstore.Store, query string) []WorkspaceSymbol {
	q := strings.ToLower(query)
	var out []WorkspaceSymbol
	for _, doc := range store.All() {
		snap := doc.Snapshot()
		for _, occ := range astutil.CollectAllKeys(snap.AST) {
			if q != "" && !strings.Contains(strings.ToLower(occ.Key), q) {
				continue
			}
			out = append(out, WorkspaceSymbol{
				URI:    snap.URI,
				Symbol: Symbol{Name: occ.Key, Kind: "Property", Span: occ.Span},
			})
		}
	}
	return out
}
