package services

import (
	"testing"

	"github.com/toon-lang/toon-lsp/internal/toon/docstore"
	"github.com/toon-lang/toon-lsp/internal/toon/parser"
)

func TestDocumentSymbols_NilDocument(t *testing.T) {
	if got := DocumentSymbols(nil); got != nil {
		t.Errorf("expected nil for a nil document, got %v", got)
	}
}

func TestDocumentSymbols_SimpleObject(t *testing.T) {
	doc, errs := parser.ParseWithErrors("name: Alice\nage: 30\n")
	if len(errs) > 0 {
		t.Fatalf("unexpected parse errors: %v", errs)
	}
	syms := DocumentSymbols(doc)
	if len(syms) != 1 || syms[0].Kind != "Object" {
		t.Fatalf("expected a single root Object symbol, got %v", syms)
	}
	children := syms[0].Children
	if len(children) != 2 {
		t.Fatalf("expected 2 child symbols, got %d", len(children))
	}
	if children[0].Name != "name" || children[0].Kind != "String" {
		t.Errorf("expected name/String, got %#v", children[0])
	}
	if children[1].Name != "age" || children[1].Kind != "Number" {
		t.Errorf("expected age/Number, got %#v", children[1])
	}
}

func TestDocumentSymbols_ArrayIndices(t *testing.T) {
	doc, errs := parser.ParseWithErrors("items:\n  - 1\n  - 2\n")
	if len(errs) > 0 {
		t.Fatalf("unexpected parse errors: %v", errs)
	}
	syms := DocumentSymbols(doc)
	arr := syms[0].Children[0]
	if arr.Kind != "Array" {
		t.Fatalf("expected Array symbol, got %#v", arr)
	}
	if len(arr.Children) != 2 || arr.Children[0].Name != "[0]" || arr.Children[1].Name != "[1]" {
		t.Errorf("expected indexed item names [0]/[1], got %v", arr.Children)
	}
}

func TestDocumentSymbols_NestedObject(t *testing.T) {
	doc, errs := parser.ParseWithErrors("user:\n  name: Bob\n")
	if len(errs) > 0 {
		t.Fatalf("unexpected parse errors: %v", errs)
	}
	syms := DocumentSymbols(doc)
	user := syms[0].Children[0]
	if user.Name != "user" || user.Kind != "Object" {
		t.Fatalf("expected user/Object, got %#v", user)
	}
	if len(user.Children) != 1 || user.Children[0].Name != "name" {
		t.Errorf("expected nested 'name' child, got %v", user.Children)
	}
}

func TestWorkspaceSymbols_MatchesAcrossOpenDocuments(t *testing.T) {
	store := docstore.NewStore()
	store.Open("file:///a.toon", "name: Alice\n", 1)
	store.Open("file:///b.toon", "username: Bob\nage: 40\n", 1)

	results := WorkspaceSymbols(store, "name")
	if len(results) != 2 {
		t.Fatalf("expected 2 matches for 'name' across both documents, got %d: %v", len(results), results)
	}
}

func TestWorkspaceSymbols_EmptyQueryMatchesEverything(t *testing.T) {
	store := docstore.NewStore()
	store.Open("file:///a.toon", "a: 1\nb: 2\n", 1)

	results := WorkspaceSymbols(store, "")
	if len(results) != 2 {
		t.Errorf("expected every key to match an empty query, got %d", len(results))
	}
}

func TestWorkspaceSymbols_CaseInsensitive(t *testing.T) {
	store := docstore.NewStore()
	store.Open("file:///a.toon", "UserName: Alice\n", 1)

	results := WorkspaceSymbols(store, "username")
	if len(results) != 1 {
		t.Errorf("expected a case-insensitive match, got %d", len(results))
	}
}

func TestWorkspaceSymbols_NoMatch(t *testing.T) {
	store := docstore.NewStore()
	store.Open("file:///a.toon", "a: 1\n", 1)

	results := WorkspaceSymbols(store, "zzz")
	if len(results) != 0 {
		t.Errorf("expected no matches, got %v", results)
	}
}
