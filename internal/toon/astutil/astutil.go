// Package astutil implements pure, allocation-light queries over an
// already-parsed ast.Node tree: cursor lookup, key collection, and
// duplicate scanning. These functions never build new AST nodes; they
// return references, indices, or small owned records whose lifetime is
// bounded by the caller's hold on the underlying document.
package astutil

import "github.com/toon-lang/toon-lsp/internal/toon/ast"

// PathEntry is one step in the path from the document root to an
// enclosing node, remembering whether the descent was through an object
// entry (and which key) or an array item (and which index).
type PathEntry struct {
	Node  ast.Node
	Key   string
	HasKey bool
	Index int
	HasIndex bool
}

// NodeAtPosition is the result of FindNodeAtPosition: the path from root
// to the most specific enclosing node, that node itself, and, if the
// point falls within an entry's key span rather than its value, the
// entry in question.
type NodeAtPosition struct {
	Path  []PathEntry
	Node  ast.Node
	OnKey *ast.ObjectEntry
}

// FindNodeAtPosition walks root to find the most specific node whose
// span contains pos. At each level it picks the unique child whose span
// contains the point; if none contains it, the walk stops at the
// current node. ok is false only when root is nil or pos falls outside
// the document's own span entirely.
func FindNodeAtPosition(root *ast.Document, pos ast.Position) (result *NodeAtPosition, ok bool) {
	if root == nil || !root.Span().Contains(pos) {
		return nil, false
	}
	return walk(nil, root, pos), true
}

func walk(path []PathEntry, node ast.Node, pos ast.Position) *NodeAtPosition {
	switch v := node.(type) {
	case *ast.Document:
		for _, child := range v.Children {
			if child.Span().Contains(pos) {
				return walk(append(path, PathEntry{Node: node}), child, pos)
			}
		}
		return &NodeAtPosition{Path: path, Node: node}
	case *ast.Object:
		for i := range v.Entries {
			entry := v.Entries[i]
			if entry.KeySpan.Contains(pos) {
				return &NodeAtPosition{
					Path:  append(path, PathEntry{Node: node, Key: entry.Key, HasKey: true}),
					Node:  node,
					OnKey: &v.Entries[i],
				}
			}
			if entry.Value != nil && entry.Value.Span().Contains(pos) {
				return walk(append(path, PathEntry{Node: node, Key: entry.Key, HasKey: true}), entry.Value, pos)
			}
		}
		return &NodeAtPosition{Path: path, Node: node}
	case *ast.Array:
		for i, item := range v.Items {
			if item.Span().Contains(pos) {
				return walk(append(path, PathEntry{Node: node, Index: i, HasIndex: true}), item, pos)
			}
		}
		return &NodeAtPosition{Path: path, Node: node}
	default:
		return &NodeAtPosition{Path: path, Node: node}
	}
}

// CollectSiblingKeys returns the keys of every entry in entries except
// one whose key equals exclude (if exclude is non-nil). Used by
// completion to offer the other keys already present at the same scope.
func CollectSiblingKeys(entries []ast.ObjectEntry, exclude *string) []string {
	keys := make([]string, 0, len(entries))
	for _, e := range entries {
		if exclude != nil && e.Key == *exclude {
			continue
		}
		keys = append(keys, e.Key)
	}
	return keys
}

// CollectParentKeys gathers every key reachable from the ancestor
// Objects named in path, up to the root. For each path step that is an
// Object node it collects all of that object's own entry keys (not just
// the single key that was descended through), matching the "offer every
// key visible from here" intent completion needs.
func CollectParentKeys(path []PathEntry) []string {
	var keys []string
	for _, step := range path {
		if obj, ok := step.Node.(*ast.Object); ok {
			for _, e := range obj.Entries {
				keys = append(keys, e.Key)
			}
		}
	}
	return keys
}

// FindKeyDefinitions returns the key span of every entry in entries
// whose key text equals name exactly (in-scope duplicates included).
func FindKeyDefinitions(entries []ast.ObjectEntry, name string) []ast.Span {
	var spans []ast.Span
	for _, e := range entries {
		if e.Key == name {
			spans = append(spans, e.KeySpan)
		}
	}
	return spans
}

// KeyOccurrence pairs a key's text with the span of that occurrence,
// used by whole-document scans (references, rename, workspace symbols).
type KeyOccurrence struct {
	Key  string
	Span ast.Span
}

// CollectAllKeys performs a whole-tree traversal yielding every
// (key, key span) pair in document order.
func CollectAllKeys(root *ast.Document) []KeyOccurrence {
	var out []KeyOccurrence
	if root == nil {
		return out
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
				out = append(out, KeyOccurrence{Key: e.Key, Span: e.KeySpan})
				visit(e.Value)
			}
		case *ast.Array:
			for _, item := range v.Items {
				visit(item)
			}
		}
	}
	visit(root)
	return out
}

// EntriesOf returns the Entries slice of n if n is an Object, for
// callers (completion, hover) that already hold a generic ast.Node from
// a path step and need its entries.
func EntriesOf(n ast.Node) ([]ast.ObjectEntry, bool) {
	obj, ok := n.(*ast.Object)
	if !ok {
		return nil, false
	}
	return obj.Entries, true
}
