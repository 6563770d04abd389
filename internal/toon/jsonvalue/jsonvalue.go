// Package jsonvalue bridges between the TOON AST and the generic
// JSON-shaped value (map[string]any, []any, string, int64, uint64,
// float64, bool, nil)
// that encoding/json and gopkg.in/yaml.v2 both traffic in, so encode/
// decode can reuse the same pivot representation for either codec.
package jsonvalue

import (
	"fmt"
	"sort"

	"github.com/toon-lang/toon-lsp/internal/toon/ast"
)

// FromAST canonicalises a parsed document into a plain Go value.
// Duplicate keys within one object are data, not an error: later
// entries shadow earlier ones, matching the canonicalisation rule
// TOON documents are specified to follow.
func FromAST(doc *ast.Document) (any, error) {
	if doc == nil || len(doc.Children) == 0 {
		return map[string]any{}, nil
	}
	if len(doc.Children) == 1 {
		return fromNode(doc.Children[0])
	}
	return nil, fmt.Errorf("document has %d top-level values, expected exactly one", len(doc.Children))
}

func fromNode(n ast.Node) (any, error) {
	switch v := n.(type) {
	case *ast.Object:
		out := make(map[string]any, len(v.Entries))
		for _, e := range v.Entries {
			val, err := fromNode(e.Value)
			if err != nil {
				return nil, err
			}
			out[e.Key] = val // later duplicates overwrite earlier ones
		}
		return out, nil
	case *ast.Array:
		out := make([]any, len(v.Items))
		for i, item := range v.Items {
			val, err := fromNode(item)
			if err != nil {
				return nil, err
			}
			out[i] = val
		}
		return out, nil
	case *ast.String:
		return v.Value, nil
	case *ast.Number:
		return numberToAny(v.Value), nil
	case *ast.Bool:
		return v.Value, nil
	case *ast.Null:
		return nil, nil
	default:
		return nil, fmt.Errorf("unrecognized AST node %T", n)
	}
}

func numberToAny(v ast.NumberValue) any {
	switch v.Kind {
	case ast.PosInt:
		if v.PosIntVal <= 1<<63-1 {
			return int64(v.PosIntVal)
		}
		return v.PosIntVal
	case ast.NegInt:
		return v.NegIntVal
	default:
		return v.FloatVal
	}
}

// ToAST builds a TOON document AST from a generic decoded value (the
// output of encoding/json.Unmarshal or yaml.Unmarshal into any).
// Arrays whose items are all objects sharing the same key set in the
// same order are built as Tabular; arrays of scalars are built Inline;
// every other array is Expanded. Every produced node has a zero Span:
// it was never parsed from text, it exists only to be formatted.
func ToAST(v any) (*ast.Document, error) {
	node, err := toNode(v)
	if err != nil {
		return nil, err
	}
	return &ast.Document{Children: []ast.Node{node}}, nil
}

func toNode(v any) (ast.Node, error) {
	switch val := v.(type) {
	case nil:
		return &ast.Null{}, nil
	case bool:
		return &ast.Bool{Value: val}, nil
	case string:
		return &ast.String{Value: val}, nil
	case int:
		return intNode(int64(val)), nil
	case int64:
		return intNode(val), nil
	case float64:
		if val == float64(int64(val)) {
			return intNode(int64(val)), nil
		}
		return &ast.Number{Value: ast.NumberValue{Kind: ast.Float, FloatVal: val}}, nil
	case map[string]any:
		return objectNode(val)
	case map[any]any:
		// yaml.v2 decodes mappings into map[interface{}]interface{}.
		converted := make(map[string]any, len(val))
		for k, mv := range val {
			key, ok := k.(string)
			if !ok {
				return nil, fmt.Errorf("non-string map key %v (%T) has no TOON representation", k, k)
			}
			converted[key] = mv
		}
		return objectNode(converted)
	case []any:
		return arrayNode(val)
	default:
		return nil, fmt.Errorf("value of type %T has no TOON representation", v)
	}
}

func intNode(i int64) *ast.Number {
	if i < 0 {
		return &ast.Number{Value: ast.NumberValue{Kind: ast.NegInt, NegIntVal: i}}
	}
	return &ast.Number{Value: ast.NumberValue{Kind: ast.PosInt, PosIntVal: uint64(i)}}
}

func objectNode(m map[string]any) (*ast.Object, error) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	entries := make([]ast.ObjectEntry, 0, len(keys))
	for _, k := range keys {
		val, err := toNode(m[k])
		if err != nil {
			return nil, err
		}
		entries = append(entries, ast.ObjectEntry{Key: k, Value: val})
	}
	return &ast.Object{Entries: entries}, nil
}

func arrayNode(items []any) (*ast.Array, error) {
	nodes := make([]ast.Node, len(items))
	for i, item := range items {
		node, err := toNode(item)
		if err != nil {
			return nil, err
		}
		nodes[i] = node
	}
	return &ast.Array{Items: nodes, Form: chooseForm(nodes)}, nil
}

func chooseForm(items []ast.Node) ast.ArrayForm {
	if len(items) == 0 {
		return ast.Inline
	}
	allScalar := true
	for _, item := range items {
		switch item.(type) {
		case *ast.Object, *ast.Array:
			allScalar = false
		}
	}
	if allScalar {
		return ast.Inline
	}
	if fields, ok := uniformFields(items); ok {
		_ = fields
		return ast.Tabular
	}
	return ast.Expanded
}

// uniformFields reports whether every item is an Object with the same
// ordered key set, the condition the formatter's Tabular form requires.
func uniformFields(items []ast.Node) ([]string, bool) {
	first, ok := items[0].(*ast.Object)
	if !ok {
		return nil, false
	}
	want := make([]string, len(first.Entries))
	for i, e := range first.Entries {
		want[i] = e.Key
		if _, isContainer := e.Value.(*ast.Object); isContainer {
			return nil, false
		}
		if _, isContainer := e.Value.(*ast.Array); isContainer {
			return nil, false
		}
	}
	for _, item := range items[1:] {
		obj, ok := item.(*ast.Object)
		if !ok || len(obj.Entries) != len(want) {
			return nil, false
		}
		for i, e := range obj.Entries {
			if e.Key != want[i] {
				return nil, false
			}
		}
	}
	return want, true
}
