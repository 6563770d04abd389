package format

import (
	"strings"
	"testing"

	"github.com/toon-lang/toon-lsp/internal/toon/ast"
)

func TestFormat_SimpleObject(t *testing.T) {
	out, err := Format("name: Alice\nage: 30\n", DefaultConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "name: Alice\nage: 30\n"
	if out != want {
		t.Errorf("expected %q, got %q", want, out)
	}
}

func TestFormat_RefusesOnParseError(t *testing.T) {
	_, err := Format("a 1\n", DefaultConfig())
	if err == nil {
		t.Fatalf("expected an error for unparseable input")
	}
	if _, ok := err.(*ErrRefusedParseErrors); !ok {
		t.Errorf("expected *ErrRefusedParseErrors, got %T", err)
	}
}

func TestFormat_AlwaysEndsInOneNewline(t *testing.T) {
	out, err := Format("a: 1", DefaultConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasSuffix(out, "\n") {
		t.Errorf("expected output to end in a newline, got %q", out)
	}
	if strings.HasSuffix(out, "\n\n") {
		t.Errorf("expected exactly one trailing newline, got %q", out)
	}
}

func TestFormat_NestedObjectIndentation(t *testing.T) {
	out, err := Format("user:\n  name: Bob\n  age: 25\n", DefaultConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "user:\n  name: Bob\n  age: 25\n"
	if out != want {
		t.Errorf("expected:\n%s\ngot:\n%s", want, out)
	}
}

func TestFormat_CustomIndentWidth(t *testing.T) {
	out, err := Format("user:\n  name: Bob\n", Config{Width: 4})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "user:\n    name: Bob\n"
	if out != want {
		t.Errorf("expected:\n%s\ngot:\n%s", want, out)
	}
}

func TestFormat_ExpandedArray(t *testing.T) {
	out, err := Format("items:\n  - 1\n  - 2\n  - 3\n", DefaultConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "items:\n  - 1\n  - 2\n  - 3\n"
	if out != want {
		t.Errorf("expected:\n%s\ngot:\n%s", want, out)
	}
}

func TestFormat_TabularArray(t *testing.T) {
	out, err := Format("users[2]{id,name}:\n  1,Alice\n  2,Bob\n", DefaultConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "users[2]{id,name}:\n  1,Alice\n  2,Bob\n"
	if out != want {
		t.Errorf("expected:\n%s\ngot:\n%s", want, out)
	}
}

func TestFormat_InlineArray(t *testing.T) {
	out, err := Format("tags[3]: a,b,c\n", DefaultConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "tags: [a, b, c]\n" {
		t.Errorf("unexpected output: %q", out)
	}
}

func TestFormat_QuotesAmbiguousScalars(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"colon in value", `a: "has: colon"` + "\n", `a: "has: colon"` + "\n"},
		{"looks like bool", `a: "true"` + "\n", `a: "true"` + "\n"},
		{"looks like number", `a: "42"` + "\n", `a: "42"` + "\n"},
		{"empty string", `a: ""` + "\n", `a: ""` + "\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Format(tt.src, DefaultConfig())
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if out != tt.want {
				t.Errorf("expected %q, got %q", tt.want, out)
			}
		})
	}
}

func TestFormat_NumberRendering(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"a: 42\n", "a: 42\n"},
		{"a: -7\n", "a: -7\n"},
		{"a: 3.5\n", "a: 3.5\n"},
		{"a: 3.0\n", "a: 3.0\n"},
	}
	for _, tt := range tests {
		out, err := Format(tt.src, DefaultConfig())
		if err != nil {
			t.Fatalf("unexpected error for %q: %v", tt.src, err)
		}
		if out != tt.want {
			t.Errorf("Format(%q) = %q, want %q", tt.src, out, tt.want)
		}
	}
}

func TestFormat_TopLevelExpandedArray(t *testing.T) {
	f := New(DefaultConfig())
	doc := &ast.Document{
		Children: []ast.Node{
			&ast.Array{
				Form: ast.Expanded,
				Items: []ast.Node{
					&ast.Number{Value: ast.NumberValue{Kind: ast.PosInt, PosIntVal: 1}},
					&ast.Number{Value: ast.NumberValue{Kind: ast.PosInt, PosIntVal: 2}},
				},
			},
		},
	}
	out := f.FormatDocument(doc)
	want := "- 1\n- 2\n"
	if out != want {
		t.Errorf("expected %q, got %q", want, out)
	}
}

func TestFormat_TopLevelTabularArray(t *testing.T) {
	f := New(DefaultConfig())
	row := func(id uint64, name string) *ast.Object {
		return &ast.Object{Entries: []ast.ObjectEntry{
			{Key: "id", Value: &ast.Number{Value: ast.NumberValue{Kind: ast.PosInt, PosIntVal: id}}},
			{Key: "name", Value: &ast.String{Value: name}},
		}}
	}
	doc := &ast.Document{
		Children: []ast.Node{
			&ast.Array{Form: ast.Tabular, Items: []ast.Node{row(1, "Alice"), row(2, "Bob")}},
		},
	}
	out := f.FormatDocument(doc)
	want := "[2]{id,name}:\n  1,Alice\n  2,Bob\n"
	if out != want {
		t.Errorf("expected %q, got %q", want, out)
	}
}

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		nv   ast.NumberValue
		want string
	}{
		{ast.NumberValue{Kind: ast.PosInt, PosIntVal: 42}, "42"},
		{ast.NumberValue{Kind: ast.NegInt, NegIntVal: -5}, "-5"},
		{ast.NumberValue{Kind: ast.Float, FloatVal: 2.5}, "2.5"},
		{ast.NumberValue{Kind: ast.Float, FloatVal: 2.0}, "2.0"},
	}
	for _, tt := range tests {
		if got := FormatNumber(tt.nv); got != tt.want {
			t.Errorf("FormatNumber(%#v) = %q, want %q", tt.nv, got, tt.want)
		}
	}
}

func TestConfig_NormalizesOutOfRangeWidth(t *testing.T) {
	f := New(Config{Width: 0})
	if f.config.Width != 1 {
		t.Errorf("expected width clamp to 1, got %d", f.config.Width)
	}
	f = New(Config{Width: 20})
	if f.config.Width != 8 {
		t.Errorf("expected width clamp to 8, got %d", f.config.Width)
	}
}
