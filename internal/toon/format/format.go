// Package format renders a parsed AST back to canonical TOON text,
// following the teacher's Formatter{config, buf, indent} shape: a small
// stateful writer threaded through one recursive descent over the tree,
// rather than a separate pretty-printing IR.
package format

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/toon-lang/toon-lsp/internal/toon/ast"
	"github.com/toon-lang/toon-lsp/internal/toon/parser"
)

// Config configures indentation. Width is the number of spaces per level,
// clamped to 1-8; UseTabs writes one tab per level regardless of Width.
type Config struct {
	Width      int
	UseTabs    bool
}

// DefaultConfig matches the formatter's out-of-the-box behaviour: two
// spaces per indent level.
func DefaultConfig() Config {
	return Config{Width: 2, UseTabs: false}
}

func (c Config) normalized() Config {
	if c.Width < 1 {
		c.Width = 1
	}
	if c.Width > 8 {
		c.Width = 8
	}
	return c
}

// Formatter walks an AST and renders it to canonical TOON text.
type Formatter struct {
	config Config
	buf    bytes.Buffer
	indent int
}

// New creates a Formatter with the given configuration.
func New(config Config) *Formatter {
	return &Formatter{config: config.normalized()}
}

// ErrRefusedParseErrors is returned when the source does not parse
// cleanly; the formatter deliberately refuses to format a document with
// parse errors rather than risk silently discarding malformed lines.
type ErrRefusedParseErrors struct {
	Errors []*parser.ParseError
}

func (e *ErrRefusedParseErrors) Error() string {
	return fmt.Sprintf("format refused: %d parse error(s)", len(e.Errors))
}

// Format parses source and, if it parses without error, renders it back
// to canonical TOON text ending in exactly one newline. It refuses (with
// ErrRefusedParseErrors) when source has any parse errors.
func Format(source string, config Config) (string, error) {
	doc, errs := parser.ParseWithErrors(source)
	if len(errs) > 0 {
		return "", &ErrRefusedParseErrors{Errors: errs}
	}
	return New(config).FormatDocument(doc), nil
}

// FormatDocument renders an already-parsed, error-free document. Callers
// that have their own parse step (e.g. the LSP formatting handler, which
// already holds the document's AST) should call this directly rather
// than re-parsing via Format.
func (f *Formatter) FormatDocument(doc *ast.Document) string {
	f.buf.Reset()
	f.indent = 0
	if doc != nil {
		for _, child := range doc.Children {
			f.writeValue(child, true)
		}
	}
	out := f.buf.String()
	if !strings.HasSuffix(out, "\n") {
		out += "\n"
	}
	return out
}

func (f *Formatter) writeIndent() {
	if f.config.UseTabs {
		f.buf.WriteString(strings.Repeat("\t", f.indent))
		return
	}
	f.buf.WriteString(strings.Repeat(" ", f.indent*f.config.Width))
}

// writeValue renders a top-level or nested container's direct children.
// topLevel is true only for Document's own children, which are rendered
// as the top-level object's entries with no enclosing indent.
func (f *Formatter) writeValue(n ast.Node, topLevel bool) {
	switch v := n.(type) {
	case *ast.Object:
		for _, e := range v.Entries {
			f.writeEntry(e)
		}
	case *ast.Array:
		if v.Form == ast.Inline {
			f.writeIndent()
			f.buf.WriteString(f.inlineScalar(v))
			f.buf.WriteString("\n")
			return
		}
		// Expanded/Tabular arrays have no enclosing "key:" at the
		// document root, so they get their own top-level renderer
		// rather than writeArray (which always follows a written key).
		f.writeTopLevelArray(v)
	default:
		f.writeIndent()
		f.buf.WriteString(f.inlineScalar(n))
		f.buf.WriteString("\n")
	}
	_ = topLevel
}

func (f *Formatter) writeEntry(e ast.ObjectEntry) {
	f.writeIndent()
	f.buf.WriteString(f.quoteIfNeeded(e.Key))

	// Tabular arrays put their "[N]{fields}" header before the colon, not
	// after it (that's where the parser expects to find it on a key), so
	// the colon for this entry is written as part of the header rather
	// than up front the way every other value kind writes it.
	if arr, ok := e.Value.(*ast.Array); ok && arr.Form == ast.Tabular {
		f.writeTabularHeaderAndRows(arr)
		return
	}

	f.buf.WriteString(":")
	switch v := e.Value.(type) {
	case *ast.Object:
		f.buf.WriteString("\n")
		f.indent++
		for _, child := range v.Entries {
			f.writeEntry(child)
		}
		f.indent--
	case *ast.Array:
		f.writeArray(v)
	default:
		f.buf.WriteString(" ")
		f.buf.WriteString(f.inlineScalar(v))
		f.buf.WriteString("\n")
	}
}

func (f *Formatter) writeArray(a *ast.Array) {
	switch a.Form {
	case ast.Inline:
		f.buf.WriteString(" [")
		parts := make([]string, len(a.Items))
		for i, item := range a.Items {
			parts[i] = f.inlineScalar(item)
		}
		f.buf.WriteString(strings.Join(parts, ", "))
		f.buf.WriteString("]\n")
	case ast.Expanded:
		f.buf.WriteString("\n")
		f.indent++
		for _, item := range a.Items {
			f.writeIndent()
			f.buf.WriteString("- ")
			if obj, ok := item.(*ast.Object); ok {
				f.writeTabularValuesInline(obj)
			} else {
				f.buf.WriteString(f.inlineScalar(item))
			}
			f.buf.WriteString("\n")
		}
		f.indent--
	case ast.Tabular:
		// Reachable only when a Tabular array sits inside another
		// container (e.g. as an expanded-array item) rather than
		// directly as an entry's value; entry values go through
		// writeTabularHeaderAndRows instead, since there the header
		// has to precede the entry's own colon.
		f.writeTabularHeaderAndRows(a)
	}
}

// writeTabularHeaderAndRows renders a Tabular array's "[N]{fields}:"
// header immediately (no leading space; it attaches directly to
// whatever preceded it — a key, or nothing at the document root) plus
// its indented rows.
func (f *Formatter) writeTabularHeaderAndRows(a *ast.Array) {
	fields := tabularFields(a)
	f.buf.WriteString(fmt.Sprintf("[%d]{%s}:\n", len(a.Items), strings.Join(fields, ",")))
	f.indent++
	for _, row := range a.Items {
		f.writeIndent()
		f.writeTabularRow(row, fields)
		f.buf.WriteString("\n")
	}
	f.indent--
}

// writeTopLevelArray renders an Expanded or Tabular array with no
// enclosing key, at the formatter's current (base) indent level.
func (f *Formatter) writeTopLevelArray(a *ast.Array) {
	switch a.Form {
	case ast.Expanded:
		for _, item := range a.Items {
			f.writeIndent()
			f.buf.WriteString("- ")
			if obj, ok := item.(*ast.Object); ok {
				f.writeTabularValuesInline(obj)
			} else {
				f.buf.WriteString(f.inlineScalar(item))
			}
			f.buf.WriteString("\n")
		}
	case ast.Tabular:
		f.writeIndent()
		f.writeTabularHeaderAndRows(a)
	}
}

func tabularFields(a *ast.Array) []string {
	if len(a.Items) == 0 {
		return nil
	}
	obj, ok := a.Items[0].(*ast.Object)
	if !ok {
		return nil
	}
	fields := make([]string, len(obj.Entries))
	for i, e := range obj.Entries {
		fields[i] = e.Key
	}
	return fields
}

// writeTabularRow renders only the row's values, comma-separated — the
// field names are declared once in the array's header, not repeated per
// row.
func (f *Formatter) writeTabularRow(row ast.Node, fields []string) {
	obj, ok := row.(*ast.Object)
	if !ok {
		f.buf.WriteString(f.inlineScalar(row))
		return
	}
	parts := make([]string, len(obj.Entries))
	for i, e := range obj.Entries {
		parts[i] = f.inlineScalar(e.Value)
	}
	f.buf.WriteString(strings.Join(parts, ","))
}

func (f *Formatter) writeTabularValuesInline(obj *ast.Object) {
	parts := make([]string, len(obj.Entries))
	for i, e := range obj.Entries {
		parts[i] = f.quoteIfNeeded(e.Key) + ": " + f.inlineScalar(e.Value)
	}
	f.buf.WriteString(strings.Join(parts, ", "))
}

// inlineScalar renders a leaf value (or, defensively, a nested
// container) as it appears inline after a colon or inside an array.
func (f *Formatter) inlineScalar(n ast.Node) string {
	switch v := n.(type) {
	case *ast.String:
		return f.quoteIfNeeded(v.Value)
	case *ast.Number:
		return formatNumber(v.Value)
	case *ast.Bool:
		if v.Value {
			return "true"
		}
		return "false"
	case *ast.Null:
		return "null"
	case *ast.Array:
		if v.Form == ast.Inline {
			parts := make([]string, len(v.Items))
			for i, item := range v.Items {
				parts[i] = f.inlineScalar(item)
			}
			return "[" + strings.Join(parts, ", ") + "]"
		}
		return ""
	default:
		return ""
	}
}

// FormatNumber renders a NumberValue the same way the formatter would
// inline it, for callers outside this package (hover summaries, CLI
// reports) that want the canonical rendering without a full AST walk.
func FormatNumber(v ast.NumberValue) string {
	return formatNumber(v)
}

func formatNumber(v ast.NumberValue) string {
	switch v.Kind {
	case ast.PosInt:
		return strconv.FormatUint(v.PosIntVal, 10)
	case ast.NegInt:
		return strconv.FormatInt(v.NegIntVal, 10)
	default:
		if v.FloatVal == float64(int64(v.FloatVal)) {
			return strconv.FormatFloat(v.FloatVal, 'f', 1, 64)
		}
		return strconv.FormatFloat(v.FloatVal, 'g', -1, 64)
	}
}

// quoteIfNeeded quotes s when its unquoted form would be ambiguous:
// empty, contains a structural character, starts/ends with a space,
// equals a keyword, or parses as a number.
func (f *Formatter) quoteIfNeeded(s string) string {
	if needsQuotes(s) {
		return quoteString(s)
	}
	return s
}

func needsQuotes(s string) bool {
	if s == "" {
		return true
	}
	if strings.ContainsAny(s, ":,[]{}|-\"\\") {
		return true
	}
	if strings.HasPrefix(s, " ") || strings.HasSuffix(s, " ") {
		return true
	}
	if s == "true" || s == "false" || s == "null" {
		return true
	}
	if _, err := strconv.ParseFloat(s, 64); err == nil {
		return true
	}
	return false
}

func quoteString(s string) string {
	var sb strings.Builder
	sb.WriteByte('"')
	for _, r := range s {
		switch r {
		case '\\':
			sb.WriteString(`\\`)
		case '"':
			sb.WriteString(`\"`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		default:
			sb.WriteRune(r)
		}
	}
	sb.WriteByte('"')
	return sb.String()
}
