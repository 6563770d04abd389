package format

import (
	"strings"
	"testing"
)

func TestDiff_NoChange(t *testing.T) {
	d := Diff("a: 1\n", "a: 1\n")
	if d.Changed {
		t.Errorf("expected Changed=false for identical text")
	}
}

func TestDiff_Changed(t *testing.T) {
	d := Diff("a: 1\n", "a: 2\n")
	if !d.Changed {
		t.Errorf("expected Changed=true for different text")
	}
}

func TestDiffResult_String_NoChange(t *testing.T) {
	d := Diff("a: 1\n", "a: 1\n")
	if !strings.Contains(d.String(), "No changes needed") {
		t.Errorf("expected 'No changes needed', got %q", d.String())
	}
}

func TestDiffResult_String_ShowsChangedLines(t *testing.T) {
	d := Diff("a: 1\nb: 2\n", "a: 1\nb: 3\n")
	out := d.String()
	if !strings.Contains(out, "Line 2") {
		t.Errorf("expected diff to call out line 2, got %q", out)
	}
	if !strings.Contains(out, "b: 2") || !strings.Contains(out, "b: 3") {
		t.Errorf("expected both old and new lines in diff output, got %q", out)
	}
}

func TestDiffResult_UnifiedDiff_NoChange(t *testing.T) {
	d := Diff("a: 1\n", "a: 1\n")
	if d.UnifiedDiff("f.toon") != "" {
		t.Errorf("expected empty unified diff for unchanged input")
	}
}

func TestDiffResult_UnifiedDiff_Changed(t *testing.T) {
	d := Diff("a: 1\n", "a: 2\n")
	out := d.UnifiedDiff("f.toon")
	if !strings.Contains(out, "--- a/f.toon") || !strings.Contains(out, "+++ b/f.toon") {
		t.Errorf("expected unified diff headers, got %q", out)
	}
	if !strings.Contains(out, "-a: 1") || !strings.Contains(out, "+a: 2") {
		t.Errorf("expected -/+ lines, got %q", out)
	}
}
