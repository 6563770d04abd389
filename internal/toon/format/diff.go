package format

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// DiffResult is the line-by-line difference between a document's
// original text and its canonically formatted text, used by the
// "format --check" CLI mode.
type DiffResult struct {
	Original  string
	Formatted string
	Changed   bool
}

// Diff compares original and formatted text.
func Diff(original, formatted string) *DiffResult {
	return &DiffResult{
		Original:  original,
		Formatted: formatted,
		Changed:   original != formatted,
	}
}

// String renders a human-readable, color-highlighted line diff.
func (d *DiffResult) String() string {
	if !d.Changed {
		return color.GreenString("No changes needed")
	}

	var buf bytes.Buffer
	originalLines := strings.Split(d.Original, "\n")
	formattedLines := strings.Split(d.Formatted, "\n")

	maxLines := len(originalLines)
	if len(formattedLines) > maxLines {
		maxLines = len(formattedLines)
	}

	red := color.New(color.FgRed)
	green := color.New(color.FgGreen)
	cyan := color.New(color.FgCyan)

	for i := 0; i < maxLines; i++ {
		origLine := ""
		if i < len(originalLines) {
			origLine = originalLines[i]
		}
		formLine := ""
		if i < len(formattedLines) {
			formLine = formattedLines[i]
		}
		if origLine != formLine {
			cyan.Fprintf(&buf, "@@ Line %d @@\n", i+1)
			if origLine != "" {
				red.Fprintf(&buf, "- %s\n", origLine)
			}
			if formLine != "" {
				green.Fprintf(&buf, "+ %s\n", formLine)
			}
		}
	}
	return buf.String()
}

// UnifiedDiff renders a minimal unified-diff-shaped string for filename.
func (d *DiffResult) UnifiedDiff(filename string) string {
	if !d.Changed {
		return ""
	}
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "--- a/%s\n", filename)
	fmt.Fprintf(&buf, "+++ b/%s\n", filename)

	originalLines := strings.Split(d.Original, "\n")
	formattedLines := strings.Split(d.Formatted, "\n")
	maxLines := len(originalLines)
	if len(formattedLines) > maxLines {
		maxLines = len(formattedLines)
	}
	for i := 0; i < maxLines; i++ {
		origLine := ""
		if i < len(originalLines) {
			origLine = originalLines[i]
		}
		formLine := ""
		if i < len(formattedLines) {
			formLine = formattedLines[i]
		}
		if origLine != formLine {
			fmt.Fprintf(&buf, "@@ -%d +%d @@\n", i+1, i+1)
			if origLine != "" {
				fmt.Fprintf(&buf, "-%s\n", origLine)
			}
			if formLine != "" {
				fmt.Fprintf(&buf, "+%s\n", formLine)
			}
		}
	}
	return buf.String()
}
