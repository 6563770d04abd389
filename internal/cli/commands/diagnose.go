package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/toon-lang/toon-lsp/internal/toon/ast"
	"github.com/toon-lang/toon-lsp/internal/toon/parser"
)

var (
	diagnoseFormat      string
	diagnoseContext     bool
	diagnoseMinSeverity string
)

// NewDiagnoseCommand creates the diagnose command.
func NewDiagnoseCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "diagnose [file]",
		Short: "Produce a machine-readable diagnostics report",
		Long: `Parse a TOON document and report its diagnostics as JSON or
SARIF 2.1.0, for consumption by editors and CI tooling.

Reads from the given file, or stdin if none is given. Unlike check,
diagnose always exits 0 — its job is to report, not to gate; callers
that want a failing exit code should inspect the report's summary.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runDiagnose,
	}

	cmd.Flags().StringVar(&diagnoseFormat, "format", "json", "Report format: json or sarif")
	cmd.Flags().BoolVar(&diagnoseContext, "context", false, "Include the offending source line in each entry")
	cmd.Flags().StringVar(&diagnoseMinSeverity, "min-severity", "error", "Minimum severity to include: error, warning, info, or hint")

	return cmd
}

// diagnosticEntry mirrors the Rust original's DiagnosticEntry field
// layout one-for-one, so downstream tooling written against that
// report shape keeps working against this one.
type diagnosticEntry struct {
	Range    diagRange `json:"range"`
	Severity string    `json:"severity"`
	Code     string    `json:"code,omitempty"`
	Message  string    `json:"message"`
	Source   string    `json:"source"`
	Context  string    `json:"context,omitempty"`
}

type diagPosition struct {
	Line      int `json:"line"`
	Character int `json:"character"`
}

type diagRange struct {
	Start diagPosition `json:"start"`
	End   diagPosition `json:"end"`
}

type diagnosticSummary struct {
	Errors   int `json:"error_count"`
	Warnings int `json:"warning_count"`
	Hints    int `json:"hint_count"`
}

type diagnosticReport struct {
	RunID       string             `json:"run_id"`
	File        string             `json:"file"`
	Diagnostics []diagnosticEntry  `json:"diagnostics"`
	Summary     diagnosticSummary  `json:"summary"`
}

var severityRank = map[string]int{
	"hint":    0,
	"info":    1,
	"warning": 2,
	"error":   3,
}

func runDiagnose(cmd *cobra.Command, args []string) error {
	var (
		content  []byte
		fileName string
		filePath string
		err      error
	)

	if len(args) == 1 {
		content, err = os.ReadFile(args[0])
		if err != nil {
			return opErr(fmt.Errorf("failed to read %s: %w", args[0], err))
		}
		fileName = filepath.Base(args[0])
		filePath = args[0]
	} else {
		content, err = readAllStdin(cmd)
		if err != nil {
			return opErr(err)
		}
		fileName = "stdin"
		filePath = "stdin"
	}

	report := generateDiagnostics(string(content), fileName, diagnoseContext, diagnoseMinSeverity)

	var output string
	switch diagnoseFormat {
	case "json":
		enc, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return opErr(err)
		}
		output = string(enc)
	case "sarif":
		output = formatSARIF(report, filePath)
	default:
		return opErr(fmt.Errorf("unsupported diagnose format %q (want json or sarif)", diagnoseFormat))
	}

	fmt.Fprintln(cmd.OutOrStdout(), output)
	// diagnose always succeeds; callers inspect the report's summary.
	return nil
}

func generateDiagnostics(content, fileName string, includeContext bool, minSeverity string) diagnosticReport {
	_, errs := parser.ParseWithErrors(content)

	minRank, ok := severityRank[minSeverity]
	if !ok {
		minRank = severityRank["error"]
	}

	diagnostics := make([]diagnosticEntry, 0, len(errs))
	for _, e := range errs {
		severity := "error" // every ParseError is currently surfaced as an error
		if severityRank[severity] < minRank {
			continue
		}
		entry := diagnosticEntry{
			Range:    spanToDiagRange(e.Span),
			Severity: severity,
			Code:     e.Kind.Code(),
			Message:  e.Kind.Message(),
			Source:   "toon-lsp",
		}
		if includeContext {
			entry.Context = extractContext(content, e.Span.Start.Line)
		}
		diagnostics = append(diagnostics, entry)
	}

	return diagnosticReport{
		RunID:       uuid.NewString(),
		File:        fileName,
		Diagnostics: diagnostics,
		Summary:     summarize(diagnostics),
	}
}

// spanToDiagRange copies a span's zero-based line/column directly; AST
// positions are already zero-indexed, matching the report's contract.
func spanToDiagRange(sp ast.Span) diagRange {
	return diagRange{
		Start: diagPosition{Line: sp.Start.Line, Character: sp.Start.Column},
		End:   diagPosition{Line: sp.End.Line, Character: sp.End.Column},
	}
}

func summarize(diagnostics []diagnosticEntry) diagnosticSummary {
	var s diagnosticSummary
	for _, d := range diagnostics {
		switch d.Severity {
		case "error":
			s.Errors++
		case "warning":
			s.Warnings++
		case "hint":
			s.Hints++
		}
	}
	return s
}

// extractContext returns the source line at lineIdx (zero-based), or
// "" if out of range.
func extractContext(content string, lineIdx int) string {
	lines := strings.Split(content, "\n")
	if lineIdx < 0 || lineIdx >= len(lines) {
		return ""
	}
	return lines[lineIdx]
}

// pathToFileURI converts an absolute path to a file:// URI (SARIF
// convention); relative paths and "stdin" are returned unchanged.
func pathToFileURI(path string) string {
	if path == "stdin" || path == "<stdin>" {
		return path
	}
	if !filepath.IsAbs(path) {
		return path
	}
	normalized := strings.ReplaceAll(path, "\\", "/")
	if strings.HasPrefix(normalized, "/") {
		return "file://" + normalized
	}
	return "file:///" + normalized
}

type sarifReport struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool    sarifTool    `json:"tool"`
	Results []sarifResult `json:"results"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

type sarifResult struct {
	RuleID    string          `json:"ruleId,omitempty"`
	Level     string          `json:"level"`
	Message   sarifMessage    `json:"message"`
	Locations []sarifLocation `json:"locations"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifLocation struct {
	PhysicalLocation sarifPhysicalLocation `json:"physicalLocation"`
}

type sarifPhysicalLocation struct {
	ArtifactLocation sarifArtifactLocation `json:"artifactLocation"`
	Region           sarifRegion           `json:"region"`
}

type sarifArtifactLocation struct {
	URI string `json:"uri"`
}

type sarifRegion struct {
	StartLine   int `json:"startLine"`
	StartColumn int `json:"startColumn"`
	EndLine     int `json:"endLine"`
	EndColumn   int `json:"endColumn"`
}

func sarifLevel(severity string) string {
	switch severity {
	case "error":
		return "error"
	case "warning":
		return "warning"
	case "info", "hint":
		return "note"
	default:
		return "none"
	}
}

func formatSARIF(report diagnosticReport, filePath string) string {
	artifactURI := pathToFileURI(filePath)

	results := make([]sarifResult, 0, len(report.Diagnostics))
	for _, d := range report.Diagnostics {
		results = append(results, sarifResult{
			RuleID:  d.Code,
			Level:   sarifLevel(d.Severity),
			Message: sarifMessage{Text: d.Message},
			Locations: []sarifLocation{{
				PhysicalLocation: sarifPhysicalLocation{
					ArtifactLocation: sarifArtifactLocation{URI: artifactURI},
					Region: sarifRegion{
						// SARIF positions are 1-based.
						StartLine:   d.Range.Start.Line + 1,
						StartColumn: d.Range.Start.Character + 1,
						EndLine:     d.Range.End.Line + 1,
						EndColumn:   d.Range.End.Character + 1,
					},
				},
			}},
		})
	}

	sarif := sarifReport{
		Schema:  "https://raw.githubusercontent.com/oasis-tcs/sarif-spec/master/Schemata/sarif-schema-2.1.0.json",
		Version: "2.1.0",
		Runs: []sarifRun{{
			Tool: sarifTool{Driver: sarifDriver{Name: "toon-lsp", Version: Version}},
			Results: results,
		}},
	}

	enc, err := json.MarshalIndent(sarif, "", "  ")
	if err != nil {
		return ""
	}
	return string(enc)
}
