package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/toon-lang/toon-lsp/internal/toon/parser"
)

var checkOutputStyle string

// NewCheckCommand creates the check command.
func NewCheckCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [files...]",
		Short: "Validate TOON syntax",
		Long: `Validate the syntax of one or more TOON documents.

Reads the given files, or stdin if none are given. Reports every
parse error found; exits non-zero if any file is invalid.

Output styles (--output):
  text    "file:line:col: error: message" (default)
  json    one JSON object per error
  github  GitHub Actions "::error file=...,line=...,col=...::message" annotations`,
		RunE: runCheck,
	}

	cmd.Flags().StringVar(&checkOutputStyle, "output", "text", "Output style: text, json, or github")

	return cmd
}

type checkFinding struct {
	File    string `json:"file"`
	Line    int    `json:"line"`
	Column  int    `json:"column"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func runCheck(cmd *cobra.Command, args []string) error {
	files := args
	useStdin := len(files) == 0

	anyInvalid := false

	checkOne := func(name string, source string) {
		_, errs := parser.ParseWithErrors(source)
		if len(errs) > 0 {
			anyInvalid = true
		}
		for _, e := range errs {
			f := checkFinding{
				File:    name,
				Line:    e.Span.Start.Line + 1,
				Column:  e.Span.Start.Column + 1,
				Code:    e.Kind.Code(),
				Message: e.Kind.Message(),
			}
			writeCheckFinding(cmd, f)
		}
	}

	if useStdin {
		data, err := readAllStdin(cmd)
		if err != nil {
			return opErr(err)
		}
		checkOne("<stdin>", string(data))
	} else {
		for _, file := range files {
			data, err := os.ReadFile(file)
			if err != nil {
				return opErr(fmt.Errorf("failed to read %s: %w", file, err))
			}
			checkOne(file, string(data))
		}
	}

	if anyInvalid {
		return validationErr(fmt.Errorf("one or more documents failed to parse"))
	}
	return nil
}

func writeCheckFinding(cmd *cobra.Command, f checkFinding) {
	switch checkOutputStyle {
	case "json":
		enc, err := json.Marshal(f)
		if err != nil {
			return
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(enc))
	case "github":
		msg := githubEscape(f.Message)
		fmt.Fprintf(cmd.OutOrStdout(), "::error file=%s,line=%d,col=%d::%s\n",
			f.File, f.Line, f.Column, msg)
	default:
		fmt.Fprintf(cmd.OutOrStdout(), "%s:%d:%d: error: %s\n",
			f.File, f.Line, f.Column, f.Message)
	}
}

// githubEscape percent-encodes the characters GitHub Actions workflow
// commands require escaped in an annotation message: %, CR, and LF.
func githubEscape(s string) string {
	s = strings.ReplaceAll(s, "%", "%25")
	s = strings.ReplaceAll(s, "\r", "%0D")
	s = strings.ReplaceAll(s, "\n", "%0A")
	return s
}
