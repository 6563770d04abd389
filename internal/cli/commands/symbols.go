package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/toon-lang/toon-lsp/internal/toon/parser"
	"github.com/toon-lang/toon-lsp/internal/toon/services"
)

var symbolsOutputStyle string

// NewSymbolsCommand creates the symbols command.
func NewSymbolsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "symbols [file]",
		Short: "List the keys a TOON document defines",
		Long: `Extract the outline of keys, array indices, and their kinds
from a TOON document.

Reads from the given file, or stdin if none is given. A document
with parse errors is still walked as far as it parsed; the command
warns about the errors on stderr rather than failing.

Output styles (--output):
  tree   indented outline (default)
  flat   one dotted path per line
  json   the full Symbol tree as JSON`,
		Args: cobra.MaximumNArgs(1),
		RunE: runSymbols,
	}

	cmd.Flags().StringVar(&symbolsOutputStyle, "output", "tree", "Output style: tree, flat, or json")

	return cmd
}

func runSymbols(cmd *cobra.Command, args []string) error {
	var (
		source string
	)
	if len(args) == 1 {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return opErr(fmt.Errorf("failed to read %s: %w", args[0], err))
		}
		source = string(data)
	} else {
		data, err := readAllStdin(cmd)
		if err != nil {
			return opErr(err)
		}
		source = string(data)
	}

	doc, errs := parser.ParseWithErrors(source)
	for _, e := range errs {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", e.Error())
	}

	symbols := services.DocumentSymbols(doc)

	switch symbolsOutputStyle {
	case "json":
		enc, err := json.MarshalIndent(symbols, "", "  ")
		if err != nil {
			return opErr(err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(enc))
	case "flat":
		for _, s := range symbols {
			writeFlatSymbol(cmd, "", s)
		}
	default:
		for _, s := range symbols {
			writeTreeSymbol(cmd, 0, s)
		}
	}
	return nil
}

func writeFlatSymbol(cmd *cobra.Command, prefix string, s services.Symbol) {
	path := s.Name
	if prefix != "" {
		if strings.HasPrefix(s.Name, "[") {
			path = prefix + s.Name
		} else {
			path = prefix + "." + s.Name
		}
	}
	if path == "" {
		path = "(root)"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", path, s.Kind)
	for _, child := range s.Children {
		writeFlatSymbol(cmd, path, child)
	}
}

func writeTreeSymbol(cmd *cobra.Command, depth int, s services.Symbol) {
	name := s.Name
	if name == "" {
		name = "(root)"
	}
	kindColor := color.New(color.FgHiBlack)
	fmt.Fprintf(cmd.OutOrStdout(), "%s%s: ", strings.Repeat("  ", depth), name)
	kindColor.Fprintln(cmd.OutOrStdout(), s.Kind)
	for _, child := range s.Children {
		writeTreeSymbol(cmd, depth+1, child)
	}
}
