package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"

	"github.com/toon-lang/toon-lsp/internal/toon/jsonvalue"
	"github.com/toon-lang/toon-lsp/internal/toon/parser"
)

var (
	decodeTo     string
	decodeOutput string
	decodePretty bool
)

// NewDecodeCommand creates the decode command.
func NewDecodeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "decode [file]",
		Short: "Convert TOON into JSON or YAML",
		Long: `Convert a TOON document into its canonical JSON (or YAML) value.

Reads from the given file, or from stdin if no file is given. Refuses
to decode a document with any parse errors; run "toonctl check" to see
what's wrong.

Examples:
  toonctl decode data.toon
  toonctl decode data.toon --to yaml
  cat data.toon | toonctl decode --to json`,
		Args: cobra.MaximumNArgs(1),
		RunE: runDecode,
	}

	cmd.Flags().StringVar(&decodeTo, "to", "json", "Output format: json or yaml")
	cmd.Flags().StringVarP(&decodeOutput, "output", "o", "", "Write to this file instead of stdout")
	cmd.Flags().BoolVar(&decodePretty, "pretty", true, "Pretty-print JSON output")

	return cmd
}

func runDecode(cmd *cobra.Command, args []string) error {
	var (
		input []byte
		err   error
	)
	if len(args) == 1 {
		input, err = os.ReadFile(args[0])
		if err != nil {
			return opErr(fmt.Errorf("failed to read %s: %w", args[0], err))
		}
	} else {
		input, err = io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return opErr(fmt.Errorf("failed to read stdin: %w", err))
		}
	}

	doc, errs := parser.ParseWithErrors(string(input))
	if len(errs) > 0 {
		for _, e := range errs {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s\n", e.Error())
		}
		return validationErr(fmt.Errorf("document has %d parse error(s)", len(errs)))
	}

	value, err := jsonvalue.FromAST(doc)
	if err != nil {
		return validationErr(fmt.Errorf("failed to canonicalise document: %w", err))
	}

	var out []byte
	switch decodeTo {
	case "json":
		if decodePretty {
			out, err = json.MarshalIndent(value, "", "  ")
		} else {
			out, err = json.Marshal(value)
		}
		if err != nil {
			return opErr(fmt.Errorf("failed to marshal JSON: %w", err))
		}
		out = append(out, '\n')
	case "yaml":
		out, err = yaml.Marshal(value)
		if err != nil {
			return opErr(fmt.Errorf("failed to marshal YAML: %w", err))
		}
	default:
		return opErr(fmt.Errorf("unsupported output format %q (want json or yaml)", decodeTo))
	}

	if decodeOutput == "" {
		cmd.OutOrStdout().Write(out)
		return nil
	}
	if err := os.WriteFile(decodeOutput, out, 0644); err != nil {
		return opErr(err)
	}
	return nil
}
