package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"

	cliconfig "github.com/toon-lang/toon-lsp/internal/cli/config"
	"github.com/toon-lang/toon-lsp/internal/toon/format"
	"github.com/toon-lang/toon-lsp/internal/toon/jsonvalue"
)

var (
	encodeFrom   string
	encodeOutput string
)

// NewEncodeCommand creates the encode command.
func NewEncodeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "encode [file]",
		Short: "Convert JSON or YAML into TOON",
		Long: `Convert a JSON or YAML document into canonical TOON.

Reads from the given file, or from stdin if no file is given. The
input format is guessed from the file extension unless --from is
given explicitly; stdin defaults to JSON.

Examples:
  toonctl encode data.json
  toonctl encode data.yaml --from yaml
  cat data.json | toonctl encode --from json`,
		Args: cobra.MaximumNArgs(1),
		RunE: runEncode,
	}

	cmd.Flags().StringVar(&encodeFrom, "from", "", "Input format: json or yaml (default: guessed from extension)")
	cmd.Flags().StringVarP(&encodeOutput, "output", "o", "", "Write to this file instead of stdout")

	return cmd
}

func runEncode(cmd *cobra.Command, args []string) error {
	var (
		input []byte
		err   error
		from  = encodeFrom
	)

	if len(args) == 1 {
		input, err = os.ReadFile(args[0])
		if err != nil {
			return opErr(fmt.Errorf("failed to read %s: %w", args[0], err))
		}
		if from == "" {
			from = guessFormat(args[0])
		}
	} else {
		input, err = io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return opErr(fmt.Errorf("failed to read stdin: %w", err))
		}
		if from == "" {
			from = "json"
		}
	}

	var decoded any
	switch from {
	case "json":
		if err := json.Unmarshal(input, &decoded); err != nil {
			return validationErr(fmt.Errorf("failed to parse JSON: %w", err))
		}
	case "yaml":
		if err := yaml.Unmarshal(input, &decoded); err != nil {
			return validationErr(fmt.Errorf("failed to parse YAML: %w", err))
		}
	default:
		return opErr(fmt.Errorf("unsupported input format %q (want json or yaml)", from))
	}

	doc, err := jsonvalue.ToAST(decoded)
	if err != nil {
		return validationErr(fmt.Errorf("value has no TOON representation: %w", err))
	}

	cfg, err := cliconfig.Load()
	if err != nil {
		return opErr(fmt.Errorf("failed to load config: %w", err))
	}

	toonText := format.New(format.Config{Width: cfg.IndentWidth}).FormatDocument(doc)
	return writeEncodeOutput(cmd, toonText)
}

func writeEncodeOutput(cmd *cobra.Command, text string) error {
	if encodeOutput == "" {
		fmt.Fprint(cmd.OutOrStdout(), text)
		return nil
	}
	if err := os.WriteFile(encodeOutput, []byte(text), 0644); err != nil {
		return opErr(err)
	}
	return nil
}

func guessFormat(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return "yaml"
	default:
		return "json"
	}
}
