package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/toon-lang/toon-lsp/internal/lsp"
)

// NewLSPCommand creates the lsp command. It wraps the same lsp.Server
// the standalone toon-lsp binary runs, so editors that shell out to
// "toonctl lsp" and ones that launch toon-lsp directly get identical
// behaviour.
func NewLSPCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "lsp",
		Short: "Start the TOON Language Server Protocol server",
		Long: `Start the TOON Language Server Protocol (LSP) server.

This command starts an LSP server that provides editor integration
features including:
  • Completion
  • Diagnostics (parse errors)
  • Hover
  • Go-to-definition and find references
  • Document and workspace symbols
  • Rename
  • Document and range formatting
  • Semantic tokens

The server communicates via JSON-RPC over stdin/stdout and is
typically started automatically by an editor, not run interactively.`,
		RunE: runLSP,
	}
}

func runLSP(cmd *cobra.Command, args []string) error {
	server := lsp.NewServer()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	return server.Run(ctx)
}
