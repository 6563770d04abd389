// Command toon-lsp starts the TOON Language Server Protocol server,
// communicating over stdin/stdout.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/toon-lang/toon-lsp/internal/lsp"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "toon-lsp: failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	server := lsp.NewServerWithLogger(logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	if err := server.Run(ctx); err != nil {
		logger.Sugar().Errorw("server exited with error", "error", err)
		os.Exit(1)
	}
}
