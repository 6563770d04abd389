// Command toonctl is the TOON batch CLI: encode, decode, check,
// format, symbols, diagnose, and a bundled LSP server entry point.
package main

import (
	"os"

	"github.com/toon-lang/toon-lsp/internal/cli/commands"
)

func main() {
	err := commands.Execute()
	os.Exit(commands.ExitCode(err))
}
