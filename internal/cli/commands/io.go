package commands

import (
	"io"

	"github.com/spf13/cobra"
)

// readAllStdin reads the whole of cmd's input stream, used by the
// commands that fall back to stdin when no file argument is given.
func readAllStdin(cmd *cobra.Command) ([]byte, error) {
	return io.ReadAll(cmd.InOrStdin())
}
