package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	cliconfig "github.com/toon-lang/toon-lsp/internal/cli/config"
	"github.com/toon-lang/toon-lsp/internal/cli/ui"
	"github.com/toon-lang/toon-lsp/internal/toon/format"
)

var (
	formatWrite bool
	formatCheck bool
)

// NewFormatCommand creates the format command.
func NewFormatCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "format [files...]",
		Short: "Format TOON documents",
		Long: `Format TOON documents (.toon) to their canonical rendering.

By default, shows a diff preview of what would change without
modifying files. Use --write to apply formatting changes, or --check
to verify formatting without writing (exits 1 if any file would
change).

Examples:
  toonctl format                # Show diff for all .toon files
  toonctl format --write        # Format and save all files
  toonctl format --check        # Exit with error if not formatted
  toonctl format file.toon      # Format a specific file`,
		RunE: runFormat,
	}

	cmd.Flags().BoolVarP(&formatWrite, "write", "w", false, "Write formatted output to files")
	cmd.Flags().BoolVarP(&formatCheck, "check", "c", false, "Check if files are formatted (exit 1 if not)")

	return cmd
}

func runFormat(cmd *cobra.Command, args []string) error {
	cfg, err := cliconfig.Load()
	if err != nil {
		return opErr(fmt.Errorf("failed to load config: %w", err))
	}
	fmtConfig := format.Config{Width: cfg.IndentWidth}

	files, err := findTOONFiles(args)
	if err != nil {
		return opErr(fmt.Errorf("failed to find files: %w", err))
	}
	if len(files) == 0 {
		return opErr(fmt.Errorf("no .toon files found"))
	}

	hasChanges := false
	ioErrorCount := 0
	parseErrorCount := 0

	titleColor := color.New(color.FgCyan, color.Bold)
	successColor := color.New(color.FgGreen)
	errorColor := color.New(color.FgRed, color.Bold)

	// Formatting a large tree with --write can take a visible moment;
	// give batch writes a progress bar the way a single-file diff
	// preview doesn't need.
	var bar *ui.ProgressBar
	if formatWrite && len(files) > 1 {
		bar = ui.NewProgressBar(cmd.ErrOrStderr(), ui.ProgressBarOptions{Total: len(files), Message: "formatting"})
	}

	for _, file := range files {
		func() {
			if bar != nil {
				defer bar.Add(1)
			}

			original, err := os.ReadFile(file)
			if err != nil {
				errorColor.Fprintf(cmd.ErrOrStderr(), "Error reading %s: %v\n", file, err)
				ioErrorCount++
				return
			}

			formatted, err := format.Format(string(original), fmtConfig)
			if err != nil {
				errorColor.Fprintf(cmd.ErrOrStderr(), "Error formatting %s: %v\n", file, err)
				parseErrorCount++
				return
			}

			diff := format.Diff(string(original), formatted)
			if !diff.Changed {
				if !formatCheck {
					successColor.Fprintf(cmd.OutOrStdout(), "✓ %s (no changes)\n", file)
				}
				return
			}

			hasChanges = true

			if formatCheck {
				errorColor.Fprintf(cmd.ErrOrStderr(), "✗ %s needs formatting\n", file)
			} else if formatWrite {
				if err := os.WriteFile(file, []byte(formatted), 0644); err != nil {
					errorColor.Fprintf(cmd.ErrOrStderr(), "Error writing %s: %v\n", file, err)
					ioErrorCount++
					return
				}
				successColor.Fprintf(cmd.OutOrStdout(), "✓ %s formatted\n", file)
			} else {
				titleColor.Fprintf(cmd.OutOrStdout(), "\n=== %s ===\n", file)
				fmt.Fprintln(cmd.OutOrStdout(), diff.String())
			}
		}()
	}
	if bar != nil {
		bar.Finish()
	}

	if !formatWrite && !formatCheck && hasChanges {
		fmt.Fprintf(cmd.OutOrStdout(), "\n")
		titleColor.Fprintf(cmd.OutOrStdout(), "Run 'toonctl format --write' to apply changes\n")
	}

	if parseErrorCount > 0 {
		return validationErr(fmt.Errorf("%d file(s) failed to parse", parseErrorCount))
	}
	if formatCheck && hasChanges {
		return opErr(fmt.Errorf("files need formatting"))
	}
	if ioErrorCount > 0 {
		return opErr(fmt.Errorf("%d file(s) had I/O errors", ioErrorCount))
	}
	return nil
}

// findTOONFiles finds all .toon files to format, bounded to the
// current working directory and below.
func findTOONFiles(patterns []string) ([]string, error) {
	var files []string

	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}

	if len(patterns) == 0 {
		patterns = []string{"."}
	}

	for _, pattern := range patterns {
		absPattern, err := filepath.Abs(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid path %s: %w", pattern, err)
		}

		relPath, err := filepath.Rel(cwd, absPattern)
		if err != nil || strings.HasPrefix(relPath, "..") {
			return nil, fmt.Errorf("path %s is outside working directory", pattern)
		}

		info, err := os.Stat(absPattern)
		if err == nil && info.IsDir() {
			err := filepath.Walk(absPattern, func(path string, info os.FileInfo, err error) error {
				if err != nil {
					return err
				}
				if info.IsDir() && (strings.HasPrefix(info.Name(), ".") || info.Name() == "node_modules") {
					return filepath.SkipDir
				}
				if !info.IsDir() && strings.HasSuffix(path, ".toon") {
					files = append(files, path)
				}
				return nil
			})
			if err != nil {
				return nil, err
			}
		} else {
			matches, err := filepath.Glob(absPattern)
			if err != nil {
				return nil, err
			}
			for _, match := range matches {
				absMatch, err := filepath.Abs(match)
				if err != nil {
					continue
				}
				relMatch, err := filepath.Rel(cwd, absMatch)
				if err != nil || strings.HasPrefix(relMatch, "..") {
					continue
				}
				if strings.HasSuffix(match, ".toon") {
					files = append(files, match)
				}
			}
		}
	}

	seen := make(map[string]bool)
	unique := []string{}
	for _, file := range files {
		if !seen[file] {
			seen[file] = true
			unique = append(unique, file)
		}
	}
	return unique, nil
}
