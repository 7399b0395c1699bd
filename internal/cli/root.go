package cli

import (
	"context"
	"fmt"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	version string // semantic version (e.g., "v1.2.3")
	commit  string // git commit SHA
	date    string // build timestamp
)

// SetVersion sets the version information displayed by --version.
// This is typically called by the main package during initialization with
// values injected via ldflags at build time.
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// Execute runs the mermaidflow CLI under the given context and returns
// an error if any command fails. Cancelling the context stops
// long-running commands (serve, render).
//
// The function sets up the root command with all subcommands (parse, convert,
// render, fmt, inspect, cache, serve), configures logging based on the
// --verbose flag, and executes the command tree.
//
// Logging:
//   - Default: info level (logs to stderr)
//   - With --verbose (-v): debug level
//
// The logger is attached to the context and accessible to all commands via
// loggerFromContext.
func Execute(ctx context.Context) error {
	var verbose bool

	root := &cobra.Command{
		Use:          "mermaidflow",
		Short:        "Mermaidflow parses and renders mermaid diagrams",
		Long:         `Mermaidflow is a toolkit for mermaid diagrams: it parses diagram text into structured documents, converts them to editable object models, and renders them as SVG, PNG, or PDF.`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			ctx := withLogger(cmd.Context(), newLogger(os.Stderr, level))
			cmd.SetContext(ctx)
		},
	}

	root.SetVersionTemplate(fmt.Sprintf("mermaidflow %s\ncommit: %s\nbuilt: %s\n", version, commit, date))
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(newParseCmd())
	root.AddCommand(newConvertCmd())
	root.AddCommand(newRenderCmd())
	root.AddCommand(newFmtCmd())
	root.AddCommand(newInspectCmd())
	root.AddCommand(newCacheCmd())
	root.AddCommand(newServeCmd())

	return root.ExecuteContext(ctx)
}
