package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/mermaidflow/internal/server"
)

// newServeCmd creates the serve command, which runs the HTTP API.
func newServeCmd() *cobra.Command {
	var configPath string
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the mermaidflow HTTP API server",
		Long: `Run the HTTP API server.

The server exposes parse, convert, and render endpoints plus saved
diagram management under /api/v1. Configuration is read from a TOML
file; flags override the file.

Examples:
  mermaidflow serve
  mermaidflow serve --config mermaidflow.toml
  mermaidflow serve --addr 0.0.0.0:8080`,
		RunE: func(c *cobra.Command, args []string) error {
			ctx := c.Context()
			logger := loggerFromContext(ctx)

			cfg, err := server.LoadConfig(configPath)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Listen.Addr = addr
			}

			srv, err := server.New(ctx, cfg, logger)
			if err != nil {
				return err
			}
			printInfo("Serving on http://%s", cfg.Listen.Addr)
			return srv.Run(ctx)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to TOML config file")
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")

	return cmd
}
