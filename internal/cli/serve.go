package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/sidediff/internal/server"
)

// serveCommand creates the serve command for running the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr         string
		maxBodyBytes int64
		noCache      bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the HTTP API.

Endpoints:
  GET  /healthz         liveness probe
  GET  /api/v1/options  accepted granularities, algorithms and formats
  POST /api/v1/diff     compare {"old": ..., "new": ...}

Comparison defaults come from the [diff] section of the config file and
results are cached with the configured backend.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			opts := cfg.serverOptions()
			if addr != "" {
				opts.Addr = addr
			}
			if maxBodyBytes != 0 {
				opts.MaxBodyBytes = maxBodyBytes
			}

			c.instrument()
			runner := c.newRunner(cmd.Context(), cfg, noCache)
			defer runner.Close()

			srv := server.New(runner, c.Logger, opts)
			printNextStep("Try", "curl -s -d '{\"old\":\"kitten\",\"new\":\"sitting\"}' http://"+srv.Addr()+"/api/v1/diff")
			return srv.Start(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default "+server.DefaultAddr+")")
	cmd.Flags().Int64Var(&maxBodyBytes, "max-body-bytes", 0, "maximum request body size")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}
