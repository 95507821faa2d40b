package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/swapmapper/pkg/server"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr         string
		maxBodyBytes int64
		noCache      bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the routing API over HTTP",
		Long: `Serve the routing API over HTTP until interrupted.

Router options, coupling graph and layout from the config file are used as
defaults for requests that leave them unset. The [cache] table selects the
result cache shared by all requests; use backend = "redis" to share it
between several servers.`,
		Example: `  swapmapper serve --addr :9090
  swapmapper serve --config swapmapper.toml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if addr == "" {
				addr = cfg.Server.Addr
			}
			if maxBodyBytes == 0 {
				maxBodyBytes = cfg.Server.MaxBodyBytes
			}

			runner, err := c.newRunner(cmd.Context(), cfg, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			srv := server.New(runner, c.Logger, server.Config{
				Addr:         addr,
				MaxBodyBytes: maxBodyBytes,
				Defaults:     cfg,
			})
			return srv.ListenAndServe(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default "+server.DefaultAddr+")")
	cmd.Flags().Int64Var(&maxBodyBytes, "max-body-bytes", 0, "maximum request body size")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the result cache")

	return cmd
}
