package cli

import (
	"github.com/piwi3910/DeckTakeoff/internal/server"
	"github.com/spf13/cobra"
)

func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr        string
		assumptions assumptionFlags
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the takeoff API over HTTP",
		Long: `Serve the takeoff, labor and estimate API over HTTP.

The server answers with the configured catalog, labor templates and
assumptions. It shuts down cleanly on interrupt.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.loadSession(cmd)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("addr") && s.config.ListenAddr != "" {
				addr = s.config.ListenAddr
			}

			srv := server.New(server.Config{
				Assumptions: assumptions.apply(cmd.Flags(), s.config.Assumptions),
				Estimate:    s.config.Estimate,
				Catalog:     s.catalog,
				Templates:   s.templates,
				Version:     version,
				Logger:      loggerFromContext(cmd.Context()),
			})

			return srv.ListenAndServe(cmd.Context(), addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	assumptions.register(cmd.Flags())
	return cmd
}
