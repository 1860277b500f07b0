package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/gompdf/cvpager/internal/server"
)

// serveCommand creates the serve command, which runs the HTTP layout API
// until interrupted.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		timeout time.Duration
		opts    engineOpts
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the layout and preview API over HTTP",
		Long: `Serve the layout and preview API over HTTP.

Endpoints:
  GET  /healthz
  GET  /v1/templates
  POST /v1/layout?template=<name>   JSON document in, page plan out
  POST /v1/preview?template=<name>  JSON document in, paginated HTML out`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := c.newEngine(&opts)
			if err != nil {
				return err
			}
			defer e.Close()
			return server.New(e, c.Logger, timeout).ListenAndServe(cmd.Context(), addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().DurationVar(&timeout, "pass-timeout", 30*time.Second, "timeout for each layout pass (0 for none)")
	opts.bind(cmd)
	return cmd
}
