package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// NewServeCmd creates the serve command
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve proposal results over HTTP",
		Long: `Serve resolved proposal results as JSON.

Routes:
  GET /v1/{tenant}/proposals/{id}   one result (?nocache=true bypasses the cache)
  GET /v1/{tenant}/proposals        all results (?status=, ?type=, ?limit=)
  GET /healthz                      liveness
  GET /metrics                      prometheus metrics`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Get app from context
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return app.Server.ListenAndServe(ctx, "")
		},
	}

	cmd.Flags().String("listen", "", "Address to listen on (defaults to :8080)")

	return cmd
}
