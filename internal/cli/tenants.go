package cli

import (
	"github.com/spf13/cobra"

	"github.com/voteagora/agora-tally/internal/cli/render"
	"github.com/voteagora/agora-tally/internal/usecase"
)

// NewTenantsCmd creates the tenants command
func NewTenantsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tenants",
		Short: "List configured tenants",
		Long: `List the tenants from agora.toml, or the built-in defaults when no
agora.toml exists. The selected tenant is marked.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Get app from context
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.ListTenants.Run(cmd.Context())
			if err != nil {
				return err
			}

			if app.Config.JSON {
				return render.NewJSONRenderer[*usecase.ListTenantsResult](cmd.OutOrStdout()).Render(result)
			}
			return render.NewTenantsRenderer(cmd.OutOrStdout()).Render(result)
		},
	}

	return cmd
}
