package cli

import (
	"github.com/spf13/cobra"

	"github.com/voteagora/agora-tally/internal/cli/render"
	"github.com/voteagora/agora-tally/internal/usecase"
)

// NewImportCmd creates the import command
func NewImportCmd() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "import <bundle>",
		Short: "Import proposals and votes from a YAML or JSON bundle",
		Long: `Load a bundle of proposals, votes and the votable supply into the local
store. Every proposal is tallied against its votes before anything is
written; an invalid bundle leaves the store untouched.

Re-importing a proposal replaces its stored votes.`,
		Example: `  # Import an indexer export
  agora import -t ens exports/ens.yaml

  # Validate without writing
  agora import exports/optimism.json --dry-run`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Get app from context
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			params := usecase.ImportBundleParams{Path: args[0], DryRun: dryRun}
			if app.Config.Tenant != nil {
				params.Tenant = app.Config.Tenant.Namespace
			}

			result, err := app.ImportBundle.Run(cmd.Context(), params)
			if err != nil {
				return err
			}

			if app.Config.JSON {
				return render.NewJSONRenderer[*usecase.ImportBundleResult](cmd.OutOrStdout()).Render(result)
			}
			return render.NewImportRenderer(cmd.OutOrStdout()).Render(result)
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Validate the bundle without writing it")

	return cmd
}
