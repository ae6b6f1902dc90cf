package cli

import (
	"github.com/spf13/cobra"

	"github.com/voteagora/agora-tally/internal/cli/render"
	"github.com/voteagora/agora-tally/internal/domain/models"
	"github.com/voteagora/agora-tally/internal/usecase"
)

// NewResolveCmd creates the resolve command
func NewResolveCmd() *cobra.Command {
	var noCache bool

	cmd := &cobra.Command{
		Use:     "resolve [proposal-id]",
		Aliases: []string{"show"},
		Short:   "Resolve the result and status of a proposal",
		Long: `Resolve the vote totals, quorum and lifecycle status of one proposal.

The proposal id may be decimal or 0x-prefixed hex. Without an id, an
interactive picker lists the tenant's stored proposals.`,
		Example: `  # Resolve an ENS proposal
  agora resolve -t ens 10379325493920638594736639311765198543283675740537308931678745309631223556382

  # Pick a proposal interactively
  agora resolve -t optimism

  # Skip the result cache and print JSON
  agora resolve -t uniswap 42 --no-cache --json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Get app from context
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			params := usecase.ResolveProposalParams{NoCache: noCache}
			if len(args) == 1 {
				params.ProposalID = args[0]
			}

			result, err := app.ResolveProposal.Run(cmd.Context(), params)
			if err != nil {
				return err
			}

			if app.Config.JSON {
				return render.NewJSONRenderer[*models.ResultView](cmd.OutOrStdout()).Render(result.View)
			}
			return render.NewResultRenderer(cmd.OutOrStdout()).Render(result)
		},
	}

	cmd.Flags().BoolVar(&noCache, "no-cache", false, "Bypass the result cache")

	return cmd
}
