package cli

import (
	"github.com/spf13/cobra"

	"github.com/voteagora/agora-tally/internal/cli/render"
	"github.com/voteagora/agora-tally/internal/usecase"
)

// NewQuorumCmd creates the quorum command
func NewQuorumCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quorum <proposal-id>",
		Short: "Show how the quorum of a proposal is derived",
		Long: `Resolve only the quorum of a proposal using the tenant's quorum strategy,
and show it next to the current votable supply.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Get app from context
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			info, err := app.ShowQuorum.Run(cmd.Context(), usecase.ShowQuorumParams{ProposalID: args[0]})
			if err != nil {
				return err
			}

			if app.Config.JSON {
				return render.NewJSONRenderer[*usecase.QuorumInfo](cmd.OutOrStdout()).Render(info)
			}
			return render.NewQuorumRenderer(cmd.OutOrStdout()).Render(info)
		},
	}

	return cmd
}
