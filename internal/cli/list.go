package cli

import (
	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/voteagora/agora-tally/internal/cli/render"
	"github.com/voteagora/agora-tally/internal/domain"
	"github.com/voteagora/agora-tally/internal/domain/models"
	"github.com/voteagora/agora-tally/internal/usecase"
)

// listOutput is the JSON shape of the list command
type listOutput struct {
	Tenant   string                        `json:"tenant"`
	Results  []*models.ResultView          `json:"results"`
	Failures map[string]string             `json:"failures,omitempty"`
	ByStatus map[models.ProposalStatus]int `json:"byStatus"`
}

// NewListCmd creates the list command
func NewListCmd() *cobra.Command {
	var (
		status       string
		proposalType string
		limit        int
	)

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List stored proposals with their resolved status",
		Long: `Resolve every stored proposal of the tenant and list the results,
newest first. Proposals that fail to resolve are reported individually.

The status filter applies after resolution, so it matches the derived
status rather than anything stored.`,
		Example: `  # List all ENS proposals
  agora list -t ens

  # Only proposals that are currently active
  agora list -t optimism --status active

  # The ten newest approval proposals
  agora list -t optimism --type approval --limit 10`,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Get app from context
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			st, err := models.ParseProposalStatus(status)
			if err != nil {
				return domain.NewInputError("status", "%v", err)
			}
			typ, err := models.ParseProposalType(proposalType)
			if err != nil {
				return domain.NewInputError("type", "%v", err)
			}
			if limit < 0 {
				return domain.NewInputError("limit", "must not be negative")
			}

			result, err := app.ListProposals.Run(cmd.Context(), usecase.ListProposalsParams{
				Status: st,
				Type:   typ,
				Limit:  limit,
			})
			if err != nil {
				return err
			}

			if app.Config.JSON {
				out := listOutput{
					Tenant:   result.Tenant.Namespace,
					Results:  result.Results,
					ByStatus: result.Summary.ByStatus,
				}
				if out.Results == nil {
					out.Results = []*models.ResultView{}
				}
				if len(result.Failures) > 0 {
					out.Failures = lo.SliceToMap(result.Failures, func(f usecase.ProposalFailure) (string, string) {
						return f.ProposalID, f.Err.Error()
					})
				}
				return render.NewJSONRenderer[listOutput](cmd.OutOrStdout()).Render(out)
			}
			return render.NewProposalsRenderer(cmd.OutOrStdout()).Render(result)
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "Filter by resolved status (pending, active, succeeded, defeated, queued, executed, expired, vetoed, cancelled)")
	cmd.Flags().StringVar(&proposalType, "type", "", "Filter by proposal type (standard, approval, optimistic)")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of proposals to show, counted after --status (0 for all)")

	return cmd
}
