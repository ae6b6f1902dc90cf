package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/voteagora/agora-tally/internal/domain/models"
	"github.com/voteagora/agora-tally/internal/usecase"
)

// ProposalsRenderer renders resolved proposal lists
type ProposalsRenderer struct {
	out io.Writer
}

// NewProposalsRenderer creates a new proposals renderer
func NewProposalsRenderer(out io.Writer) *ProposalsRenderer {
	return &ProposalsRenderer{out: out}
}

func (r *ProposalsRenderer) Render(result *usecase.ListProposalsResult) error {
	if len(result.Results) == 0 && len(result.Failures) == 0 {
		fmt.Fprintf(r.out, "No proposals found for %s\n", result.Tenant.Name)
		return nil
	}

	decimals := result.Tenant.TokenDecimals
	if len(result.Results) > 0 {
		t := newTable()
		t.AppendHeader(table.Row{"ID", "TYPE", "STATUS", "FOR", "AGAINST", "ABSTAIN", "QUORUM"})
		for _, v := range result.Results {
			t.AppendRow(table.Row{
				idStyle.Sprint(ShortID(v.ProposalID)),
				typeStyle.Sprint(v.Type),
				FormatStatus(v.Status, v.StatusText),
				FormatTokens(v.For.Weight, decimals),
				FormatTokens(v.Against.Weight, decimals),
				FormatTokens(v.Abstain.Weight, decimals),
				quorumCell(v),
			})
		}
		t.SetColumnConfigs([]table.ColumnConfig{
			{Number: 4, Align: text.AlignRight},
			{Number: 5, Align: text.AlignRight},
			{Number: 6, Align: text.AlignRight},
		})
		fmt.Fprintln(r.out, t.Render())
		fmt.Fprintln(r.out)
	}

	fmt.Fprintf(r.out, "%s %d proposals on %s", headerStyle.Sprint("Total:"), result.Summary.Total, result.Tenant.Name)
	if parts := summaryParts(result.Summary); len(parts) > 0 {
		fmt.Fprintf(r.out, " (%s)", strings.Join(parts, ", "))
	}
	fmt.Fprintln(r.out)

	for _, f := range result.Failures {
		fmt.Fprintln(r.out, FormatWarning(fmt.Sprintf("proposal %s: %v", ShortID(f.ProposalID), f.Err)))
	}
	return nil
}

func quorumCell(v *models.ResultView) string {
	if v.Quorum == "" {
		return labelStyle.Sprint("-")
	}
	return yesNo(v.QuorumMet, "met", "not met")
}

func summaryParts(s usecase.StatusSummary) []string {
	var parts []string
	for _, status := range models.Statuses {
		if n := s.ByStatus[status]; n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, strings.ToLower(string(status))))
		}
	}
	return parts
}
