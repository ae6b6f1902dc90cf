package render

import (
	"fmt"
	"io"
	"slices"
	"sort"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/voteagora/agora-tally/internal/domain/models"
	"github.com/voteagora/agora-tally/internal/usecase"
)

// ResultRenderer renders a single resolved proposal
type ResultRenderer struct {
	out io.Writer
}

// NewResultRenderer creates a new result renderer
func NewResultRenderer(out io.Writer) *ResultRenderer {
	return &ResultRenderer{out: out}
}

func (r *ResultRenderer) Render(result *usecase.ResolveProposalResult) error {
	view := result.View
	decimals := result.Tenant.TokenDecimals

	fmt.Fprintf(r.out, "%s %s %s on %s\n",
		headerStyle.Sprint("Proposal"),
		idStyle.Sprint(view.ProposalID),
		typeStyle.Sprintf("[%s]", view.Type),
		result.Tenant.Name,
	)
	if result.Proposal != nil && result.Proposal.Description != "" {
		fmt.Fprintf(r.out, "%s\n", labelStyle.Sprint(firstLine(result.Proposal.Description)))
	}
	status := FormatStatus(view.Status, view.StatusText)
	if result.Cached {
		status += labelStyle.Sprint(" (cached)")
	}
	fmt.Fprintf(r.out, "Status: %s\n\n", status)

	t := newTable()
	t.AppendHeader(table.Row{"", "VOTES", "%"})
	t.AppendRow(table.Row{approvedStyle.Sprint("For"), FormatTokens(view.For.Weight, decimals), FormatPercent(view.For.Percent)})
	t.AppendRow(table.Row{rejectedStyle.Sprint("Against"), FormatTokens(view.Against.Weight, decimals), FormatPercent(view.Against.Percent)})
	t.AppendRow(table.Row{labelStyle.Sprint("Abstain"), FormatTokens(view.Abstain.Weight, decimals), FormatPercent(view.Abstain.Percent)})
	fmt.Fprintln(r.out, t.Render())

	if len(view.Options) > 0 {
		fmt.Fprintln(r.out)
		fmt.Fprintln(r.out, r.renderOptions(view.Options, decimals))
	}

	fmt.Fprintln(r.out)
	if view.Quorum == "" {
		fmt.Fprintf(r.out, "Quorum:        %s\n", labelStyle.Sprint("none"))
	} else {
		fmt.Fprintf(r.out, "Quorum:        %s (%s)\n", FormatTokens(view.Quorum, decimals), yesNo(view.QuorumMet, "met", "not met"))
	}
	fmt.Fprintf(r.out, "Participation: %s\n", FormatTokens(view.Participation, decimals))
	if view.ThresholdMet != nil {
		fmt.Fprintf(r.out, "Threshold:     %s\n", yesNo(*view.ThresholdMet, "met", "not met"))
	}
	if view.VotableSupply != "" {
		fmt.Fprintf(r.out, "Votable:       %s\n", FormatTokens(view.VotableSupply, decimals))
	}
	fmt.Fprintf(r.out, "Voters:        %d\n", view.Voters)
	return nil
}

func (r *ResultRenderer) renderOptions(options []models.OptionView, decimals int) string {
	ranked := slices.Clone(options)
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Rank < ranked[j].Rank })

	t := newTable()
	t.AppendHeader(table.Row{"#", "OPTION", "VOTES", "%", "BUDGET", ""})
	for _, o := range ranked {
		mark := ""
		if o.Approved {
			mark = approvedStyle.Sprint("✓")
		}
		budget := "-"
		if o.Budget != "" {
			budget = FormatTokens(o.Budget, decimals)
		}
		t.AppendRow(table.Row{o.Rank, o.Description, FormatTokens(o.Weight, decimals), FormatPercent(o.Percent), budget, mark})
	}
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, WidthMax: 48},
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
	})
	return t.Render()
}

// newTable returns a borderless table in the house style
func newTable() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.Style().Options.SeparateRows = false
	t.Style().Options.DrawBorder = false
	t.Style().Options.SeparateHeader = false
	t.Style().Options.SeparateColumns = false
	t.Style().Format.Header = text.FormatDefault
	t.Style().Box = table.BoxStyle{
		PaddingLeft:  "  ",
		PaddingRight: " ",
	}
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
	})
	return t
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(s), "\n")
	return strings.TrimLeft(line, "# ")
}
