package governance

import (
	"math/big"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/voteagora/agora-tally/internal/domain"
	"github.com/voteagora/agora-tally/internal/domain/models"
)

// StatusText returns the display label for a status, e.g. "Succeeded"
func StatusText(s models.ProposalStatus) string {
	// Casers are stateful, so one is built per call.
	return cases.Title(language.English).String(strings.ToLower(string(s)))
}

// Format packages a tally and outcome into the external result view.
// It has no side effects and returns an InputError on inconsistent input.
func Format(tenant string, proposal *models.Proposal, tally *models.Tally, outcome *Outcome, votableSupply *big.Int) (*models.ResultView, error) {
	if proposal == nil {
		return nil, domain.NewInputError("proposal", "missing")
	}
	if tally == nil {
		return nil, domain.NewInputError("tally", "missing")
	}
	if outcome == nil || outcome.Status == "" {
		return nil, domain.NewInputError("status", "proposal %s has no resolved status", proposal.ID)
	}
	if len(tally.Options) != proposal.OptionCount() {
		return nil, domain.NewInputError("options", "tally has %d options, proposal declares %d", len(tally.Options), proposal.OptionCount())
	}

	total := tally.Total()
	view := &models.ResultView{
		ProposalID:     proposal.ID,
		Tenant:         tenant,
		Type:           proposal.Type,
		Status:         outcome.Status,
		StatusText:     StatusText(outcome.Status),
		For:            weightView(tally.For, total),
		Against:        weightView(tally.Against, total),
		Abstain:        weightView(tally.Abstain, total),
		QuorumMet:      outcome.QuorumMet,
		Participation:  zeroIfNil(outcome.Participation).String(),
		Voters:         tally.Voters,
		StartBlock:     proposal.StartBlock,
		EndBlock:       proposal.EndBlock,
		StartTimestamp: proposal.StartTimestamp,
		EndTimestamp:   proposal.EndTimestamp,
	}
	if outcome.Quorum != nil {
		view.Quorum = outcome.Quorum.String()
	}
	if votableSupply != nil {
		view.VotableSupply = votableSupply.String()
	}
	if outcome.ThresholdMet != nil {
		met := *outcome.ThresholdMet
		view.ThresholdMet = &met
	}

	if proposal.Type == models.ProposalTypeApproval {
		view.Options = optionViews(proposal, tally, outcome)
	}

	return view, nil
}

func weightView(part, total *big.Int) models.WeightView {
	return models.WeightView{
		Weight:  part.String(),
		Percent: Percent(part, total),
	}
}

func optionViews(proposal *models.Proposal, tally *models.Tally, outcome *Outcome) []models.OptionView {
	optionTotal := new(big.Int)
	for _, opt := range tally.Options {
		optionTotal.Add(optionTotal, opt.Weight)
	}

	approved := make(map[int]bool, len(outcome.Approved))
	for _, idx := range outcome.Approved {
		approved[idx] = true
	}

	views := make([]models.OptionView, len(tally.Options))
	for rank, opt := range Ranked(tally) {
		v := models.OptionView{
			Index:       opt.Index,
			Description: opt.Description,
			Weight:      opt.Weight.String(),
			Percent:     Percent(opt.Weight, optionTotal),
			Rank:        rank + 1,
			Approved:    approved[opt.Index],
		}
		if b := proposal.Approval.Options[opt.Index].Budget; b != nil {
			v.Budget = b.String()
		}
		views[opt.Index] = v
	}
	return views
}
