package governance

import (
	"math/big"
	"sort"

	"github.com/voteagora/agora-tally/internal/domain"
	"github.com/voteagora/agora-tally/internal/domain/models"
)

// Aggregate sums vote weight for a proposal. The vote set must be complete:
// tallies are recomputed from scratch on every call.
func Aggregate(proposal *models.Proposal, votes []*models.Vote) (*models.Tally, error) {
	if proposal == nil {
		return nil, domain.NewInputError("proposal", "missing")
	}

	tally := models.NewTally()

	switch proposal.Type {
	case models.ProposalTypeStandard, models.ProposalTypeOptimistic:
	case models.ProposalTypeApproval:
		if proposal.Approval == nil {
			return nil, domain.NewInputError("approval", "approval proposal %s has no settings", proposal.ID)
		}
		tally.Options = make([]models.OptionTally, len(proposal.Approval.Options))
		for i, opt := range proposal.Approval.Options {
			tally.Options[i] = models.OptionTally{
				Index:       i,
				Description: opt.Description,
				Weight:      new(big.Int),
			}
		}
	default:
		return nil, domain.NewInputError("type", "unknown proposal type %q", proposal.Type)
	}

	voters := make(map[string]struct{}, len(votes))
	for i, vote := range votes {
		if vote == nil {
			return nil, domain.NewInputError("votes", "vote %d is nil", i)
		}
		if vote.Weight == nil || vote.Weight.Sign() < 0 {
			return nil, domain.NewInputError("weight", "vote by %s has negative or missing weight", vote.Voter)
		}
		if !vote.Support.Valid() {
			return nil, domain.NewInputError("support", "vote by %s has unknown support %d", vote.Voter, vote.Support)
		}

		switch vote.Support {
		case models.SupportFor:
			tally.For.Add(tally.For, vote.Weight)
		case models.SupportAgainst:
			tally.Against.Add(tally.Against, vote.Weight)
		case models.SupportAbstain:
			tally.Abstain.Add(tally.Abstain, vote.Weight)
		}

		if vote.Source == models.VoteSourceOffchain {
			tally.Offchain.Add(tally.Offchain, vote.Weight)
		} else {
			tally.Onchain.Add(tally.Onchain, vote.Weight)
		}
		voters[vote.Voter] = struct{}{}

		if proposal.Type != models.ProposalTypeApproval || vote.Support == models.SupportAbstain {
			continue
		}
		seen := make(map[int]struct{}, len(vote.Params))
		for _, idx := range vote.Params {
			if idx < 0 || idx >= len(tally.Options) {
				return nil, domain.NewInputError("params", "vote by %s selects option %d of %d", vote.Voter, idx, len(tally.Options))
			}
			if _, dup := seen[idx]; dup {
				continue
			}
			seen[idx] = struct{}{}
			tally.Options[idx].Weight.Add(tally.Options[idx].Weight, vote.Weight)
		}
	}
	tally.Voters = len(voters)

	return tally, nil
}

// Ranked returns the approval options ordered by descending weight.
// Ties keep declaration order.
func Ranked(tally *models.Tally) []models.OptionTally {
	ranked := make([]models.OptionTally, len(tally.Options))
	copy(ranked, tally.Options)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Weight.Cmp(ranked[j].Weight) > 0
	})
	return ranked
}
