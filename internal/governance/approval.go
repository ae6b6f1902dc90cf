package governance

import (
	"math/big"

	"github.com/voteagora/agora-tally/internal/domain"
	"github.com/voteagora/agora-tally/internal/domain/models"
)

// selectApproved picks the winning options of an approval proposal.
//
// TOP_CHOICES(n) approves the n highest ranked options. THRESHOLD(v) walks the
// ranking and approves options with weight >= v while their budgets fit under
// the budget cap (nil is unlimited, zero only admits free options); the walk stops at the first option that fails either check.
func selectApproved(settings *models.ApprovalSettings, tally *models.Tally) ([]int, *big.Int, error) {
	if settings == nil {
		return nil, nil, domain.NewInputError("approval", "missing approval settings")
	}
	if len(settings.Options) != len(tally.Options) {
		return nil, nil, domain.NewInputError("approval", "tally has %d options, proposal declares %d", len(tally.Options), len(settings.Options))
	}

	ranked := Ranked(tally)
	spent := new(big.Int)
	approved := make([]int, 0, len(ranked))

	switch settings.Criteria {
	case models.CriteriaTopChoices:
		n := zeroIfNil(settings.CriteriaValue)
		if !n.IsInt64() || n.Sign() < 0 {
			return nil, nil, domain.NewInputError("criteriaValue", "top choices count %s out of range", n)
		}
		limit := int(min(n.Int64(), int64(len(ranked))))
		for _, opt := range ranked[:limit] {
			approved = append(approved, opt.Index)
			spent.Add(spent, optionBudget(settings, opt.Index))
		}

	case models.CriteriaThreshold:
		threshold := zeroIfNil(settings.CriteriaValue)
		budgetCap := settings.BudgetCap
		limited := budgetCap != nil
		for _, opt := range ranked {
			if opt.Weight.Cmp(threshold) < 0 {
				break
			}
			cost := optionBudget(settings, opt.Index)
			if limited && new(big.Int).Add(spent, cost).Cmp(budgetCap) > 0 {
				break
			}
			spent.Add(spent, cost)
			approved = append(approved, opt.Index)
		}

	default:
		return nil, nil, domain.NewInputError("criteria", "unknown approval criteria %q", settings.Criteria)
	}

	return approved, spent, nil
}

func optionBudget(settings *models.ApprovalSettings, idx int) *big.Int {
	return zeroIfNil(settings.Options[idx].Budget)
}
