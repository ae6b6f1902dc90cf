package governance_test

import (
	"math/big"

	"github.com/voteagora/agora-tally/internal/domain/config"
	"github.com/voteagora/agora-tally/internal/domain/models"
)

func u64(v uint64) *uint64 { return &v }

func i64(v int64) *int64 { return &v }

func bi(v int64) *big.Int { return big.NewInt(v) }

func vote(voter string, support models.Support, weight int64, params ...int) *models.Vote {
	return &models.Vote{
		ProposalID: "1",
		Voter:      voter,
		Support:    support,
		Weight:     big.NewInt(weight),
		Params:     params,
		Source:     models.VoteSourceOnchain,
	}
}

func blockTenant() *config.TenantConfig {
	t := &config.TenantConfig{Namespace: "test", QuorumStrategy: config.QuorumStrategySnapshot}
	t.ApplyDefaults()
	return t
}

func timestampTenant() *config.TenantConfig {
	t := blockTenant()
	t.UseTimestamps = true
	return t
}

func standardProposal() *models.Proposal {
	return &models.Proposal{
		ID:         "1",
		Type:       models.ProposalTypeStandard,
		StartBlock: u64(0),
		EndBlock:   u64(100),
	}
}

func approvalProposal(criteria models.ApprovalCriteria, value int64, budgets ...int64) *models.Proposal {
	p := &models.Proposal{
		ID:         "7",
		Type:       models.ProposalTypeApproval,
		StartBlock: u64(0),
		EndBlock:   u64(100),
		Approval: &models.ApprovalSettings{
			Criteria:      criteria,
			CriteriaValue: big.NewInt(value),
		},
	}
	for i, b := range budgets {
		p.Approval.Options = append(p.Approval.Options, models.ApprovalOption{
			Description: "option " + string(rune('A'+i)),
			Budget:      big.NewInt(b),
		})
	}
	return p
}
