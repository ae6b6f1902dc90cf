package governance_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/voteagora/agora-tally/internal/domain"
	"github.com/voteagora/agora-tally/internal/domain/models"
	"github.com/voteagora/agora-tally/internal/governance"
)

func TestAggregate(t *testing.T) {
	t.Run("standard sums by support", func(t *testing.T) {
		votes := []*models.Vote{
			vote("0xa", models.SupportFor, 100),
			vote("0xb", models.SupportAgainst, 40),
			vote("0xc", models.SupportAbstain, 7),
			vote("0xd", models.SupportFor, 1),
		}
		votes[3].Source = models.VoteSourceOffchain

		tally, err := governance.Aggregate(standardProposal(), votes)
		require.NoError(t, err)
		assert.Equal(t, "101", tally.For.String())
		assert.Equal(t, "40", tally.Against.String())
		assert.Equal(t, "7", tally.Abstain.String())
		assert.Equal(t, "147", tally.Onchain.String())
		assert.Equal(t, "1", tally.Offchain.String())
		assert.Equal(t, 4, tally.Voters)
		assert.Empty(t, tally.Options)
	})

	t.Run("optimistic still sums for", func(t *testing.T) {
		p := standardProposal()
		p.Type = models.ProposalTypeOptimistic
		tally, err := governance.Aggregate(p, []*models.Vote{vote("0xa", models.SupportFor, 5)})
		require.NoError(t, err)
		assert.Equal(t, "5", tally.For.String())
	})

	t.Run("weights beyond float precision", func(t *testing.T) {
		big1 := vote("0xa", models.SupportFor, 0)
		big1.Weight.SetString("123456789012345678901234567890", 10)
		big2 := vote("0xb", models.SupportFor, 1)

		tally, err := governance.Aggregate(standardProposal(), []*models.Vote{big1, big2})
		require.NoError(t, err)
		assert.Equal(t, "123456789012345678901234567891", tally.For.String())
	})

	t.Run("approval sums per option", func(t *testing.T) {
		p := approvalProposal(models.CriteriaTopChoices, 2, 0, 0, 0)
		votes := []*models.Vote{
			vote("0xa", models.SupportFor, 10, 0, 2),
			vote("0xb", models.SupportFor, 5, 2, 2),
			vote("0xc", models.SupportFor, 3),
			vote("0xd", models.SupportAbstain, 8, 1),
		}

		tally, err := governance.Aggregate(p, votes)
		require.NoError(t, err)
		require.Len(t, tally.Options, 3)
		assert.Equal(t, "10", tally.Options[0].Weight.String())
		assert.Equal(t, "0", tally.Options[1].Weight.String(), "abstain selects nothing")
		assert.Equal(t, "15", tally.Options[2].Weight.String(), "duplicate params count once")
		assert.Equal(t, "18", tally.For.String())
		assert.Equal(t, "8", tally.Abstain.String())
		assert.Equal(t, 4, tally.Voters)
	})

	t.Run("rejects malformed votes", func(t *testing.T) {
		negative := vote("0xa", models.SupportFor, -1)
		unknown := vote("0xb", models.SupportFor, 1)
		unknown.Support = models.Support(7)

		tests := []struct {
			name     string
			proposal *models.Proposal
			votes    []*models.Vote
		}{
			{"negative weight", standardProposal(), []*models.Vote{negative}},
			{"unknown support", standardProposal(), []*models.Vote{unknown}},
			{"nil vote", standardProposal(), []*models.Vote{nil}},
			{"option out of range", approvalProposal(models.CriteriaTopChoices, 1, 0), []*models.Vote{vote("0xc", models.SupportFor, 1, 3)}},
			{"approval without settings", &models.Proposal{ID: "x", Type: models.ProposalTypeApproval}, nil},
			{"unknown type", &models.Proposal{ID: "x", Type: "SNAPSHOT"}, nil},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := governance.Aggregate(tt.proposal, tt.votes)
				require.Error(t, err)
				assert.ErrorIs(t, err, domain.ErrInvalidInput)
			})
		}
	})
}

func TestRanked(t *testing.T) {
	p := approvalProposal(models.CriteriaTopChoices, 2, 0, 0, 0, 0)
	tally, err := governance.Aggregate(p, []*models.Vote{
		vote("0xa", models.SupportFor, 10, 0),
		vote("0xb", models.SupportFor, 30, 1, 2),
		vote("0xc", models.SupportFor, 5, 3),
	})
	require.NoError(t, err)

	ranked := governance.Ranked(tally)
	indices := make([]int, len(ranked))
	for i, opt := range ranked {
		indices[i] = opt.Index
	}
	assert.Equal(t, []int{1, 2, 0, 3}, indices)
	assert.Equal(t, 0, tally.Options[0].Index, "ranking does not reorder the tally")
}
