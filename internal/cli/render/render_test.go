package render

import (
	"bytes"
	"errors"
	"math/big"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voteagora/agora-tally/internal/domain/config"
	"github.com/voteagora/agora-tally/internal/domain/models"
	"github.com/voteagora/agora-tally/internal/usecase"
)

func init() {
	color.NoColor = true
}

func TestFormatTokens(t *testing.T) {
	tests := []struct {
		amount   string
		decimals int
		want     string
	}{
		{"1234567890000000000000000", 18, "1,234,567.89"},
		{"999", 18, "0.00"},
		{"1500000000000000000", 18, "1.50"},
		{"1234567", 0, "1,234,567"},
		{"", 18, "-"},
		{"abc", 18, "abc"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatTokens(tt.amount, tt.decimals), tt.amount)
	}
}

func TestFormatError(t *testing.T) {
	assert.Equal(t, "❌ Proposal 1: not found", FormatError("proposal 1: not found"))
}

func TestShortID(t *testing.T) {
	assert.Equal(t, "42", ShortID("42"))
	assert.Equal(t, "10379325…563829", ShortID("103793254939206385947366393117651985432836757405373089316787453096312235563829"))
}

func TestResultRenderer(t *testing.T) {
	met := true
	var buf bytes.Buffer
	err := NewResultRenderer(&buf).Render(&usecase.ResolveProposalResult{
		Tenant:   &config.TenantConfig{Name: "ENS", TokenDecimals: 0},
		Proposal: &models.Proposal{Description: "# Fund the working group\n\nbody"},
		View: &models.ResultView{
			ProposalID:    "42",
			Type:          models.ProposalTypeStandard,
			Status:        models.ProposalStatusSucceeded,
			StatusText:    "Succeeded",
			For:           models.WeightView{Weight: "600", Percent: 60},
			Against:       models.WeightView{Weight: "300", Percent: 30},
			Abstain:       models.WeightView{Weight: "100", Percent: 10},
			Quorum:        "500",
			QuorumMet:     true,
			Participation: "700",
			ThresholdMet:  &met,
			Voters:        3,
		},
		Cached: true,
	})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Proposal 42 [STANDARD] on ENS")
	assert.Contains(t, out, "Fund the working group")
	assert.Contains(t, out, "Status: Succeeded (cached)")
	assert.Contains(t, out, "60.00%")
	assert.Contains(t, out, "Quorum:        500 (met)")
	assert.Contains(t, out, "Threshold:     met")
	assert.Contains(t, out, "Voters:        3")
}

func TestResultRendererApprovalOptions(t *testing.T) {
	var buf bytes.Buffer
	err := NewResultRenderer(&buf).Render(&usecase.ResolveProposalResult{
		Tenant: &config.TenantConfig{Name: "Optimism"},
		View: &models.ResultView{
			ProposalID: "7",
			Type:       models.ProposalTypeApproval,
			Status:     models.ProposalStatusDefeated,
			StatusText: "Defeated",
			Options: []models.OptionView{
				{Index: 0, Description: "Option A", Weight: "10", Rank: 2},
				{Index: 1, Description: "Option B", Weight: "40", Rank: 1, Approved: true},
			},
		},
	})
	require.NoError(t, err)

	out := buf.String()
	assert.Less(t, strings.Index(out, "Option B"), strings.Index(out, "Option A"))
	assert.Contains(t, out, "✓")
	assert.Contains(t, out, "Quorum:        none")
}

func TestProposalsRenderer(t *testing.T) {
	var buf bytes.Buffer
	err := NewProposalsRenderer(&buf).Render(&usecase.ListProposalsResult{
		Tenant: &config.TenantConfig{Name: "ENS"},
		Results: []*models.ResultView{
			{ProposalID: "1", Type: models.ProposalTypeStandard, Status: models.ProposalStatusExecuted, StatusText: "Executed", Quorum: "1", QuorumMet: true},
			{ProposalID: "2", Type: models.ProposalTypeOptimistic, Status: models.ProposalStatusVetoed, StatusText: "Vetoed"},
		},
		Failures: []usecase.ProposalFailure{{ProposalID: "3", Err: errors.New("rpc down")}},
		Summary: usecase.StatusSummary{
			Total: 2,
			ByStatus: map[models.ProposalStatus]int{
				models.ProposalStatusExecuted: 1,
				models.ProposalStatusVetoed:   1,
			},
		},
	})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Executed")
	assert.Contains(t, out, "Vetoed")
	assert.Contains(t, out, "Total: 2 proposals on ENS (1 executed, 1 vetoed)")
	assert.Contains(t, out, "proposal 3: rpc down")
}

func TestProposalsRendererEmpty(t *testing.T) {
	var buf bytes.Buffer
	err := NewProposalsRenderer(&buf).Render(&usecase.ListProposalsResult{Tenant: &config.TenantConfig{Name: "ENS"}})
	require.NoError(t, err)
	assert.Equal(t, "No proposals found for ENS\n", buf.String())
}

func TestQuorumRenderer(t *testing.T) {
	var buf bytes.Buffer
	err := NewQuorumRenderer(&buf).Render(&usecase.QuorumInfo{
		Tenant:        &config.TenantConfig{Name: "Uniswap"},
		ProposalID:    "5",
		Strategy:      config.QuorumStrategyQuorumVotes,
		Quorum:        big.NewInt(400),
		VotableSupply: big.NewInt(1000),
		SupplyBps:     big.NewInt(4000),
	})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Strategy:  "+config.QuorumStrategyQuorumVotes)
	assert.Contains(t, out, "Quorum:    400")
	assert.Contains(t, out, "Share:     40.00%")
}

func TestTenantsRenderer(t *testing.T) {
	var buf bytes.Buffer
	err := NewTenantsRenderer(&buf).Render(&usecase.ListTenantsResult{
		Tenants: []*config.TenantConfig{
			{Namespace: "ens", Name: "ENS", ChainID: 1, QuorumStrategy: config.QuorumStrategyCreatedBlock},
			{Namespace: "scroll", Name: "Scroll", ChainID: 534352, UseTimestamps: true},
		},
		Current: "ens",
		Source:  "defaults",
	})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "(from defaults)")
	assert.Contains(t, out, "▸")
	assert.Contains(t, out, "timestamps")
}

func TestImportRenderer(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewImportRenderer(&buf).Render(&usecase.ImportBundleResult{Tenant: "ens", Proposals: 2, Votes: 3, DryRun: true}))
	assert.Contains(t, buf.String(), "Validated 2 proposals and 3 votes for ens (dry run")
}

func TestJSONRenderer(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewJSONRenderer[*models.ResultView](&buf).Render(&models.ResultView{ProposalID: "1"}))
	assert.Contains(t, buf.String(), `"proposalId": "1"`)
}
