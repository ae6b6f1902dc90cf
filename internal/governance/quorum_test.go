package governance_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/voteagora/agora-tally/internal/domain"
	"github.com/voteagora/agora-tally/internal/domain/config"
	"github.com/voteagora/agora-tally/internal/domain/models"
	"github.com/voteagora/agora-tally/internal/governance"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func quorumRequest(tenant *config.TenantConfig, p *models.Proposal, gov governance.GovernorReader, supply int64) governance.QuorumRequest {
	return governance.QuorumRequest{
		Proposal: p,
		Tenant:   tenant,
		Chain:    func() (governance.GovernorReader, error) { return gov, nil },
		Supply:   func() (*big.Int, error) { return big.NewInt(supply), nil },
	}
}

func tenantWith(strategy string) *config.TenantConfig {
	t := &config.TenantConfig{Namespace: strategy, QuorumStrategy: strategy}
	t.ApplyDefaults()
	return t
}

func TestQuorumRegistry(t *testing.T) {
	ctx := context.Background()
	readErr := errors.New("execution reverted")

	t.Run("created block", func(t *testing.T) {
		gov := new(MockGovernor)
		gov.On("Quorum", ctx, bigEq(1234)).Return(big.NewInt(500), nil)
		reg := governance.NewQuorumRegistry(discardLogger())

		p := standardProposal()
		p.CreatedBlock = u64(1234)
		q, err := reg.Resolve(ctx, quorumRequest(tenantWith(config.QuorumStrategyCreatedBlock), p, gov, 0))
		require.NoError(t, err)
		assert.Equal(t, "500", q.String())

		q, err = reg.Resolve(ctx, quorumRequest(tenantWith(config.QuorumStrategyCreatedBlock), standardProposal(), gov, 0))
		require.NoError(t, err)
		assert.Nil(t, q, "no snapshot yet means no quorum")
		gov.AssertNumberOfCalls(t, "Quorum", 1)
	})

	t.Run("created block propagates read failure", func(t *testing.T) {
		gov := new(MockGovernor)
		gov.On("Quorum", ctx, mock.Anything).Return(nil, readErr)
		p := standardProposal()
		p.CreatedBlock = u64(1)

		_, err := governance.NewQuorumRegistry(discardLogger()).Resolve(ctx, quorumRequest(tenantWith(config.QuorumStrategyCreatedBlock), p, gov, 0))
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrUpstreamRead)
		assert.ErrorIs(t, err, readErr)
	})

	t.Run("quorum votes", func(t *testing.T) {
		gov := new(MockGovernor)
		gov.On("QuorumVotes", ctx).Return(big.NewInt(40_000_000), nil)
		q, err := governance.NewQuorumRegistry(discardLogger()).Resolve(ctx, quorumRequest(tenantWith(config.QuorumStrategyQuorumVotes), standardProposal(), gov, 0))
		require.NoError(t, err)
		assert.Equal(t, "40000000", q.String())
	})

	t.Run("proposal id with upgrade block", func(t *testing.T) {
		tenant := tenantWith(config.QuorumStrategyProposalID)
		tenant.V6UpgradeBlock = 1000

		gov := new(MockGovernor)
		gov.On("Quorum", ctx, bigEq(1)).Return(big.NewInt(77), nil).Once()
		gov.On("Quorum", ctx, bigEq(1)).Return(new(big.Int), nil).Once()
		reg := governance.NewQuorumRegistry(discardLogger())

		legacy := standardProposal()
		legacy.CreatedBlock = u64(999)
		q, err := reg.Resolve(ctx, quorumRequest(tenant, legacy, gov, 1000))
		require.NoError(t, err)
		assert.Equal(t, "0", q.String(), "proposals before the upgrade are grandfathered")

		current := standardProposal()
		current.CreatedBlock = u64(1000)
		q, err = reg.Resolve(ctx, quorumRequest(tenant, current, gov, 1000))
		require.NoError(t, err)
		assert.Equal(t, "77", q.String())

		q, err = reg.Resolve(ctx, quorumRequest(tenant, current, gov, 1000))
		require.NoError(t, err)
		assert.Equal(t, "300", q.String(), "zero quorum falls back to 30% of supply")
		gov.AssertExpectations(t)
	})

	t.Run("proposal id propagates read failure", func(t *testing.T) {
		gov := new(MockGovernor)
		gov.On("Quorum", ctx, mock.Anything).Return(nil, readErr)
		_, err := governance.NewQuorumRegistry(discardLogger()).Resolve(ctx, quorumRequest(tenantWith(config.QuorumStrategyProposalID), standardProposal(), gov, 1000))
		assert.ErrorIs(t, err, domain.ErrUpstreamRead)
	})

	t.Run("supply percentage ignores the proposal", func(t *testing.T) {
		gov := new(MockGovernor)
		q, err := governance.NewQuorumRegistry(discardLogger()).Resolve(ctx, quorumRequest(tenantWith(config.QuorumStrategySupplyPercentage), standardProposal(), gov, 12345))
		require.NoError(t, err)
		assert.Equal(t, "3703", q.String())
		gov.AssertNotCalled(t, "Quorum", mock.Anything, mock.Anything)
	})

	t.Run("snapshot", func(t *testing.T) {
		p := standardProposal()
		reg := governance.NewQuorumRegistry(discardLogger())
		q, err := reg.Resolve(ctx, quorumRequest(tenantWith(config.QuorumStrategySnapshot), p, nil, 0))
		require.NoError(t, err)
		assert.Nil(t, q)

		p.Quorum = big.NewInt(9)
		q, err = reg.Resolve(ctx, quorumRequest(tenantWith(config.QuorumStrategySnapshot), p, nil, 0))
		require.NoError(t, err)
		assert.Equal(t, "9", q.String())
	})

	t.Run("default absorbs read failure", func(t *testing.T) {
		gov := new(MockGovernor)
		gov.On("Quorum", ctx, bigEq(1)).Return(nil, readErr)
		q, err := governance.NewQuorumRegistry(discardLogger()).Resolve(ctx, quorumRequest(tenantWith(config.QuorumStrategyDefault), standardProposal(), gov, 5000))
		require.NoError(t, err)
		assert.Equal(t, "5000", q.String())
	})

	t.Run("default reads by proposal id", func(t *testing.T) {
		gov := new(MockGovernor)
		gov.On("Quorum", ctx, bigEq(255)).Return(big.NewInt(11), nil)
		p := standardProposal()
		p.ID = "0xff"
		q, err := governance.NewQuorumRegistry(discardLogger()).Resolve(ctx, quorumRequest(tenantWith(""), p, gov, 5000))
		require.NoError(t, err)
		assert.Equal(t, "11", q.String())
	})

	t.Run("unknown strategy", func(t *testing.T) {
		_, err := governance.NewQuorumRegistry(discardLogger()).Resolve(ctx, quorumRequest(tenantWith("nope"), standardProposal(), nil, 0))
		assert.ErrorContains(t, err, `unknown quorum strategy "nope"`)
	})

	t.Run("registered strategies are dispatched by name", func(t *testing.T) {
		reg := governance.NewQuorumRegistry(discardLogger())
		reg.Register("fixed", func(context.Context, governance.QuorumRequest) (*big.Int, error) {
			return big.NewInt(42), nil
		})
		assert.Contains(t, reg.Names(), "fixed")

		q, err := reg.Resolve(ctx, quorumRequest(tenantWith("fixed"), standardProposal(), nil, 0))
		require.NoError(t, err)
		assert.Equal(t, "42", q.String())
	})
}

func TestParseProposalID(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"42", "42", false},
		{"0x2a", "42", false},
		{"103695861934105313567072233425851186232795566016484808987883022366843432637544", "103695861934105313567072233425851186232795566016484808987883022366843432637544", false},
		{"-1", "", true},
		{"abc", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := governance.ParseProposalID(tt.in)
		if tt.wantErr {
			assert.ErrorIs(t, err, domain.ErrInvalidInput, tt.in)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, got.String())
	}
}
