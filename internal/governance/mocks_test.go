package governance_test

import (
	"context"
	"math/big"

	"github.com/stretchr/testify/mock"
	"github.com/voteagora/agora-tally/internal/domain/config"
	"github.com/voteagora/agora-tally/internal/governance"
)

// MockGovernor is a mock implementation of GovernorReader
type MockGovernor struct {
	mock.Mock
}

func (m *MockGovernor) Quorum(ctx context.Context, arg *big.Int) (*big.Int, error) {
	args := m.Called(ctx, arg)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*big.Int), args.Error(1)
}

func (m *MockGovernor) QuorumVotes(ctx context.Context) (*big.Int, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*big.Int), args.Error(1)
}

func (m *MockGovernor) GetBlock(ctx context.Context, number *big.Int) (*governance.Block, error) {
	args := m.Called(ctx, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*governance.Block), args.Error(1)
}

// staticChains hands out the same governor for every tenant
type staticChains struct {
	governor governance.GovernorReader
	err      error
}

func (s staticChains) Governor(context.Context, *config.TenantConfig) (governance.GovernorReader, error) {
	return s.governor, s.err
}

// MockSupply is a mock implementation of SupplyReader
type MockSupply struct {
	mock.Mock
}

func (m *MockSupply) CurrentVotableSupply(ctx context.Context, tenant *config.TenantConfig) (string, error) {
	args := m.Called(ctx, tenant)
	return args.String(0), args.Error(1)
}

// bigEq matches a *big.Int argument by value
func bigEq(v int64) any {
	return mock.MatchedBy(func(x *big.Int) bool { return x != nil && x.Cmp(big.NewInt(v)) == 0 })
}
