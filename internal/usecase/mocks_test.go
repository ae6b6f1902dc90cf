package usecase_test

import (
	"context"
	"io"
	"log/slog"
	"math/big"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/voteagora/agora-tally/internal/domain"
	"github.com/voteagora/agora-tally/internal/domain/config"
	"github.com/voteagora/agora-tally/internal/domain/models"
	"github.com/voteagora/agora-tally/internal/governance"
	"github.com/voteagora/agora-tally/internal/usecase"
)

// MockRepository is a mock implementation of ProposalRepository and VoteRepository
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) GetProposal(ctx context.Context, tenant, id string) (*models.Proposal, error) {
	args := m.Called(ctx, tenant, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Proposal), args.Error(1)
}

func (m *MockRepository) ListProposals(ctx context.Context, filter domain.ProposalFilter) ([]*models.Proposal, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Proposal), args.Error(1)
}

func (m *MockRepository) ListVotes(ctx context.Context, tenant, proposalID string) ([]*models.Vote, error) {
	args := m.Called(ctx, tenant, proposalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Vote), args.Error(1)
}

func (m *MockRepository) SaveBundle(ctx context.Context, bundle *models.Bundle) error {
	args := m.Called(ctx, bundle)
	return args.Error(0)
}

func (m *MockRepository) LoadBundle(ctx context.Context, path string) (*models.Bundle, error) {
	args := m.Called(ctx, path)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Bundle), args.Error(1)
}

func (m *MockRepository) CurrentVotableSupply(ctx context.Context, tenant *config.TenantConfig) (string, error) {
	args := m.Called(ctx, tenant)
	return args.String(0), args.Error(1)
}

// MockResolver is a mock implementation of ProposalResolver
type MockResolver struct {
	mock.Mock
}

func (m *MockResolver) Resolve(ctx context.Context, tenant *config.TenantConfig, proposal *models.Proposal, votes []*models.Vote) (*governance.Resolution, error) {
	args := m.Called(ctx, tenant, proposal, votes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*governance.Resolution), args.Error(1)
}

// MockSelector is a mock implementation of ProposalSelector
type MockSelector struct {
	mock.Mock
}

func (m *MockSelector) SelectProposal(ctx context.Context, proposals []*models.Proposal) (*models.Proposal, error) {
	args := m.Called(ctx, proposals)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Proposal), args.Error(1)
}

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

func (m *MockGovernor) Governor(context.Context, *config.TenantConfig) (governance.GovernorReader, error) {
	return m, nil
}

// mapCache is an in-memory ResultCache
type mapCache struct {
	mu      sync.Mutex
	entries map[string]*models.ResultView
}

func newMapCache() *mapCache {
	return &mapCache{entries: make(map[string]*models.ResultView)}
}

func (c *mapCache) Get(_ context.Context, key string) (*models.ResultView, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.entries[key]
	return v, ok, nil
}

func (c *mapCache) Set(_ context.Context, key string, view *models.ResultView, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = view
	return nil
}

// recordingMetrics counts observations
type recordingMetrics struct {
	mu          sync.Mutex
	resolutions map[models.ProposalStatus]int
	errors      int
	hits        int
	misses      int
}

func newRecordingMetrics() *recordingMetrics {
	return &recordingMetrics{resolutions: make(map[models.ProposalStatus]int)}
}

func (r *recordingMetrics) ObserveResolution(_ string, status models.ProposalStatus, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.resolutions[status]++
}

func (r *recordingMetrics) ObserveError(string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errors++
}

func (r *recordingMetrics) ObserveCache(hit bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if hit {
		r.hits++
	} else {
		r.misses++
	}
}

// MockProgressSink records progress events
type MockProgressSink struct {
	mu     sync.Mutex
	events []usecase.ProgressEvent
	errors []string
}

func (m *MockProgressSink) OnProgress(_ context.Context, event usecase.ProgressEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
}

func (m *MockProgressSink) Info(string) {}

func (m *MockProgressSink) Error(message string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors = append(m.errors, message)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig() *config.RuntimeConfig {
	tenants := config.DefaultTenants()
	return &config.RuntimeConfig{
		Tenant:         tenants["ens"],
		Tenants:        tenants,
		NonInteractive: true,
		Workers:        2,
		CacheTTL:       time.Minute,
	}
}

func u64(v uint64) *uint64 { return &v }

func proposal(id string) *models.Proposal {
	return &models.Proposal{
		ID:         id,
		Type:       models.ProposalTypeStandard,
		StartBlock: u64(1),
		EndBlock:   u64(10),
	}
}

func resolution(id string, status models.ProposalStatus) *governance.Resolution {
	return &governance.Resolution{
		View: &models.ResultView{
			ProposalID: id,
			Status:     status,
			StatusText: governance.StatusText(status),
		},
	}
}
