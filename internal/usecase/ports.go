package usecase

import (
	"context"
	"time"

	"github.com/voteagora/agora-tally/internal/domain"
	"github.com/voteagora/agora-tally/internal/domain/config"
	"github.com/voteagora/agora-tally/internal/domain/models"
	"github.com/voteagora/agora-tally/internal/governance"
)

// ProposalRepository reads indexed proposals
type ProposalRepository interface {
	GetProposal(ctx context.Context, tenant, id string) (*models.Proposal, error)
	ListProposals(ctx context.Context, filter domain.ProposalFilter) ([]*models.Proposal, error)
}

// VoteRepository reads the votes cast on a proposal
type VoteRepository interface {
	ListVotes(ctx context.Context, tenant, proposalID string) ([]*models.Vote, error)
}

// BundleStore persists imported bundles
type BundleStore interface {
	SaveBundle(ctx context.Context, bundle *models.Bundle) error
}

// BundleLoader reads a bundle from a file
type BundleLoader interface {
	LoadBundle(ctx context.Context, path string) (*models.Bundle, error)
}

// ProposalResolver derives the result of a proposal from its votes
type ProposalResolver interface {
	Resolve(ctx context.Context, tenant *config.TenantConfig, proposal *models.Proposal, votes []*models.Vote) (*governance.Resolution, error)
}

// ResultCache stores resolved views for a limited time
type ResultCache interface {
	Get(ctx context.Context, key string) (*models.ResultView, bool, error)
	Set(ctx context.Context, key string, view *models.ResultView, ttl time.Duration) error
}

// MetricsRecorder observes resolutions
type MetricsRecorder interface {
	ObserveResolution(tenant string, status models.ProposalStatus, elapsed time.Duration)
	ObserveError(tenant string, err error)
	ObserveCache(hit bool)
}

// ProposalSelector lets the user pick a proposal interactively
type ProposalSelector interface {
	SelectProposal(ctx context.Context, proposals []*models.Proposal) (*models.Proposal, error)
}

// Progress tracking interfaces

// ProgressEvent represents a progress update
type ProgressEvent struct {
	Stage    string
	Current  int
	Total    int
	Message  string
	Spinner  bool
	Metadata interface{}
}

// ProgressSink receives progress events
type ProgressSink interface {
	OnProgress(ctx context.Context, event ProgressEvent)
	Info(message string)
	Error(message string)
}

// NopProgress is a no-op implementation of ProgressSink
type NopProgress struct{}

func (NopProgress) OnProgress(context.Context, ProgressEvent) {}
func (NopProgress) Info(string)                               {}
func (NopProgress) Error(string)                              {}

// NopMetrics discards all observations
type NopMetrics struct{}

func (NopMetrics) ObserveResolution(string, models.ProposalStatus, time.Duration) {}
func (NopMetrics) ObserveError(string, error)                                     {}
func (NopMetrics) ObserveCache(bool)                                              {}
