package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/voteagora/agora-tally/internal/domain"
	"github.com/voteagora/agora-tally/internal/domain/config"
	"github.com/voteagora/agora-tally/internal/domain/models"
	"github.com/voteagora/agora-tally/internal/governance"
)

// ResolveProposalParams contains parameters for resolving one proposal
type ResolveProposalParams struct {
	// Tenant overrides the configured tenant when set
	Tenant     string
	ProposalID string
	NoCache    bool
}

// ResolveProposalResult contains the resolved proposal
type ResolveProposalResult struct {
	Tenant   *config.TenantConfig
	Proposal *models.Proposal
	View     *models.ResultView
	// Resolution is nil when the view was served from the cache
	Resolution *governance.Resolution
	Cached     bool
}

// ResolveProposal is the use case for resolving the status and result of a proposal
type ResolveProposal struct {
	config    *config.RuntimeConfig
	proposals ProposalRepository
	votes     VoteRepository
	resolver  ProposalResolver
	cache     ResultCache
	metrics   MetricsRecorder
	selector  ProposalSelector
	progress  ProgressSink
	logger    *slog.Logger
}

// NewResolveProposal creates a new ResolveProposal use case
func NewResolveProposal(
	cfg *config.RuntimeConfig,
	proposals ProposalRepository,
	votes VoteRepository,
	resolver ProposalResolver,
	cache ResultCache,
	metrics MetricsRecorder,
	selector ProposalSelector,
	progress ProgressSink,
	logger *slog.Logger,
) *ResolveProposal {
	if progress == nil {
		progress = NopProgress{}
	}
	if metrics == nil {
		metrics = NopMetrics{}
	}
	return &ResolveProposal{
		config:    cfg,
		proposals: proposals,
		votes:     votes,
		resolver:  resolver,
		cache:     cache,
		metrics:   metrics,
		selector:  selector,
		progress:  progress,
		logger:    logger,
	}
}

// Run resolves one proposal
func (uc *ResolveProposal) Run(ctx context.Context, params ResolveProposalParams) (*ResolveProposalResult, error) {
	tenant, err := selectTenant(uc.config, params.Tenant)
	if err != nil {
		return nil, err
	}

	proposalID := params.ProposalID
	if proposalID == "" {
		proposalID, err = uc.pickProposal(ctx, tenant)
		if err != nil {
			return nil, err
		}
	}

	key := CacheKey(tenant.Namespace, proposalID)
	if !params.NoCache && uc.cache != nil && uc.config.CacheTTL > 0 {
		view, hit, err := uc.cache.Get(ctx, key)
		if err != nil {
			uc.logger.Warn("result cache read failed", "key", key, "error", err)
		}
		uc.metrics.ObserveCache(hit)
		if hit {
			return &ResolveProposalResult{Tenant: tenant, View: view, Cached: true}, nil
		}
	}

	uc.progress.OnProgress(ctx, ProgressEvent{
		Stage:   "resolving",
		Message: fmt.Sprintf("Resolving proposal %s on %s", shortID(proposalID), tenant.Name),
		Spinner: true,
	})

	start := time.Now()
	proposal, res, err := uc.resolve(ctx, tenant, proposalID)
	if err != nil {
		uc.metrics.ObserveError(tenant.Namespace, err)
		uc.progress.Error(err.Error())
		return nil, err
	}
	uc.metrics.ObserveResolution(tenant.Namespace, res.View.Status, time.Since(start))
	uc.progress.OnProgress(ctx, ProgressEvent{Stage: "resolved", Message: res.View.StatusText})

	if uc.cache != nil && uc.config.CacheTTL > 0 {
		if err := uc.cache.Set(ctx, key, res.View, uc.config.CacheTTL); err != nil {
			uc.logger.Warn("result cache write failed", "key", key, "error", err)
		}
	}

	return &ResolveProposalResult{
		Tenant:     tenant,
		Proposal:   proposal,
		View:       res.View,
		Resolution: res,
	}, nil
}

// resolve loads the proposal and its votes concurrently and resolves them
func (uc *ResolveProposal) resolve(ctx context.Context, tenant *config.TenantConfig, id string) (*models.Proposal, *governance.Resolution, error) {
	var (
		proposal *models.Proposal
		votes    []*models.Vote
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := uc.proposals.GetProposal(gctx, tenant.Namespace, id)
		proposal = p
		return err
	})
	g.Go(func() error {
		v, err := uc.votes.ListVotes(gctx, tenant.Namespace, id)
		votes = v
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	res, err := uc.resolver.Resolve(ctx, tenant, proposal, votes)
	if err != nil {
		return nil, nil, fmt.Errorf("proposal %s: %w", shortID(id), err)
	}
	return proposal, res, nil
}

func (uc *ResolveProposal) pickProposal(ctx context.Context, tenant *config.TenantConfig) (string, error) {
	if uc.config.NonInteractive || uc.selector == nil {
		return "", domain.NewInputError("id", "proposal id is required in non-interactive mode")
	}
	proposals, err := uc.proposals.ListProposals(ctx, domain.ProposalFilter{Tenant: tenant.Namespace})
	if err != nil {
		return "", err
	}
	if len(proposals) == 0 {
		return "", &domain.NotFoundError{Kind: "proposals for tenant", ID: tenant.Namespace}
	}
	p, err := uc.selector.SelectProposal(ctx, proposals)
	if err != nil {
		return "", err
	}
	return p.ID, nil
}

// CacheKey is the result cache key of a proposal
func CacheKey(tenant, proposalID string) string {
	return "agora:result:" + tenant + ":" + proposalID
}

func selectTenant(cfg *config.RuntimeConfig, namespace string) (*config.TenantConfig, error) {
	if namespace != "" {
		return cfg.LookupTenant(namespace)
	}
	if cfg.Tenant == nil {
		return nil, domain.NewInputError("tenant", "no tenant selected, use --tenant or set tenant in agora.toml")
	}
	return cfg.Tenant, nil
}

// shortID abbreviates the long decimal ids used by most governors
func shortID(id string) string {
	if len(id) <= 16 {
		return id
	}
	return id[:8] + "…" + id[len(id)-6:]
}
