package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/alitto/pond/v2"

	"github.com/voteagora/agora-tally/internal/domain"
	"github.com/voteagora/agora-tally/internal/domain/config"
	"github.com/voteagora/agora-tally/internal/domain/models"
)

// ListProposalsParams contains parameters for listing resolved proposals
type ListProposalsParams struct {
	Tenant string
	Status models.ProposalStatus
	Type   models.ProposalType
	// Limit caps the number of results, counted after the status filter
	Limit int
}

// ProposalFailure records a proposal that could not be resolved
type ProposalFailure struct {
	ProposalID string
	Err        error
}

// ListProposalsResult contains the resolved proposals in store order
type ListProposalsResult struct {
	Tenant   *config.TenantConfig
	Results  []*models.ResultView
	Failures []ProposalFailure
	Summary  StatusSummary
}

// StatusSummary counts results per status
type StatusSummary struct {
	Total    int
	ByStatus map[models.ProposalStatus]int
}

// ListProposals resolves every stored proposal of a tenant on a worker pool
type ListProposals struct {
	config    *config.RuntimeConfig
	proposals ProposalRepository
	votes     VoteRepository
	resolver  ProposalResolver
	metrics   MetricsRecorder
	progress  ProgressSink
	logger    *slog.Logger
}

// NewListProposals creates a new ListProposals use case
func NewListProposals(
	cfg *config.RuntimeConfig,
	proposals ProposalRepository,
	votes VoteRepository,
	resolver ProposalResolver,
	metrics MetricsRecorder,
	progress ProgressSink,
	logger *slog.Logger,
) *ListProposals {
	if progress == nil {
		progress = NopProgress{}
	}
	if metrics == nil {
		metrics = NopMetrics{}
	}
	return &ListProposals{
		config:    cfg,
		proposals: proposals,
		votes:     votes,
		resolver:  resolver,
		metrics:   metrics,
		progress:  progress,
		logger:    logger,
	}
}

// Run lists and resolves proposals, then applies the status filter
func (uc *ListProposals) Run(ctx context.Context, params ListProposalsParams) (*ListProposalsResult, error) {
	tenant, err := selectTenant(uc.config, params.Tenant)
	if err != nil {
		return nil, err
	}

	// Status is derived, so with a status filter the limit can only be
	// applied once every proposal is resolved.
	storeLimit := params.Limit
	if params.Status != "" {
		storeLimit = 0
	}
	proposals, err := uc.proposals.ListProposals(ctx, domain.ProposalFilter{
		Tenant: tenant.Namespace,
		Type:   params.Type,
		Limit:  storeLimit,
	})
	if err != nil {
		return nil, err
	}

	views := make([]*models.ResultView, len(proposals))
	failures := make([]error, len(proposals))

	workers := uc.config.Workers
	if workers <= 0 {
		workers = 4
	}
	pool := pond.NewPool(workers, pond.WithQueueSize(len(proposals)+1))
	defer pool.StopAndWait()
	group := pool.NewGroupContext(ctx)
	groupCtx := group.Context()

	var (
		mu   sync.Mutex
		done int
	)
	for i, p := range proposals {
		group.Submit(func() {
			if err := groupCtx.Err(); err != nil {
				failures[i] = err
				return
			}
			start := time.Now()
			view, err := uc.resolveOne(groupCtx, tenant, p)
			if err != nil {
				uc.metrics.ObserveError(tenant.Namespace, err)
				failures[i] = err
			} else {
				uc.metrics.ObserveResolution(tenant.Namespace, view.Status, time.Since(start))
				views[i] = view
			}

			mu.Lock()
			done++
			uc.progress.OnProgress(groupCtx, ProgressEvent{
				Stage:   "resolving",
				Current: done,
				Total:   len(proposals),
				Message: fmt.Sprintf("Resolved %d/%d proposals", done, len(proposals)),
				Spinner: true,
			})
			mu.Unlock()
		})
	}
	if err := group.Wait(); err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, pond.ErrGroupStopped) {
		uc.logger.Warn("proposal resolution pool encountered error", "error", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := &ListProposalsResult{
		Tenant:  tenant,
		Summary: StatusSummary{ByStatus: make(map[models.ProposalStatus]int)},
	}
	filter := domain.ResultFilter{Status: params.Status}
	for i, view := range views {
		if params.Limit > 0 && len(result.Results) == params.Limit {
			break
		}
		if failures[i] != nil {
			result.Failures = append(result.Failures, ProposalFailure{ProposalID: proposals[i].ID, Err: failures[i]})
			continue
		}
		if !filter.Matches(view) {
			continue
		}
		result.Results = append(result.Results, view)
		result.Summary.Total++
		result.Summary.ByStatus[view.Status]++
	}

	uc.logger.Debug("proposals listed",
		"tenant", tenant.Namespace,
		"resolved", len(result.Results),
		"failed", len(result.Failures),
	)
	return result, nil
}

func (uc *ListProposals) resolveOne(ctx context.Context, tenant *config.TenantConfig, p *models.Proposal) (*models.ResultView, error) {
	votes, err := uc.votes.ListVotes(ctx, tenant.Namespace, p.ID)
	if err != nil {
		return nil, err
	}
	res, err := uc.resolver.Resolve(ctx, tenant, p, votes)
	if err != nil {
		return nil, err
	}
	return res.View, nil
}
