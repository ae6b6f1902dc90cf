package governance

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/voteagora/agora-tally/internal/domain"
	"github.com/voteagora/agora-tally/internal/domain/config"
	"github.com/voteagora/agora-tally/internal/domain/models"
)

// Resolution is the full result of resolving one proposal
type Resolution struct {
	View    *models.ResultView
	Tally   *models.Tally
	Outcome *Outcome
	Head    Block
}

// Resolver combines quorum resolution, aggregation, status evaluation and
// formatting. It holds no per-proposal state and is safe for concurrent use.
type Resolver struct {
	quorum *QuorumRegistry
	chains ChainProvider
	supply SupplyReader
	logger *slog.Logger
}

// NewResolver creates a resolver
func NewResolver(quorum *QuorumRegistry, chains ChainProvider, supply SupplyReader, logger *slog.Logger) *Resolver {
	return &Resolver{
		quorum: quorum,
		chains: chains,
		supply: supply,
		logger: logger,
	}
}

// Resolve turns a proposal and its complete vote set into a result view.
func (r *Resolver) Resolve(ctx context.Context, tenant *config.TenantConfig, proposal *models.Proposal, votes []*models.Vote) (*Resolution, error) {
	if tenant == nil {
		return nil, domain.NewInputError("tenant", "missing")
	}
	if proposal == nil {
		return nil, domain.NewInputError("proposal", "missing")
	}

	tally, err := Aggregate(proposal, votes)
	if err != nil {
		return nil, err
	}

	chain := sync.OnceValues(func() (GovernorReader, error) {
		return r.chains.Governor(ctx, tenant)
	})
	supply := sync.OnceValues(func() (*big.Int, error) {
		return r.votableSupply(ctx, tenant)
	})

	var (
		quorum    *big.Int
		votable   *big.Int
		head      *Block
		queuedAt  *Block
		needQueue = proposal.Queued != nil && proposal.Queued.Timestamp == 0 &&
			proposal.Queued.Block > 0 && proposal.Executed == nil
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		q, err := r.quorum.Resolve(gctx, QuorumRequest{
			Proposal: proposal,
			Tenant:   tenant,
			Chain:    chain,
			Supply:   supply,
		})
		if err != nil {
			return fmt.Errorf("resolve quorum: %w", err)
		}
		quorum = q
		return nil
	})
	g.Go(func() error {
		s, err := supply()
		if err == nil {
			votable = s
			return nil
		}
		// Only the veto rule needs supply here; quorum strategies that use it
		// read the same memoized value and fail on their own.
		if proposal.Type == models.ProposalTypeOptimistic && !proposal.IsCancelled() {
			return fmt.Errorf("votable supply: %w", err)
		}
		r.logger.Warn("votable supply unavailable",
			"tenant", tenant.Namespace,
			"proposal", proposal.ID,
			"error", err,
		)
		return nil
	})
	g.Go(func() error {
		c, err := chain()
		if err != nil {
			return err
		}
		b, err := c.GetBlock(gctx, nil)
		if err != nil {
			return domain.NewUpstreamReadError("read latest block", err)
		}
		head = b
		return nil
	})
	if needQueue {
		g.Go(func() error {
			c, err := chain()
			if err != nil {
				return err
			}
			b, err := c.GetBlock(gctx, new(big.Int).SetUint64(proposal.Queued.Block))
			if err != nil {
				return domain.NewUpstreamReadError("read queue block", err)
			}
			queuedAt = b
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	evaluated := proposal
	if queuedAt != nil {
		// Work on a copy; the caller's row is never mutated.
		cp := *proposal
		marker := *proposal.Queued
		marker.Timestamp = queuedAt.Timestamp
		cp.Queued = &marker
		evaluated = &cp
	}

	outcome, err := Evaluate(Input{
		Tenant:        tenant,
		Proposal:      evaluated,
		Tally:         tally,
		Quorum:        quorum,
		VotableSupply: votable,
		Now:           *head,
	})
	if err != nil {
		return nil, err
	}

	view, err := Format(tenant.Namespace, proposal, tally, outcome, votable)
	if err != nil {
		return nil, err
	}

	r.logger.Debug("proposal resolved",
		"tenant", tenant.Namespace,
		"proposal", proposal.ID,
		"status", outcome.Status,
		"head", head.Number,
	)

	return &Resolution{View: view, Tally: tally, Outcome: outcome, Head: *head}, nil
}

func (r *Resolver) votableSupply(ctx context.Context, tenant *config.TenantConfig) (*big.Int, error) {
	raw, err := r.supply.CurrentVotableSupply(ctx, tenant)
	if err != nil {
		return nil, domain.NewUpstreamReadError("read votable supply", err)
	}
	v, ok := new(big.Int).SetString(raw, 10)
	if !ok || v.Sign() < 0 {
		return nil, domain.NewUpstreamReadError("read votable supply", fmt.Errorf("malformed supply %q", raw))
	}
	return v, nil
}
