package governance

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"
	"sort"
	"strings"
	"sync"

	"github.com/voteagora/agora-tally/internal/domain"
	"github.com/voteagora/agora-tally/internal/domain/config"
	"github.com/voteagora/agora-tally/internal/domain/models"
)

// Block is the subset of a chain header the core needs
type Block struct {
	Number    uint64
	Timestamp int64
}

// GovernorReader reads quorum and block data from a tenant's governor contract
type GovernorReader interface {
	// Quorum calls quorum(uint256) with a block number or a proposal id
	Quorum(ctx context.Context, blockOrProposalID *big.Int) (*big.Int, error)
	QuorumVotes(ctx context.Context) (*big.Int, error)
	// GetBlock returns the header at number, or the latest header when number is nil
	GetBlock(ctx context.Context, number *big.Int) (*Block, error)
}

// ChainProvider hands out a GovernorReader for a tenant
type ChainProvider interface {
	Governor(ctx context.Context, tenant *config.TenantConfig) (GovernorReader, error)
}

// SupplyReader returns the current votable supply as a decimal string
type SupplyReader interface {
	CurrentVotableSupply(ctx context.Context, tenant *config.TenantConfig) (string, error)
}

// QuorumRequest carries everything a quorum strategy may consult
type QuorumRequest struct {
	Proposal *models.Proposal
	Tenant   *config.TenantConfig
	Chain    func() (GovernorReader, error)
	Supply   func() (*big.Int, error)
}

// QuorumStrategy resolves the quorum of a proposal. A nil quorum means
// the proposal has no quorum requirement.
type QuorumStrategy func(ctx context.Context, req QuorumRequest) (*big.Int, error)

// QuorumRegistry dispatches quorum resolution by the tenant's strategy name
type QuorumRegistry struct {
	mu         sync.RWMutex
	strategies map[string]QuorumStrategy
	logger     *slog.Logger
}

// NewQuorumRegistry creates a registry holding the built-in strategies
func NewQuorumRegistry(logger *slog.Logger) *QuorumRegistry {
	r := &QuorumRegistry{
		strategies: make(map[string]QuorumStrategy),
		logger:     logger,
	}
	r.Register(config.QuorumStrategyCreatedBlock, quorumAtCreatedBlock)
	r.Register(config.QuorumStrategyQuorumVotes, quorumVotes)
	r.Register(config.QuorumStrategyProposalID, quorumByProposalIDWithUpgrade)
	r.Register(config.QuorumStrategySupplyPercentage, quorumFromSupply)
	r.Register(config.QuorumStrategySnapshot, quorumFromSnapshot)
	r.Register(config.QuorumStrategyDefault, r.quorumWithSupplyFallback)
	return r
}

// Register adds or replaces a strategy
func (r *QuorumRegistry) Register(name string, strategy QuorumStrategy) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.strategies[name] = strategy
}

// Names returns the registered strategy names
func (r *QuorumRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.strategies))
	for name := range r.strategies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolve runs the strategy configured for req.Tenant
func (r *QuorumRegistry) Resolve(ctx context.Context, req QuorumRequest) (*big.Int, error) {
	if req.Tenant == nil || req.Proposal == nil {
		return nil, domain.NewInputError("quorum", "tenant and proposal are required")
	}
	name := req.Tenant.QuorumStrategy
	if name == "" {
		name = config.QuorumStrategyDefault
	}

	r.mu.RLock()
	strategy, ok := r.strategies[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("tenant %s: unknown quorum strategy %q", req.Tenant.Namespace, name)
	}

	return strategy(ctx, req)
}

// quorumAtCreatedBlock reads quorum at the proposal's creation block
func quorumAtCreatedBlock(ctx context.Context, req QuorumRequest) (*big.Int, error) {
	if req.Proposal.CreatedBlock == nil {
		return nil, nil
	}
	chain, err := req.Chain()
	if err != nil {
		return nil, err
	}
	q, err := chain.Quorum(ctx, new(big.Int).SetUint64(*req.Proposal.CreatedBlock))
	if err != nil {
		return nil, domain.NewUpstreamReadError("read quorum at created block", err)
	}
	return q, nil
}

// quorumVotes reads the governor-wide quorumVotes value
func quorumVotes(ctx context.Context, req QuorumRequest) (*big.Int, error) {
	chain, err := req.Chain()
	if err != nil {
		return nil, err
	}
	q, err := chain.QuorumVotes(ctx)
	if err != nil {
		return nil, domain.NewUpstreamReadError("read quorumVotes", err)
	}
	return q, nil
}

// quorumByProposalIDWithUpgrade grandfathers proposals created before the
// v6 governor upgrade to a zero quorum, then reads quorum by proposal id and
// falls back to a share of the votable supply when the contract returns zero.
func quorumByProposalIDWithUpgrade(ctx context.Context, req QuorumRequest) (*big.Int, error) {
	if upgrade := req.Tenant.V6UpgradeBlock; upgrade > 0 {
		if created := creationBlock(req.Proposal); created != nil && *created < upgrade {
			return new(big.Int), nil
		}
	}

	id, err := ParseProposalID(req.Proposal.ID)
	if err != nil {
		return nil, err
	}
	chain, err := req.Chain()
	if err != nil {
		return nil, err
	}
	q, err := chain.Quorum(ctx, id)
	if err != nil {
		return nil, domain.NewUpstreamReadError("read quorum by proposal id", err)
	}
	if q != nil && q.Sign() > 0 {
		return q, nil
	}
	return quorumFromSupply(ctx, req)
}

// quorumFromSupply is a fixed share of the current votable supply
func quorumFromSupply(_ context.Context, req QuorumRequest) (*big.Int, error) {
	supply, err := req.Supply()
	if err != nil {
		return nil, err
	}
	return MulBps(supply, req.Tenant.QuorumSupplyBps), nil
}

// quorumFromSnapshot uses the value stored with the proposal row
func quorumFromSnapshot(_ context.Context, req QuorumRequest) (*big.Int, error) {
	if req.Proposal.Quorum == nil {
		return nil, nil
	}
	return new(big.Int).Set(req.Proposal.Quorum), nil
}

// quorumWithSupplyFallback reads quorum by proposal id. A failed read is
// absorbed and the votable supply is used instead, because quorum can be
// queried before the proposal's snapshot block exists. This conflates
// "no quorum" with "quorum unreadable"; keep it to the default branch.
func (r *QuorumRegistry) quorumWithSupplyFallback(ctx context.Context, req QuorumRequest) (*big.Int, error) {
	q, err := func() (*big.Int, error) {
		id, err := ParseProposalID(req.Proposal.ID)
		if err != nil {
			return nil, err
		}
		chain, err := req.Chain()
		if err != nil {
			return nil, err
		}
		return chain.Quorum(ctx, id)
	}()
	if err == nil && q != nil {
		return q, nil
	}

	r.logger.Warn("quorum read failed, using votable supply",
		"tenant", req.Tenant.Namespace,
		"proposal", req.Proposal.ID,
		"error", err,
	)
	return req.Supply()
}

func creationBlock(p *models.Proposal) *uint64 {
	if p.CreatedBlock != nil {
		return p.CreatedBlock
	}
	return p.StartBlock
}

// ParseProposalID parses a decimal or 0x-prefixed hex proposal id
func ParseProposalID(id string) (*big.Int, error) {
	raw, base := strings.TrimSpace(id), 10
	if strings.HasPrefix(raw, "0x") || strings.HasPrefix(raw, "0X") {
		raw, base = raw[2:], 16
	}
	v, ok := new(big.Int).SetString(raw, base)
	if !ok || v.Sign() < 0 {
		return nil, domain.NewInputError("id", "proposal id %q is not an unsigned integer", id)
	}
	return v, nil
}
