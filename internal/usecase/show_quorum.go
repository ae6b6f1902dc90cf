package usecase

import (
	"context"
	"fmt"
	"math/big"
	"sync"

	"github.com/voteagora/agora-tally/internal/domain"
	"github.com/voteagora/agora-tally/internal/domain/config"
	"github.com/voteagora/agora-tally/internal/governance"
)

// ShowQuorumParams contains parameters for inspecting a proposal's quorum
type ShowQuorumParams struct {
	Tenant     string
	ProposalID string
}

// QuorumInfo describes how the quorum of a proposal was derived
type QuorumInfo struct {
	Tenant        *config.TenantConfig
	ProposalID    string
	Strategy      string
	Quorum        *big.Int // nil when the proposal has no quorum
	VotableSupply *big.Int
	// SupplyBps is Quorum as a share of the votable supply
	SupplyBps *big.Int
}

// ShowQuorum is the use case for inspecting quorum resolution on its own
type ShowQuorum struct {
	config    *config.RuntimeConfig
	proposals ProposalRepository
	quorum    *governance.QuorumRegistry
	chains    governance.ChainProvider
	supply    governance.SupplyReader
}

// NewShowQuorum creates a new ShowQuorum use case
func NewShowQuorum(
	cfg *config.RuntimeConfig,
	proposals ProposalRepository,
	quorum *governance.QuorumRegistry,
	chains governance.ChainProvider,
	supply governance.SupplyReader,
) *ShowQuorum {
	return &ShowQuorum{
		config:    cfg,
		proposals: proposals,
		quorum:    quorum,
		chains:    chains,
		supply:    supply,
	}
}

// Run resolves the quorum of one proposal
func (uc *ShowQuorum) Run(ctx context.Context, params ShowQuorumParams) (*QuorumInfo, error) {
	tenant, err := selectTenant(uc.config, params.Tenant)
	if err != nil {
		return nil, err
	}
	if params.ProposalID == "" {
		return nil, domain.NewInputError("id", "proposal id is required")
	}
	proposal, err := uc.proposals.GetProposal(ctx, tenant.Namespace, params.ProposalID)
	if err != nil {
		return nil, err
	}

	supply := sync.OnceValues(func() (*big.Int, error) {
		raw, err := uc.supply.CurrentVotableSupply(ctx, tenant)
		if err != nil {
			return nil, domain.NewUpstreamReadError("read votable supply", err)
		}
		v, ok := new(big.Int).SetString(raw, 10)
		if !ok {
			return nil, domain.NewUpstreamReadError("read votable supply", fmt.Errorf("malformed supply %q", raw))
		}
		return v, nil
	})

	q, err := uc.quorum.Resolve(ctx, governance.QuorumRequest{
		Proposal: proposal,
		Tenant:   tenant,
		Chain: func() (governance.GovernorReader, error) {
			return uc.chains.Governor(ctx, tenant)
		},
		Supply: supply,
	})
	if err != nil {
		return nil, fmt.Errorf("resolve quorum: %w", err)
	}

	info := &QuorumInfo{
		Tenant:     tenant,
		ProposalID: proposal.ID,
		Strategy:   tenant.QuorumStrategy,
		Quorum:     q,
	}
	// Supply is informational here; a missing snapshot does not fail the command.
	if s, err := supply(); err == nil {
		info.VotableSupply = s
		if q != nil {
			info.SupplyBps = governance.Bps(q, s)
		}
	}
	return info, nil
}
