package governance

import (
	"math/big"
	"time"

	"github.com/voteagora/agora-tally/internal/domain"
	"github.com/voteagora/agora-tally/internal/domain/config"
	"github.com/voteagora/agora-tally/internal/domain/models"
)

// Input is a consistent snapshot of everything the status machine consults
type Input struct {
	Tenant        *config.TenantConfig
	Proposal      *models.Proposal
	Tally         *models.Tally
	Quorum        *big.Int // nil: no quorum requirement
	VotableSupply *big.Int
	Now           Block
}

// Outcome is the derived status of a proposal plus the metrics behind it
type Outcome struct {
	Status        models.ProposalStatus
	Quorum        *big.Int
	QuorumMet     bool
	Participation *big.Int
	// ThresholdMet is nil when no approval threshold applies
	ThresholdMet *bool
	// Approved holds option indices in ranked order (APPROVAL only)
	Approved []int
	// BudgetSpent is the budget consumed by approved options (APPROVAL only)
	BudgetSpent *big.Int
	VetoLimit   *big.Int
}

type phase int

const (
	phasePending phase = iota
	phaseActive
	phaseEnded
)

// Evaluate classifies a proposal. Rules apply in precedence order:
// cancellation, timing, execution/queue markers, then the type-specific tally rules.
func Evaluate(in Input) (*Outcome, error) {
	if in.Tenant == nil {
		return nil, domain.NewInputError("tenant", "missing")
	}
	if in.Proposal == nil {
		return nil, domain.NewInputError("proposal", "missing")
	}
	if in.Tally == nil {
		return nil, domain.NewInputError("tally", "missing")
	}
	if !in.Proposal.Type.Valid() {
		return nil, domain.NewInputError("type", "unknown proposal type %q", in.Proposal.Type)
	}

	out := &Outcome{
		Quorum:        in.Quorum,
		Participation: participation(in.Tenant, in.Proposal, in.Tally),
	}
	out.QuorumMet = in.Quorum == nil || out.Participation.Cmp(in.Quorum) >= 0

	// Cancellation wins over everything, including settings the tally
	// rules would reject.
	if in.Proposal.IsCancelled() {
		out.Status = models.ProposalStatusCancelled
		if err := computeMetrics(in, out); err != nil {
			out.ThresholdMet, out.Approved, out.BudgetSpent = nil, nil, nil
		}
		return out, nil
	}

	if err := computeMetrics(in, out); err != nil {
		return nil, err
	}

	ph, err := timingPhase(in.Tenant, in.Proposal, in.Now)
	if err != nil {
		return nil, err
	}
	switch ph {
	case phasePending:
		out.Status = models.ProposalStatusPending
		return out, nil
	case phaseActive:
		out.Status = models.ProposalStatusActive
		return out, nil
	}

	if in.Proposal.Executed != nil {
		out.Status = models.ProposalStatusExecuted
		return out, nil
	}
	if q := in.Proposal.Queued; q != nil {
		out.Status = models.ProposalStatusQueued
		if queueExpired(in.Tenant, q, in.Now) {
			out.Status = models.ProposalStatusExpired
		}
		return out, nil
	}

	out.Status = endedStatus(in, out)
	return out, nil
}

// computeMetrics fills the type-specific metrics, independent of timing
func computeMetrics(in Input, out *Outcome) error {
	switch in.Proposal.Type {
	case models.ProposalTypeStandard:
		out.ThresholdMet = thresholdMet(in.Proposal.ApprovalThreshold, in.Tally)
	case models.ProposalTypeOptimistic:
		out.VetoLimit = MulBps(zeroIfNil(in.VotableSupply), in.Tenant.VetoThresholdBps)
	case models.ProposalTypeApproval:
		approved, spent, err := selectApproved(in.Proposal.Approval, in.Tally)
		if err != nil {
			return err
		}
		out.Approved = approved
		out.BudgetSpent = spent
	}
	return nil
}

func endedStatus(in Input, out *Outcome) models.ProposalStatus {
	switch in.Proposal.Type {
	case models.ProposalTypeOptimistic:
		// Optimistic proposals pass unless the AGAINST weight exceeds the veto limit.
		if zeroIfNil(in.VotableSupply).Sign() > 0 && in.Tally.Against.Cmp(out.VetoLimit) > 0 {
			return models.ProposalStatusVetoed
		}
		return models.ProposalStatusSucceeded

	case models.ProposalTypeApproval:
		if len(out.Approved) > 0 && out.QuorumMet {
			return models.ProposalStatusSucceeded
		}
		return models.ProposalStatusDefeated

	case models.ProposalTypeStandard:
		if in.Tally.For.Cmp(in.Tally.Against) > 0 && out.QuorumMet &&
			(out.ThresholdMet == nil || *out.ThresholdMet) {
			return models.ProposalStatusSucceeded
		}
		return models.ProposalStatusDefeated
	}
	panic("unreachable: proposal type validated in Evaluate")
}

// thresholdMet compares FOR / (FOR + AGAINST) against a basis-point threshold.
// No FOR and no AGAINST weight never meets the threshold.
func thresholdMet(threshold *big.Int, tally *models.Tally) *bool {
	if threshold == nil {
		return nil
	}
	met := false
	denom := new(big.Int).Add(tally.For, tally.Against)
	if denom.Sign() > 0 {
		lhs := new(big.Int).Mul(tally.For, bpsScale)
		rhs := new(big.Int).Mul(threshold, denom)
		met = lhs.Cmp(rhs) >= 0
	}
	return &met
}

// participation returns the weight counted toward quorum for the tenant
func participation(tenant *config.TenantConfig, p *models.Proposal, t *models.Tally) *big.Int {
	if p.CalculationOptions == 1 {
		return new(big.Int).Set(t.For)
	}
	switch tenant.Participation {
	case config.ParticipationFor:
		return new(big.Int).Set(t.For)
	case config.ParticipationAll:
		return t.Total()
	default:
		return new(big.Int).Add(t.For, t.Abstain)
	}
}

func timingPhase(tenant *config.TenantConfig, p *models.Proposal, now Block) (phase, error) {
	if tenant.UseTimestamps {
		if !p.HasTimestampTiming() {
			return 0, domain.NewInputError("timing", "proposal %s has no start/end timestamps", p.ID)
		}
		switch {
		case now.Timestamp < *p.StartTimestamp:
			return phasePending, nil
		case now.Timestamp <= *p.EndTimestamp:
			return phaseActive, nil
		}
		return phaseEnded, nil
	}

	if !p.HasBlockTiming() {
		return 0, domain.NewInputError("timing", "proposal %s has no start/end blocks", p.ID)
	}
	switch {
	case now.Number < *p.StartBlock:
		return phasePending, nil
	case now.Number <= *p.EndBlock:
		return phaseActive, nil
	}
	return phaseEnded, nil
}

// queueExpired reports whether the queue window elapsed. An unknown queue
// time never expires.
func queueExpired(tenant *config.TenantConfig, q *models.Marker, now Block) bool {
	if q.Timestamp == 0 || tenant.QueueExpiry <= 0 {
		return false
	}
	elapsed := time.Duration(now.Timestamp-q.Timestamp) * time.Second
	return elapsed > tenant.QueueExpiry
}
