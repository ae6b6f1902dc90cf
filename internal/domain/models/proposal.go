package models

import (
	"encoding/json"
	"fmt"
	"math/big"
	"strings"
)

// ProposalType is the closed set of voting variants a proposal can use
type ProposalType string

const (
	ProposalTypeStandard   ProposalType = "STANDARD"
	ProposalTypeApproval   ProposalType = "APPROVAL"
	ProposalTypeOptimistic ProposalType = "OPTIMISTIC"
)

// Valid reports whether t is one of the known proposal types
func (t ProposalType) Valid() bool {
	switch t {
	case ProposalTypeStandard, ProposalTypeApproval, ProposalTypeOptimistic:
		return true
	}
	return false
}

// ProposalStatus is the derived lifecycle status of a proposal
type ProposalStatus string

const (
	ProposalStatusPending   ProposalStatus = "PENDING"
	ProposalStatusActive    ProposalStatus = "ACTIVE"
	ProposalStatusSucceeded ProposalStatus = "SUCCEEDED"
	ProposalStatusDefeated  ProposalStatus = "DEFEATED"
	ProposalStatusQueued    ProposalStatus = "QUEUED"
	ProposalStatusExecuted  ProposalStatus = "EXECUTED"
	ProposalStatusCancelled ProposalStatus = "CANCELLED"
	ProposalStatusExpired   ProposalStatus = "EXPIRED"
	ProposalStatusVetoed    ProposalStatus = "VETOED"
)

// Terminal reports whether no further transition is possible
func (s ProposalStatus) Terminal() bool {
	switch s {
	case ProposalStatusExecuted, ProposalStatusCancelled, ProposalStatusExpired,
		ProposalStatusVetoed, ProposalStatusDefeated:
		return true
	}
	return false
}

// Statuses lists every status in lifecycle order
var Statuses = []ProposalStatus{
	ProposalStatusPending,
	ProposalStatusActive,
	ProposalStatusSucceeded,
	ProposalStatusDefeated,
	ProposalStatusQueued,
	ProposalStatusExecuted,
	ProposalStatusExpired,
	ProposalStatusVetoed,
	ProposalStatusCancelled,
}

// ParseProposalStatus accepts a status name in any case. Empty input
// yields the empty status.
func ParseProposalStatus(v string) (ProposalStatus, error) {
	if v == "" {
		return "", nil
	}
	s := ProposalStatus(strings.ToUpper(strings.TrimSpace(v)))
	for _, known := range Statuses {
		if s == known {
			return s, nil
		}
	}
	return "", fmt.Errorf("unknown proposal status %q", v)
}

// ParseProposalType accepts a type name in any case. Empty input yields
// the empty type.
func ParseProposalType(v string) (ProposalType, error) {
	if v == "" {
		return "", nil
	}
	t := ProposalType(strings.ToUpper(strings.TrimSpace(v)))
	if !t.Valid() {
		return "", fmt.Errorf("unknown proposal type %q", v)
	}
	return t, nil
}

// ApprovalCriteria selects how approval options are chosen once voting ends
type ApprovalCriteria string

const (
	CriteriaThreshold  ApprovalCriteria = "THRESHOLD"
	CriteriaTopChoices ApprovalCriteria = "TOP_CHOICES"
)

// Marker records a lifecycle event (cancel, queue, execute) observed on chain
// or, for offchain proposals, through an attestation.
type Marker struct {
	Block           uint64 `json:"block,omitempty"`
	TxHash          string `json:"txHash,omitempty"`
	AttestationHash string `json:"attestationHash,omitempty"`
	// Timestamp is the unix time of the event; zero when unknown
	Timestamp int64 `json:"timestamp,omitempty"`
}

// ApprovalOption is one selectable option of an APPROVAL proposal
type ApprovalOption struct {
	Description string `json:"description"`
	// Budget is the amount of the budget token this option spends when approved
	Budget *big.Int `json:"budget,omitempty"`
}

// ApprovalSettings carries the decoded approval-module settings of a proposal
type ApprovalSettings struct {
	Options       []ApprovalOption `json:"options"`
	Criteria      ApprovalCriteria `json:"criteria"`
	CriteriaValue *big.Int         `json:"criteriaValue"`
	MaxApprovals  int              `json:"maxApprovals,omitempty"`
	BudgetToken   string           `json:"budgetToken,omitempty"`
	// BudgetCap of nil means no budget limit
	BudgetCap *big.Int `json:"budgetCap,omitempty"`
}

// Proposal is one indexed governance proposal. The core only reads it.
type Proposal struct {
	ID          string       `json:"id"`
	Proposer    string       `json:"proposer"`
	Type        ProposalType `json:"type"`
	Description string       `json:"description,omitempty"`

	// Timing: block based or timestamp based depending on the tenant
	CreatedBlock   *uint64 `json:"createdBlock,omitempty"`
	StartBlock     *uint64 `json:"startBlock,omitempty"`
	EndBlock       *uint64 `json:"endBlock,omitempty"`
	StartTimestamp *int64  `json:"startTimestamp,omitempty"`
	EndTimestamp   *int64  `json:"endTimestamp,omitempty"`

	Cancelled *Marker `json:"cancelled,omitempty"`
	Queued    *Marker `json:"queued,omitempty"`
	Executed  *Marker `json:"executed,omitempty"`

	// Quorum is a stored snapshot value, nil when not recorded
	Quorum *big.Int `json:"quorum,omitempty"`
	// ApprovalThreshold is in basis points of FOR / (FOR + AGAINST)
	ApprovalThreshold *big.Int `json:"approvalThreshold,omitempty"`
	// CalculationOptions of 1 counts only FOR weight toward quorum
	CalculationOptions int `json:"calculationOptions,omitempty"`

	Approval *ApprovalSettings `json:"approval,omitempty"`
	Payload  json.RawMessage   `json:"payload,omitempty"`
}

// IsCancelled reports whether a cancellation marker is present
func (p *Proposal) IsCancelled() bool {
	return p.Cancelled != nil
}

// HasBlockTiming reports whether both start and end blocks are populated
func (p *Proposal) HasBlockTiming() bool {
	return p.StartBlock != nil && p.EndBlock != nil
}

// HasTimestampTiming reports whether both start and end timestamps are populated
func (p *Proposal) HasTimestampTiming() bool {
	return p.StartTimestamp != nil && p.EndTimestamp != nil
}

// OptionCount returns the number of approval options, zero for other types
func (p *Proposal) OptionCount() int {
	if p.Approval == nil {
		return 0
	}
	return len(p.Approval.Options)
}
