package models

import "math/big"

// OptionTally is the summed weight for one approval option
type OptionTally struct {
	Index       int
	Description string
	Weight      *big.Int
}

// Tally is the aggregated vote weight of a proposal
type Tally struct {
	For     *big.Int
	Against *big.Int
	Abstain *big.Int

	// Options is in declaration order; empty for non-approval proposals
	Options []OptionTally

	Voters   int
	Onchain  *big.Int
	Offchain *big.Int
}

// NewTally returns a zeroed tally
func NewTally() *Tally {
	return &Tally{
		For:      new(big.Int),
		Against:  new(big.Int),
		Abstain:  new(big.Int),
		Onchain:  new(big.Int),
		Offchain: new(big.Int),
	}
}

// Total returns FOR + AGAINST + ABSTAIN
func (t *Tally) Total() *big.Int {
	total := new(big.Int).Add(t.For, t.Against)
	return total.Add(total, t.Abstain)
}

// WeightView is a vote total with its display percentage
type WeightView struct {
	Weight  string  `json:"weight"`
	Percent float64 `json:"percent"`
}

// OptionView is one approval option in the external result
type OptionView struct {
	Index       int     `json:"index"`
	Description string  `json:"description"`
	Weight      string  `json:"weight"`
	Percent     float64 `json:"percent"`
	Rank        int     `json:"rank"`
	Approved    bool    `json:"approved"`
	Budget      string  `json:"budget,omitempty"`
}

// ResultView is the finalized, display-ready result of one proposal
type ResultView struct {
	ProposalID string         `json:"proposalId"`
	Tenant     string         `json:"tenant"`
	Type       ProposalType   `json:"type"`
	Status     ProposalStatus `json:"status"`
	StatusText string         `json:"statusText"`

	For     WeightView `json:"for"`
	Against WeightView `json:"against"`
	Abstain WeightView `json:"abstain"`

	Options []OptionView `json:"options,omitempty"`

	// Quorum is empty when the proposal has no applicable quorum
	Quorum        string `json:"quorum,omitempty"`
	QuorumMet     bool   `json:"quorumMet"`
	Participation string `json:"participation"`
	ThresholdMet  *bool  `json:"thresholdMet,omitempty"`
	VotableSupply string `json:"votableSupply,omitempty"`
	Voters        int    `json:"voters"`

	StartBlock     *uint64 `json:"startBlock,omitempty"`
	EndBlock       *uint64 `json:"endBlock,omitempty"`
	StartTimestamp *int64  `json:"startTimestamp,omitempty"`
	EndTimestamp   *int64  `json:"endTimestamp,omitempty"`
}
