package models

import (
	"fmt"
	"math/big"
	"strings"
)

// Support is a vote direction using the governor encoding (0 against, 1 for, 2 abstain)
type Support uint8

const (
	SupportAgainst Support = 0
	SupportFor     Support = 1
	SupportAbstain Support = 2
)

func (s Support) String() string {
	switch s {
	case SupportAgainst:
		return "AGAINST"
	case SupportFor:
		return "FOR"
	case SupportAbstain:
		return "ABSTAIN"
	}
	return fmt.Sprintf("Support(%d)", uint8(s))
}

// Valid reports whether s is a known support value
func (s Support) Valid() bool {
	return s <= SupportAbstain
}

// ParseSupport accepts either the name or the numeric encoding
func ParseSupport(v string) (Support, error) {
	switch strings.ToUpper(strings.TrimSpace(v)) {
	case "AGAINST", "0":
		return SupportAgainst, nil
	case "FOR", "1":
		return SupportFor, nil
	case "ABSTAIN", "2":
		return SupportAbstain, nil
	}
	return 0, fmt.Errorf("unknown support value %q", v)
}

func (s Support) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Support) UnmarshalText(b []byte) error {
	parsed, err := ParseSupport(string(b))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// VoteSource tells where a vote was cast
type VoteSource string

const (
	VoteSourceOnchain  VoteSource = "onchain"
	VoteSourceOffchain VoteSource = "offchain"
)

// Vote is one address's vote on one proposal
type Vote struct {
	ProposalID string     `json:"proposalId"`
	Voter      string     `json:"voter"`
	Support    Support    `json:"support"`
	Weight     *big.Int   `json:"weight"`
	Reason     string     `json:"reason,omitempty"`
	Params     []int      `json:"params,omitempty"`
	Block      uint64     `json:"block,omitempty"`
	Timestamp  int64      `json:"timestamp,omitempty"`
	Source     VoteSource `json:"source"`
}
