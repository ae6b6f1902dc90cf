package sqlite

import (
	"encoding/json"
	"math/big"
	"time"

	"github.com/voteagora/agora-tally/internal/domain/models"
)

// proposalRow is one stored proposal, keyed by tenant and proposal id
type proposalRow struct {
	Tenant      string `gorm:"primaryKey;size:64"`
	ProposalID  string `gorm:"primaryKey;size:80"`
	Proposer    string `gorm:"index;size:64"`
	Type        string `gorm:"size:16"`
	Description string

	CreatedBlock   *uint64
	StartBlock     *uint64
	EndBlock       *uint64
	StartTimestamp *int64
	EndTimestamp   *int64

	Cancelled *models.Marker `gorm:"serializer:json"`
	Queued    *models.Marker `gorm:"serializer:json"`
	Executed  *models.Marker `gorm:"serializer:json"`

	Quorum             string
	ApprovalThreshold  string
	CalculationOptions int
	Approval           *models.ApprovalSettings `gorm:"serializer:json"`
	Payload            []byte
}

func (proposalRow) TableName() string { return "proposals" }

// voteRow is one stored ballot
type voteRow struct {
	ID         uint   `gorm:"primaryKey"`
	Tenant     string `gorm:"index:idx_vote_proposal;size:64"`
	ProposalID string `gorm:"index:idx_vote_proposal;size:80"`
	Voter      string `gorm:"size:64"`
	Support    uint8
	Weight     string
	Reason     string
	Params     []int `gorm:"serializer:json"`
	Block      uint64
	Timestamp  int64
	Source     string `gorm:"size:16"`
}

func (voteRow) TableName() string { return "votes" }

// supplyRow is a votable supply snapshot
type supplyRow struct {
	ID        uint   `gorm:"primaryKey"`
	Tenant    string `gorm:"index;size:64"`
	Block     uint64
	Supply    string
	CreatedAt time.Time
}

func (supplyRow) TableName() string { return "votable_supply" }

var migrateModels = []any{
	&proposalRow{},
	&voteRow{},
	&supplyRow{},
}

func bigString(v *big.Int) string {
	if v == nil {
		return ""
	}
	return v.String()
}

func parseBig(s string) *big.Int {
	if s == "" {
		return nil
	}
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil
	}
	return v
}

func toProposalRow(tenant string, p *models.Proposal) *proposalRow {
	return &proposalRow{
		Tenant:             tenant,
		ProposalID:         p.ID,
		Proposer:           p.Proposer,
		Type:               string(p.Type),
		Description:        p.Description,
		CreatedBlock:       p.CreatedBlock,
		StartBlock:         p.StartBlock,
		EndBlock:           p.EndBlock,
		StartTimestamp:     p.StartTimestamp,
		EndTimestamp:       p.EndTimestamp,
		Cancelled:          p.Cancelled,
		Queued:             p.Queued,
		Executed:           p.Executed,
		Quorum:             bigString(p.Quorum),
		ApprovalThreshold:  bigString(p.ApprovalThreshold),
		CalculationOptions: p.CalculationOptions,
		Approval:           p.Approval,
		Payload:            p.Payload,
	}
}

func (r *proposalRow) toModel() *models.Proposal {
	p := &models.Proposal{
		ID:                 r.ProposalID,
		Proposer:           r.Proposer,
		Type:               models.ProposalType(r.Type),
		Description:        r.Description,
		CreatedBlock:       r.CreatedBlock,
		StartBlock:         r.StartBlock,
		EndBlock:           r.EndBlock,
		StartTimestamp:     r.StartTimestamp,
		EndTimestamp:       r.EndTimestamp,
		Cancelled:          r.Cancelled,
		Queued:             r.Queued,
		Executed:           r.Executed,
		Quorum:             parseBig(r.Quorum),
		ApprovalThreshold:  parseBig(r.ApprovalThreshold),
		CalculationOptions: r.CalculationOptions,
		Approval:           r.Approval,
	}
	if len(r.Payload) > 0 {
		p.Payload = json.RawMessage(r.Payload)
	}
	return p
}

func toVoteRow(tenant string, v *models.Vote) *voteRow {
	return &voteRow{
		Tenant:     tenant,
		ProposalID: v.ProposalID,
		Voter:      v.Voter,
		Support:    uint8(v.Support),
		Weight:     bigString(v.Weight),
		Reason:     v.Reason,
		Params:     v.Params,
		Block:      v.Block,
		Timestamp:  v.Timestamp,
		Source:     string(v.Source),
	}
}

// toModel leaves a malformed weight nil so aggregation rejects the vote
func (r *voteRow) toModel() *models.Vote {
	return &models.Vote{
		ProposalID: r.ProposalID,
		Voter:      r.Voter,
		Support:    models.Support(r.Support),
		Weight:     parseBig(r.Weight),
		Reason:     r.Reason,
		Params:     r.Params,
		Block:      r.Block,
		Timestamp:  r.Timestamp,
		Source:     models.VoteSource(r.Source),
	}
}
