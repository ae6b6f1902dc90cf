package file

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/voteagora/agora-tally/internal/domain"
	"github.com/voteagora/agora-tally/internal/domain/models"
)

// number accepts a JSON string or a bare JSON number. Token weights do not
// fit in a float64, so they are kept as text until parsed into a big.Int.
type number string

func (n *number) UnmarshalJSON(b []byte) error {
	if bytes.HasPrefix(b, []byte(`"`)) {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*n = number(s)
		return nil
	}
	if string(b) == "null" {
		*n = ""
		return nil
	}
	*n = number(b)
	return nil
}

type markerDTO struct {
	Block           uint64 `yaml:"block" json:"block"`
	TxHash          string `yaml:"tx_hash" json:"txHash"`
	AttestationHash string `yaml:"attestation_hash" json:"attestationHash"`
	Timestamp       int64  `yaml:"timestamp" json:"timestamp"`
}

type optionDTO struct {
	Description string `yaml:"description" json:"description"`
	Budget      number `yaml:"budget" json:"budget"`
}

type approvalDTO struct {
	Options       []optionDTO `yaml:"options" json:"options"`
	Criteria      string      `yaml:"criteria" json:"criteria"`
	CriteriaValue number      `yaml:"criteria_value" json:"criteriaValue"`
	MaxApprovals  int         `yaml:"max_approvals" json:"maxApprovals"`
	BudgetToken   string      `yaml:"budget_token" json:"budgetToken"`
	BudgetCap     number      `yaml:"budget_cap" json:"budgetCap"`
}

type proposalDTO struct {
	ID          number `yaml:"id" json:"id"`
	Proposer    string `yaml:"proposer" json:"proposer"`
	Type        string `yaml:"type" json:"type"`
	Description string `yaml:"description" json:"description"`

	CreatedBlock   *uint64 `yaml:"created_block" json:"createdBlock"`
	StartBlock     *uint64 `yaml:"start_block" json:"startBlock"`
	EndBlock       *uint64 `yaml:"end_block" json:"endBlock"`
	StartTimestamp *int64  `yaml:"start_timestamp" json:"startTimestamp"`
	EndTimestamp   *int64  `yaml:"end_timestamp" json:"endTimestamp"`

	Cancelled *markerDTO `yaml:"cancelled" json:"cancelled"`
	Queued    *markerDTO `yaml:"queued" json:"queued"`
	Executed  *markerDTO `yaml:"executed" json:"executed"`

	Quorum             number       `yaml:"quorum" json:"quorum"`
	ApprovalThreshold  number       `yaml:"approval_threshold" json:"approvalThreshold"`
	CalculationOptions int          `yaml:"calculation_options" json:"calculationOptions"`
	Approval           *approvalDTO `yaml:"approval" json:"approval"`
}

type voteDTO struct {
	ProposalID number `yaml:"proposal_id" json:"proposalId"`
	Voter      string `yaml:"voter" json:"voter"`
	Support    number `yaml:"support" json:"support"`
	Weight     number `yaml:"weight" json:"weight"`
	Reason     string `yaml:"reason" json:"reason"`
	Params     []int  `yaml:"params" json:"params"`
	Block      uint64 `yaml:"block" json:"block"`
	Timestamp  int64  `yaml:"timestamp" json:"timestamp"`
	Source     string `yaml:"source" json:"source"`
}

type bundleDTO struct {
	Tenant        string        `yaml:"tenant" json:"tenant"`
	VotableSupply number        `yaml:"votable_supply" json:"votableSupply"`
	SupplyBlock   uint64        `yaml:"supply_block" json:"supplyBlock"`
	Proposals     []proposalDTO `yaml:"proposals" json:"proposals"`
	Votes         []voteDTO     `yaml:"votes" json:"votes"`
}

// BundleReader loads proposal bundles from YAML or JSON files
type BundleReader struct{}

// NewBundleReader creates a bundle reader
func NewBundleReader() *BundleReader {
	return &BundleReader{}
}

// LoadBundle reads a bundle file. The format is chosen by extension; .yaml
// and .yml are YAML, everything else is JSON.
func (r *BundleReader) LoadBundle(_ context.Context, path string) (*models.Bundle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read bundle: %w", err)
	}

	var dto bundleDTO
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &dto)
	default:
		err = json.Unmarshal(data, &dto)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse bundle %s: %w", path, err)
	}
	return dto.toModel()
}

func (d *bundleDTO) toModel() (*models.Bundle, error) {
	b := &models.Bundle{
		Tenant:        d.Tenant,
		VotableSupply: string(d.VotableSupply),
		SupplyBlock:   d.SupplyBlock,
	}
	if b.VotableSupply != "" {
		if _, err := parseAmount("votable_supply", d.VotableSupply); err != nil {
			return nil, err
		}
	}

	for i := range d.Proposals {
		p, err := d.Proposals[i].toModel(fmt.Sprintf("proposals[%d]", i))
		if err != nil {
			return nil, err
		}
		b.Proposals = append(b.Proposals, p)
	}
	for i := range d.Votes {
		v, err := d.Votes[i].toModel(fmt.Sprintf("votes[%d]", i))
		if err != nil {
			return nil, err
		}
		b.Votes = append(b.Votes, v)
	}
	return b, nil
}

func (d *proposalDTO) toModel(field string) (*models.Proposal, error) {
	if d.ID == "" {
		return nil, domain.NewInputError(field+".id", "missing")
	}
	p := &models.Proposal{
		ID:                 string(d.ID),
		Proposer:           d.Proposer,
		Type:               models.ProposalType(strings.ToUpper(d.Type)),
		Description:        d.Description,
		CreatedBlock:       d.CreatedBlock,
		StartBlock:         d.StartBlock,
		EndBlock:           d.EndBlock,
		StartTimestamp:     d.StartTimestamp,
		EndTimestamp:       d.EndTimestamp,
		Cancelled:          d.Cancelled.toModel(),
		Queued:             d.Queued.toModel(),
		Executed:           d.Executed.toModel(),
		CalculationOptions: d.CalculationOptions,
	}
	if p.Type == "" {
		p.Type = models.ProposalTypeStandard
	}
	if !p.Type.Valid() {
		return nil, domain.NewInputError(field+".type", "unknown proposal type %q", d.Type)
	}

	var err error
	if p.Quorum, err = parseAmount(field+".quorum", d.Quorum); err != nil {
		return nil, err
	}
	if p.ApprovalThreshold, err = parseAmount(field+".approval_threshold", d.ApprovalThreshold); err != nil {
		return nil, err
	}
	if d.Approval != nil {
		if p.Approval, err = d.Approval.toModel(field + ".approval"); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func (d *approvalDTO) toModel(field string) (*models.ApprovalSettings, error) {
	s := &models.ApprovalSettings{
		Criteria:     models.ApprovalCriteria(strings.ToUpper(d.Criteria)),
		MaxApprovals: d.MaxApprovals,
		BudgetToken:  d.BudgetToken,
	}
	var err error
	if s.CriteriaValue, err = parseAmount(field+".criteria_value", d.CriteriaValue); err != nil {
		return nil, err
	}
	if s.BudgetCap, err = parseAmount(field+".budget_cap", d.BudgetCap); err != nil {
		return nil, err
	}
	for i, opt := range d.Options {
		budget, err := parseAmount(fmt.Sprintf("%s.options[%d].budget", field, i), opt.Budget)
		if err != nil {
			return nil, err
		}
		s.Options = append(s.Options, models.ApprovalOption{Description: opt.Description, Budget: budget})
	}
	return s, nil
}

func (d *markerDTO) toModel() *models.Marker {
	if d == nil {
		return nil
	}
	return &models.Marker{
		Block:           d.Block,
		TxHash:          d.TxHash,
		AttestationHash: d.AttestationHash,
		Timestamp:       d.Timestamp,
	}
}

func (d *voteDTO) toModel(field string) (*models.Vote, error) {
	support, err := models.ParseSupport(string(d.Support))
	if err != nil {
		return nil, domain.NewInputError(field+".support", "%v", err)
	}
	weight, err := parseAmount(field+".weight", d.Weight)
	if err != nil {
		return nil, err
	}
	if weight == nil {
		return nil, domain.NewInputError(field+".weight", "missing")
	}
	source := models.VoteSource(strings.ToLower(d.Source))
	if source == "" {
		source = models.VoteSourceOnchain
	}
	return &models.Vote{
		ProposalID: string(d.ProposalID),
		Voter:      strings.ToLower(d.Voter),
		Support:    support,
		Weight:     weight,
		Reason:     d.Reason,
		Params:     d.Params,
		Block:      d.Block,
		Timestamp:  d.Timestamp,
		Source:     source,
	}, nil
}

// parseAmount parses a non-negative integer amount; an empty value is nil
func parseAmount(field string, raw number) (*big.Int, error) {
	s := strings.TrimSpace(string(raw))
	if s == "" {
		return nil, nil
	}
	v, ok := new(big.Int).SetString(s, 10)
	if !ok || v.Sign() < 0 {
		return nil, domain.NewInputError(field, "%q is not a non-negative integer", s)
	}
	return v, nil
}
