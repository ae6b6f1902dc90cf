package config

import (
	"math/big"
	"sort"
	"time"
)

// ParticipationMetric selects which vote weights count toward quorum
type ParticipationMetric string

const (
	ParticipationForAbstain ParticipationMetric = "for-abstain"
	ParticipationFor        ParticipationMetric = "for"
	ParticipationAll        ParticipationMetric = "all"
)

// Quorum strategy names understood by the governance quorum registry
const (
	QuorumStrategyCreatedBlock     = "created-block"
	QuorumStrategyQuorumVotes      = "quorum-votes"
	QuorumStrategyProposalID       = "proposal-id"
	QuorumStrategySupplyPercentage = "supply-percentage"
	QuorumStrategySnapshot         = "snapshot"
	QuorumStrategyDefault          = "default"
)

const (
	DefaultQuorumSupplyBps  = 3000
	DefaultVetoThresholdBps = 5000
	DefaultQueueExpiry      = 10 * 24 * time.Hour
)

// TenantConfig describes one DAO deployment
type TenantConfig struct {
	Namespace string `toml:"namespace" json:"namespace"`
	Name      string `toml:"name" json:"name"`

	ChainID  uint64 `toml:"chain_id" json:"chainId"`
	RPCURL   string `toml:"rpc_url" json:"rpcUrl,omitempty"`
	Governor string `toml:"governor" json:"governor"`

	QuorumStrategy  string `toml:"quorum_strategy" json:"quorumStrategy"`
	QuorumSupplyBps uint64 `toml:"quorum_supply_bps" json:"quorumSupplyBps"`
	// V6UpgradeBlock grandfathers proposals created before it to a zero quorum
	V6UpgradeBlock uint64 `toml:"v6_upgrade_block" json:"v6UpgradeBlock,omitempty"`

	UseTimestamps    bool                `toml:"use_timestamps" json:"useTimestamps"`
	Participation    ParticipationMetric `toml:"participation" json:"participation"`
	VetoThresholdBps uint64              `toml:"veto_threshold_bps" json:"vetoThresholdBps"`
	QueueExpiry      time.Duration       `toml:"queue_expiry" json:"queueExpiry"`

	// VotableSupply is a static fallback used when the store has no supply snapshot
	VotableSupply string `toml:"votable_supply" json:"votableSupply,omitempty"`
	TokenDecimals int    `toml:"token_decimals" json:"tokenDecimals"`
}

// ApplyDefaults fills zero values with the built-in defaults
func (t *TenantConfig) ApplyDefaults() {
	if t.QuorumStrategy == "" {
		t.QuorumStrategy = QuorumStrategyDefault
	}
	if t.QuorumSupplyBps == 0 {
		t.QuorumSupplyBps = DefaultQuorumSupplyBps
	}
	if t.Participation == "" {
		t.Participation = ParticipationForAbstain
	}
	if t.VetoThresholdBps == 0 {
		t.VetoThresholdBps = DefaultVetoThresholdBps
	}
	if t.QueueExpiry == 0 {
		t.QueueExpiry = DefaultQueueExpiry
	}
	if t.TokenDecimals == 0 {
		t.TokenDecimals = 18
	}
	if t.Name == "" {
		t.Name = t.Namespace
	}
}

// StaticVotableSupply parses VotableSupply, returning nil when unset or malformed
func (t *TenantConfig) StaticVotableSupply() *big.Int {
	if t.VotableSupply == "" {
		return nil
	}
	v, ok := new(big.Int).SetString(t.VotableSupply, 10)
	if !ok {
		return nil
	}
	return v
}

// DefaultTenants returns the built-in tenant table
func DefaultTenants() map[string]*TenantConfig {
	tenants := map[string]*TenantConfig{
		"ens": {
			Namespace:      "ens",
			Name:           "ENS",
			ChainID:        1,
			Governor:       "0x323A76393544d5ecca80cd6ef2A560C6a395b7E3",
			QuorumStrategy: QuorumStrategyCreatedBlock,
		},
		"uniswap": {
			Namespace:      "uniswap",
			Name:           "Uniswap",
			ChainID:        1,
			Governor:       "0x408ED6354d4973f66138C91495F2f2FCbd8724C3",
			QuorumStrategy: QuorumStrategyQuorumVotes,
			Participation:  ParticipationFor,
		},
		"optimism": {
			Namespace:      "optimism",
			Name:           "Optimism",
			ChainID:        10,
			Governor:       "0xcDF27F107725988f2261Ce2256bDfCdE8B382B10",
			QuorumStrategy: QuorumStrategyProposalID,
		},
		"scroll": {
			Namespace:      "scroll",
			Name:           "Scroll",
			ChainID:        534352,
			QuorumStrategy: QuorumStrategySupplyPercentage,
			Participation:  ParticipationAll,
			UseTimestamps:  true,
		},
	}
	for _, t := range tenants {
		t.ApplyDefaults()
	}
	return tenants
}

// SortedNamespaces returns the tenant namespaces in lexical order
func SortedNamespaces(tenants map[string]*TenantConfig) []string {
	names := make([]string, 0, len(tenants))
	for name := range tenants {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
