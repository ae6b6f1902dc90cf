package config

import (
	"time"

	"github.com/voteagora/agora-tally/internal/domain"
)

// RuntimeConfig represents the complete runtime configuration
// This is injected into use cases and contains all resolved settings
type RuntimeConfig struct {
	// Core settings
	ProjectRoot string
	DataDir     string

	// Tenant selected for this invocation
	Tenant  *TenantConfig
	Tenants map[string]*TenantConfig

	// Execution settings
	Debug          bool
	NonInteractive bool
	JSON           bool // Output in JSON format
	Headless       bool // Long-running server: no prompts, no terminal progress
	Timeout        time.Duration

	// Resolution settings
	Workers  int
	CacheTTL time.Duration
	RedisURL string // empty selects the in-process cache

	// API settings
	ListenAddr string

	// Config source tracking
	ConfigSource string // "agora.toml" or "defaults"
}

// LookupTenant returns the configured tenant for namespace
func (c *RuntimeConfig) LookupTenant(namespace string) (*TenantConfig, error) {
	if t, ok := c.Tenants[namespace]; ok {
		return t, nil
	}
	return nil, domain.UnknownTenantErr{Namespace: namespace, Known: SortedNamespaces(c.Tenants)}
}
