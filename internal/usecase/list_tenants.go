package usecase

import (
	"context"

	"github.com/samber/lo"

	"github.com/voteagora/agora-tally/internal/domain/config"
)

// ListTenantsResult contains the configured tenants in namespace order
type ListTenantsResult struct {
	Tenants []*config.TenantConfig
	Current string
	Source  string
}

// ListTenants is the use case for listing configured tenants
type ListTenants struct {
	config *config.RuntimeConfig
}

// NewListTenants creates a new ListTenants use case
func NewListTenants(cfg *config.RuntimeConfig) *ListTenants {
	return &ListTenants{config: cfg}
}

// Run returns every configured tenant
func (uc *ListTenants) Run(_ context.Context) (*ListTenantsResult, error) {
	result := &ListTenantsResult{Source: uc.config.ConfigSource}
	if uc.config.Tenant != nil {
		result.Current = uc.config.Tenant.Namespace
	}
	result.Tenants = lo.Map(config.SortedNamespaces(uc.config.Tenants), func(ns string, _ int) *config.TenantConfig {
		return uc.config.Tenants[ns]
	})
	return result, nil
}
