package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/voteagora/agora-tally/internal/domain"
	"github.com/voteagora/agora-tally/internal/domain/config"
	"github.com/voteagora/agora-tally/internal/governance"
)

// ImportBundleParams contains parameters for importing a bundle file
type ImportBundleParams struct {
	Path string
	// Tenant is used when the bundle does not name one
	Tenant string
	DryRun bool
}

// ImportBundleResult summarizes an import
type ImportBundleResult struct {
	Tenant    string
	Proposals int
	Votes     int
	Supply    string
	DryRun    bool
}

// ImportBundle is the use case for loading proposals and votes into the store
type ImportBundle struct {
	config   *config.RuntimeConfig
	loader   BundleLoader
	store    BundleStore
	progress ProgressSink
	logger   *slog.Logger
}

// NewImportBundle creates a new ImportBundle use case
func NewImportBundle(cfg *config.RuntimeConfig, loader BundleLoader, store BundleStore, progress ProgressSink, logger *slog.Logger) *ImportBundle {
	if progress == nil {
		progress = NopProgress{}
	}
	return &ImportBundle{config: cfg, loader: loader, store: store, progress: progress, logger: logger}
}

// Run validates and stores a bundle. Every vote is aggregated against its
// proposal before anything is written, so a bundle the resolver would
// reject never reaches the store.
func (uc *ImportBundle) Run(ctx context.Context, params ImportBundleParams) (*ImportBundleResult, error) {
	uc.progress.OnProgress(ctx, ProgressEvent{Stage: "loading", Message: "Loading " + params.Path, Spinner: true})
	bundle, err := uc.loader.LoadBundle(ctx, params.Path)
	if err != nil {
		return nil, err
	}

	if bundle.Tenant == "" {
		tenant, err := selectTenant(uc.config, params.Tenant)
		if err != nil {
			return nil, err
		}
		bundle.Tenant = tenant.Namespace
	}
	if _, err := uc.config.LookupTenant(bundle.Tenant); err != nil {
		return nil, err
	}

	known := make(map[string]bool, len(bundle.Proposals))
	for _, p := range bundle.Proposals {
		if known[p.ID] {
			return nil, domain.NewInputError("proposals", "duplicate proposal id %s", p.ID)
		}
		known[p.ID] = true
		if _, err := governance.Aggregate(p, bundle.VotesFor(p.ID)); err != nil {
			return nil, fmt.Errorf("proposal %s: %w", shortID(p.ID), err)
		}
	}
	for i, v := range bundle.Votes {
		if !known[v.ProposalID] {
			return nil, domain.NewInputError(fmt.Sprintf("votes[%d].proposal_id", i), "unknown proposal %s", v.ProposalID)
		}
	}

	result := &ImportBundleResult{
		Tenant:    bundle.Tenant,
		Proposals: len(bundle.Proposals),
		Votes:     len(bundle.Votes),
		Supply:    bundle.VotableSupply,
		DryRun:    params.DryRun,
	}
	if params.DryRun {
		return result, nil
	}

	uc.progress.OnProgress(ctx, ProgressEvent{Stage: "saving", Message: "Saving bundle", Spinner: true})
	if err := uc.store.SaveBundle(ctx, bundle); err != nil {
		return nil, err
	}
	uc.logger.Info("bundle imported",
		"tenant", bundle.Tenant,
		"proposals", result.Proposals,
		"votes", result.Votes,
	)
	return result, nil
}
