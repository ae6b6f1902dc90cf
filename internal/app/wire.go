//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"
	"github.com/spf13/viper"

	"github.com/voteagora/agora-tally/internal/adapters"
	"github.com/voteagora/agora-tally/internal/api"
	"github.com/voteagora/agora-tally/internal/config"
	"github.com/voteagora/agora-tally/internal/logging"
	"github.com/voteagora/agora-tally/internal/usecase"
)

// InitApp creates a fully wired App instance
func InitApp(v *viper.Viper) (*App, func(), error) {
	wire.Build(
		// Configuration
		config.Provider,
		logging.LoggingSet,

		// Adapters
		adapters.AllAdapters,

		// Use cases
		usecase.NewResolveProposal,
		usecase.NewListProposals,
		usecase.NewShowQuorum,
		usecase.NewListTenants,
		usecase.NewImportBundle,

		// HTTP
		provideMetricsHandler,
		api.NewServer,
		wire.Bind(new(api.ProposalResolver), new(*usecase.ResolveProposal)),
		wire.Bind(new(api.ProposalLister), new(*usecase.ListProposals)),

		// App
		NewApp,
	)
	return nil, nil, nil
}
