package app

import (
	"log/slog"
	"net/http"

	"github.com/voteagora/agora-tally/internal/adapters/metrics"
	"github.com/voteagora/agora-tally/internal/api"
	"github.com/voteagora/agora-tally/internal/domain/config"
	"github.com/voteagora/agora-tally/internal/usecase"
)

// App is the main application container that holds all use cases
type App struct {
	// Configuration
	Config *config.RuntimeConfig
	Logger *slog.Logger

	// Use cases
	ResolveProposal *usecase.ResolveProposal
	ListProposals   *usecase.ListProposals
	ShowQuorum      *usecase.ShowQuorum
	ListTenants     *usecase.ListTenants
	ImportBundle    *usecase.ImportBundle

	// HTTP surface for the serve command
	Server *api.Server
}

// NewApp creates a new application instance with all use cases
func NewApp(
	cfg *config.RuntimeConfig,
	logger *slog.Logger,
	resolveProposal *usecase.ResolveProposal,
	listProposals *usecase.ListProposals,
	showQuorum *usecase.ShowQuorum,
	listTenants *usecase.ListTenants,
	importBundle *usecase.ImportBundle,
	server *api.Server,
) *App {
	return &App{
		Config:          cfg,
		Logger:          logger,
		ResolveProposal: resolveProposal,
		ListProposals:   listProposals,
		ShowQuorum:      showQuorum,
		ListTenants:     listTenants,
		ImportBundle:    importBundle,
		Server:          server,
	}
}

// provideMetricsHandler exposes the recorder's registry over HTTP
func provideMetricsHandler(recorder *metrics.Recorder) http.Handler {
	return recorder.Handler()
}
