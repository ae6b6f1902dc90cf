package adapters

import (
	"github.com/google/wire"

	"github.com/voteagora/agora-tally/internal/adapters/blockchain"
	"github.com/voteagora/agora-tally/internal/adapters/cache"
	"github.com/voteagora/agora-tally/internal/adapters/interactive"
	"github.com/voteagora/agora-tally/internal/adapters/metrics"
	"github.com/voteagora/agora-tally/internal/adapters/progress"
	"github.com/voteagora/agora-tally/internal/adapters/repository/file"
	"github.com/voteagora/agora-tally/internal/adapters/repository/sqlite"
	"github.com/voteagora/agora-tally/internal/governance"
	"github.com/voteagora/agora-tally/internal/usecase"
)

// StorageSet provides the sqlite store and the bundle file reader
var StorageSet = wire.NewSet(
	sqlite.NewStore,
	wire.Bind(new(usecase.ProposalRepository), new(*sqlite.Store)),
	wire.Bind(new(usecase.VoteRepository), new(*sqlite.Store)),
	wire.Bind(new(usecase.BundleStore), new(*sqlite.Store)),
	wire.Bind(new(governance.SupplyReader), new(*sqlite.Store)),

	file.NewBundleReader,
	wire.Bind(new(usecase.BundleLoader), new(*file.BundleReader)),
)

// BlockchainSet provides governor contract access
var BlockchainSet = wire.NewSet(
	blockchain.NewProviderAdapter,
	wire.Bind(new(governance.ChainProvider), new(*blockchain.ProviderAdapter)),
)

// CacheSet provides the result cache
var CacheSet = wire.NewSet(
	cache.NewResultCache,
)

// MetricsSet provides the prometheus recorder
var MetricsSet = wire.NewSet(
	metrics.NewRecorder,
	wire.Bind(new(usecase.MetricsRecorder), new(*metrics.Recorder)),
)

// InteractiveSet provides interactive implementations
var InteractiveSet = wire.NewSet(
	interactive.NewSelectorAdapter,
	wire.Bind(new(usecase.ProposalSelector), new(*interactive.SelectorAdapter)),

	progress.NewProgressSink,
)

// GovernanceSet provides the resolution core
var GovernanceSet = wire.NewSet(
	governance.NewQuorumRegistry,
	governance.NewResolver,
	wire.Bind(new(usecase.ProposalResolver), new(*governance.Resolver)),
)

// AllAdapters includes all adapter sets
var AllAdapters = wire.NewSet(
	StorageSet,
	BlockchainSet,
	CacheSet,
	MetricsSet,
	InteractiveSet,
	GovernanceSet,
)
