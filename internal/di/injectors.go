//go:build wireinject
// +build wireinject

package di

import (
	wire "github.com/google/wire"

	"dmrmonitor/internal"
	"dmrmonitor/internal/alias"
	"dmrmonitor/internal/controllers"
	"dmrmonitor/internal/hub"
	"dmrmonitor/internal/lastheard"
	"dmrmonitor/internal/link"
	"dmrmonitor/internal/persistence"
	"dmrmonitor/internal/providers"
	"dmrmonitor/internal/rcm"
	"dmrmonitor/internal/render"
	"dmrmonitor/internal/services"
	"dmrmonitor/internal/structures"
)

func InitApp(cfg *structures.CliFlags) (*internal.App, error) {

	wire.Build(
		providers.NewConfigProvider,
		providers.NewLogProvider,
		providers.NewMetricsProvider,
		providers.NewInstrumentedCacheProvider,
		providers.NewClockProvider,

		alias.NewDirectoryProvider,
		services.NewChangeNotifier,
		wire.Bind(new(lastheard.Notifier), new(*services.ChangeNotifier)),
		services.NewStateStore,
		wire.Bind(new(services.StateStoreInterface), new(*services.StateStore)),
		wire.Bind(new(persistence.Refresher), new(*services.StateStore)),
		services.NewSynchronizer,
		wire.Bind(new(services.SynchronizerInterface), new(*services.Synchronizer)),
		lastheard.NewLedgerProvider,

		render.NewRenderer,
		wire.Bind(new(render.RendererInterface), new(*render.Renderer)),
		hub.NewEventLogProvider,
		hub.NewHub,
		wire.Bind(new(hub.HubInterface), new(*hub.Hub)),
		wire.Bind(new(persistence.Sweeper), new(*hub.Hub)),
		hub.NewBroadcaster,
		wire.Bind(new(hub.BroadcasterInterface), new(*hub.Broadcaster)),
		wire.Bind(new(link.Publisher), new(*hub.Broadcaster)),
		wire.Bind(new(controllers.InitialState), new(*hub.Broadcaster)),

		rcm.NewDecoder,
		link.NewPayloadCodec,
		link.NewDispatcher,
		wire.Bind(new(link.DispatcherInterface), new(*link.Dispatcher)),
		link.NewClient,
		wire.Bind(new(link.ClientInterface), new(*link.Client)),

		persistence.NewZstdCompressor,
		persistence.NewFileManager,
		persistence.NewScheduler,

		controllers.NewApiController,
		controllers.NewDashboardController,
		controllers.NewSocketController,
		controllers.NewHealthController,
		internal.InitRoutes,
		internal.NewApp,
	)

	return nil, nil
}
