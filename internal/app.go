package internal

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"dmrmonitor/internal/controllers"
	"dmrmonitor/internal/hub"
	"dmrmonitor/internal/lastheard"
	"dmrmonitor/internal/link"
	"dmrmonitor/internal/persistence"
	"dmrmonitor/internal/persistence/interfaces"
	"dmrmonitor/internal/providers"
	"dmrmonitor/internal/structures"
)

const shutdownTimeout = 5 * time.Second

type App struct {
	WebServer *http.Server

	conf        *structures.Config
	logger      providers.Logger
	scheduler   interfaces.SchedulerInterface
	fileManager *persistence.FileManager
	client      link.ClientInterface
	broadcaster hub.BroadcasterInterface
	hub         *hub.Hub
	ledger      lastheard.LedgerInterface
}

func NewApp(
	healthController *controllers.HealthController,
	router providers.RouterProviderInterface,
	scheduler interfaces.SchedulerInterface,
	fileManager *persistence.FileManager,
	client link.ClientInterface,
	broadcaster hub.BroadcasterInterface,
	h *hub.Hub,
	ledger lastheard.LedgerInterface,
	conf *structures.Config,
	logger providers.Logger,
	metrics providers.MetricsProviderInterface,
) *App {
	// Inner mux: dashboard, socket and API routes
	appMux := http.NewServeMux()
	for _, route := range router.GetRoutes() {
		appMux.Handle(route.Url, route.Handler)
	}

	// Outer mux: infrastructure + instrumented app routes
	mux := http.NewServeMux()
	mux.HandleFunc("/health", healthController.Health)
	if conf.Metrics.Enabled {
		mux.Handle("/metrics", promhttp.Handler())
	}
	mux.Handle("/", providers.MetricsMiddleware(metrics, appMux))

	return &App{
		WebServer: &http.Server{
			Addr:        net.JoinHostPort(conf.WebServer.Host, strconv.Itoa(conf.WebServer.Port)),
			Handler:     mux,
			ReadTimeout: 5 * time.Second,
			IdleTimeout: 60 * time.Second,
		},
		conf:        conf,
		logger:      logger,
		scheduler:   scheduler,
		fileManager: fileManager,
		client:      client,
		broadcaster: broadcaster,
		hub:         h,
		ledger:      ledger,
	}
}

// Run serves until ctx is cancelled or the listener fails, then stops every
// worker together and persists state.
func (a *App) Run(ctx context.Context) error {
	a.logger.Infof(providers.TypeApp, "Starting %s", a.conf.AppName)
	if err := a.scheduler.Restore(); err != nil {
		a.logger.Errorf(providers.TypeApp, "Restore error: %s", err)
	}

	listener, err := net.Listen("tcp", a.WebServer.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", a.WebServer.Addr, err)
	}

	workers, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		a.broadcaster.Run(workers)
	}()
	go func() {
		defer wg.Done()
		a.client.Run(workers)
	}()
	a.scheduler.Init()

	serverErr := make(chan error, 1)
	go func() {
		a.logger.Infof(providers.TypeApp, "Listening HTTP clients on %s", listener.Addr())
		if err := a.WebServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
		a.logger.Infof(providers.TypeApp, "Shutdown signal received")
	case err := <-serverErr:
		runErr = fmt.Errorf("server error: %w", err)
	}

	a.scheduler.Stop()
	cancel()
	wg.Wait()

	// Hijacked websocket connections are not closed by Shutdown.
	a.hub.Close()
	shutdownCtx, stop := context.WithTimeout(context.Background(), shutdownTimeout)
	defer stop()
	if err := a.WebServer.Shutdown(shutdownCtx); err != nil && runErr == nil {
		runErr = err
	}

	if err := a.scheduler.Persist(); err != nil && runErr == nil {
		runErr = err
	}
	a.fileManager.Close()
	if err := a.ledger.Close(); err != nil {
		a.logger.Errorf(providers.TypeApp, "Closing last-heard log: %s", err)
	}
	if runErr == nil {
		a.logger.Infof(providers.TypeApp, "gracefully stopped")
	}
	return runErr
}
