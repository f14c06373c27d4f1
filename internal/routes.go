package internal

import (
	"net/http"

	"dmrmonitor/internal/controllers"
	"dmrmonitor/internal/providers"
	"dmrmonitor/internal/structures"
)

func InitRoutes(
	apiController *controllers.ApiController,
	dashboardController *controllers.DashboardController,
	socketController *controllers.SocketController,
	conf *structures.Config,
	logger providers.Logger,
) providers.RouterProviderInterface {
	routers := providers.NewRouterProvider()
	auth := func(next http.Handler) http.Handler {
		return providers.BasicAuthMiddleware(conf, logger, next)
	}

	routers.Get("/", http.HandlerFunc(dashboardController.Index), auth)
	routers.Get(controllers.SocketPath, http.HandlerFunc(socketController.Serve), auth)
	routers.Get("/api/systems", http.HandlerFunc(apiController.GetSystems), auth)
	routers.Get("/api/bridges", http.HandlerFunc(apiController.GetBridges), auth)
	routers.Get("/api/lastheard", http.HandlerFunc(apiController.GetLastHeard), auth)
	return routers
}
