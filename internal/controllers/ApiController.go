package controllers

import (
	"net/http"

	json "github.com/goccy/go-json"

	"dmrmonitor/internal/lastheard"
	"dmrmonitor/internal/models"
	"dmrmonitor/internal/providers"
	"dmrmonitor/internal/services"
)

type ApiController struct {
	logger providers.Logger
	store  services.StateStoreInterface
	ledger lastheard.LedgerInterface
	cache  providers.CacheProviderInterface
}

func NewApiController(
	logger providers.Logger,
	store services.StateStoreInterface,
	ledger lastheard.LedgerInterface,
	cache providers.CacheProviderInterface,
) *ApiController {
	return &ApiController{
		logger: logger,
		store:  store,
		ledger: ledger,
		cache:  cache,
	}
}

func writeJSON(w http.ResponseWriter, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

// serveFromCacheOrCompute keys responses by the store version, so any state
// change naturally invalidates them.
func (ac *ApiController) serveFromCacheOrCompute(w http.ResponseWriter, name string, compute func(view *models.StateView) any) {
	cacheKey := providers.VersionKey(name, ac.store.Version())
	if data, ok := ac.cache.Get(cacheKey); ok {
		writeJSON(w, data)
		return
	}

	gson, err := json.Marshal(compute(ac.store.Snapshot()))
	if err != nil {
		ac.logger.Errorf(providers.TypeGet, "Encoding %s failed: %s", name, err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	ac.cache.Set(cacheKey, gson)
	writeJSON(w, gson)
}

func (ac *ApiController) GetSystems(w http.ResponseWriter, r *http.Request) {
	ac.serveFromCacheOrCompute(w, "systems", func(view *models.StateView) any {
		return view.Systems
	})
}

func (ac *ApiController) GetBridges(w http.ResponseWriter, r *http.Request) {
	ac.serveFromCacheOrCompute(w, "bridges", func(view *models.StateView) any {
		return view.Bridges
	})
}

// GetLastHeard is not cached: ledger appends do not move the store version.
func (ac *ApiController) GetLastHeard(w http.ResponseWriter, r *http.Request) {
	records := []models.CallRecord{}
	if ac.ledger.Enabled() {
		records = ac.ledger.View()
	}
	gson, err := json.Marshal(records)
	if err != nil {
		ac.logger.Errorf(providers.TypeGet, "Encoding last heard failed: %s", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, gson)
}
