package controllers

import (
	"fmt"
	"net/http"
	"time"

	json "github.com/goccy/go-json"

	"dmrmonitor/internal/hub"
	"dmrmonitor/internal/link"
	"dmrmonitor/internal/services"
)

type HealthController struct {
	store     services.StateStoreInterface
	client    link.ClientInterface
	hub       hub.HubInterface
	startTime time.Time
}

type healthResponse struct {
	Status        string  `json:"status"`
	Uptime        string  `json:"uptime"`
	UptimeSeconds float64 `json:"uptime_seconds"`
	LinkConnected bool    `json:"link_connected"`
	Subscribers   int     `json:"subscribers"`
	StateVersion  uint64  `json:"state_version"`
}

// Health answers 200 while the process is up. A lost link is reported as
// "degraded" but not as a failure: the client keeps reconnecting.
func (hc *HealthController) Health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	uptime := time.Since(hc.startTime)
	connected := hc.client.Connected()
	resp := healthResponse{
		Status:        "ok",
		Uptime:        formatDuration(uptime),
		UptimeSeconds: uptime.Seconds(),
		LinkConnected: connected,
		Subscribers:   hc.hub.Len(),
		StateVersion:  hc.store.Version(),
	}
	if !connected {
		resp.Status = "degraded"
	}

	gson, err := json.Marshal(resp)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, gson)
}

func formatDuration(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60
	return fmt.Sprintf("%dh%dm%ds", hours, minutes, seconds)
}

func NewHealthController(store services.StateStoreInterface, client link.ClientInterface, h hub.HubInterface) *HealthController {
	return &HealthController{
		store:     store,
		client:    client,
		hub:       h,
		startTime: time.Now(),
	}
}
