package controllers

import (
	"bytes"
	"net/http"

	"dmrmonitor/internal/providers"
	"dmrmonitor/internal/render"
	"dmrmonitor/internal/structures"
)

// SocketPath is where viewers open their websocket.
const SocketPath = "/ws"

type DashboardController struct {
	conf     *structures.Config
	renderer render.RendererInterface
	logger   providers.Logger
}

func NewDashboardController(conf *structures.Config, renderer render.RendererInterface, logger providers.Logger) *DashboardController {
	return &DashboardController{conf: conf, renderer: renderer, logger: logger}
}

func (dc *DashboardController) Index(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	page := render.IndexPage{
		ReportName:    dc.conf.Global.ReportName,
		SocketPath:    SocketPath,
		ClientTimeout: int(dc.conf.Website.ClientTimeout.Seconds()),
	}
	var buf bytes.Buffer
	if err := dc.renderer.Index(&buf, page); err != nil {
		dc.logger.Errorf(providers.TypeGet, "Rendering index failed: %s", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}
