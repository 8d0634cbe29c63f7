package api

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/okian/xalps/pkg/metrics"
)

// HealthHandler handles health and metrics requests.
type HealthHandler struct {
	board   BoardProvider
	started time.Time
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(board BoardProvider) *HealthHandler {
	return &HealthHandler{board: board, started: time.Now()}
}

type healthResponse struct {
	Status     string     `json:"status"`
	Uptime     string     `json:"uptime"`
	LastUpdate *time.Time `json:"last_update,omitempty"`
}

// HandleHealth handles GET /healthz. The process is healthy while it runs;
// status reads "starting" until the first board is drawn.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	resp := healthResponse{Status: "starting", Uptime: time.Since(h.started).Round(time.Second).String()}
	if f, ok := h.board.Board(); ok {
		resp.Status = "ok"
		resp.LastUpdate = &f.At
	}
	writeJSON(w, http.StatusOK, resp)
}

// HandleMetrics serves the private Prometheus registry.
func (h *HealthHandler) HandleMetrics(w http.ResponseWriter, r *http.Request) {
	promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}).ServeHTTP(w, r)
}
