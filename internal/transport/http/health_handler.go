package http

import (
	"net/http"
	"time"

	"github.com/IgorGrieder/encurtador-links/internal/config"
	"github.com/IgorGrieder/encurtador-links/pkg/httputils"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type HealthResponse struct {
	Status    string `json:"status"`
	Version   string `json:"version"`
	Store     string `json:"store"`
	Uptime    string `json:"uptime"`
	Timestamp string `json:"timestamp"`
}

// HealthHandler serves liveness and Prometheus metrics.
type HealthHandler struct {
	version   string
	store     string
	startedAt time.Time
	now       func() time.Time
}

func NewHealthHandler(cfg *config.Config) *HealthHandler {
	return &HealthHandler{
		version:   cfg.App.Version,
		store:     cfg.Store.Backend,
		startedAt: time.Now(),
		now:       time.Now,
	}
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	now := h.now()
	httputils.RespondJSON(w, http.StatusOK, HealthResponse{
		Status:    "ok",
		Version:   h.version,
		Store:     h.store,
		Uptime:    now.Sub(h.startedAt).Truncate(time.Second).String(),
		Timestamp: now.UTC().Format(time.RFC3339),
	})
}

func (h *HealthHandler) Metrics() http.Handler {
	return promhttp.Handler()
}
