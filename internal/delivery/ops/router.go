// Package ops serves the operator endpoints on a separate listener.
package ops

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"cfohelper/internal/domain"
	"cfohelper/internal/utils"
)

// Store is the part of the account store the ops endpoints read
type Store interface {
	Ping(ctx context.Context) error
	Stats(ctx context.Context) (domain.AccountStats, error)
}

// Monitor reports the outcome of the last scheduled health check
type Monitor interface {
	Healthy() bool
}

const storeTimeout = 2 * time.Second

type handler struct {
	store   Store
	monitor Monitor
	logger  *zap.Logger
}

// NewRouter builds the ops router: GET /health and GET /stats.
// monitor may be nil when no scheduler runs.
func NewRouter(store Store, monitor Monitor, logger *zap.Logger) http.Handler {
	h := &handler{store: store, monitor: monitor, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(10 * time.Second))

	r.Get("/health", h.health)
	r.Get("/stats", h.stats)
	return r
}

type healthResponse struct {
	Status    string `json:"status"`
	Store     string `json:"store"`
	LastCheck string `json:"last_check,omitempty"`
	Timestamp string `json:"timestamp"`
}

type statsResponse struct {
	Users          int64  `json:"users"`
	HistoryEntries int64  `json:"history_entries"`
	Timestamp      string `json:"timestamp"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *handler) health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), storeTimeout)
	defer cancel()

	resp := healthResponse{Status: "healthy", Store: "healthy", Timestamp: utils.Now().Format(time.RFC3339)}
	code := http.StatusOK
	if err := h.store.Ping(ctx); err != nil {
		h.logger.Warn("Health check failed", zap.Error(err))
		resp.Status = "unhealthy"
		resp.Store = "unhealthy"
		code = http.StatusServiceUnavailable
	}
	if h.monitor != nil {
		resp.LastCheck = healthWord(h.monitor.Healthy())
	}
	writeJSON(w, code, resp)
}

func (h *handler) stats(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), storeTimeout)
	defer cancel()

	stats, err := h.store.Stats(ctx)
	if err != nil {
		h.logger.Error("Failed to collect store stats", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "stats unavailable"})
		return
	}

	writeJSON(w, http.StatusOK, statsResponse{
		Users:          stats.Users,
		HistoryEntries: stats.Entries,
		Timestamp:      utils.Now().Format(time.RFC3339),
	})
}

func healthWord(ok bool) string {
	if ok {
		return "healthy"
	}
	return "unhealthy"
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
