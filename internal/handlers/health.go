package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/aieng/conversations-api/internal/api"
)

// Pinger is the database surface the health check needs.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler handles readiness probes.
type HealthHandler struct {
	db     Pinger
	logger *zap.Logger
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(db Pinger, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{db: db, logger: logger}
}

// RegisterRoutes registers health routes on the given router.
func (h *HealthHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/health/db", h.DBHealth).Methods("GET")
}

// DBHealth handles GET /health/db.
func (h *HealthHandler) DBHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		h.logger.Error("db_health_check_failed", zap.Error(err))
		api.WriteError(w, http.StatusServiceUnavailable, "Database Unavailable", nil)
		return
	}

	api.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
