package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

const healthCheckTimeout = 2 * time.Second

type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthResponse struct {
	Status string `json:"status" example:"ok"`
	Error  string `json:"error,omitempty"`
}

type HealthHandler struct {
	db     Pinger
	logger *slog.Logger
}

func NewHealthHandler(db Pinger, l *slog.Logger) *HealthHandler {
	return &HealthHandler{db: db, logger: l.With("component", "HealthHandler")}
}

// Health handles GET /health
// @Summary Liveness and database readiness
// @Tags Health
// @Produce json
// @Success 200 {object} handler.HealthResponse
// @Failure 503 {object} handler.HealthResponse
// @Router /health [get]
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	if h.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
		defer cancel()
		if err := h.db.Ping(ctx); err != nil {
			h.logger.ErrorContext(r.Context(), "Database ping failed", slog.Any("error", err))
			respondJSON(w, http.StatusServiceUnavailable, HealthResponse{Status: "unavailable", Error: err.Error()})
			return
		}
	}
	respondJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}
