package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"
	"trip-planner-service/internal/platform/logging"
)

// HealthHandler reports liveness and, when Ping is set, database connectivity.
type HealthHandler struct {
	Ping func(ctx context.Context) error
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	if h.Ping == nil {
		writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.Ping(ctx); err != nil {
		logging.FromContext(ctx).Warn("health check failed", slog.String("error", err.Error()))
		writeJSON(w, r, http.StatusServiceUnavailable, map[string]string{
			"status":   "error",
			"database": "disconnected",
		})
		return
	}

	writeJSON(w, r, http.StatusOK, map[string]string{
		"status":   "ok",
		"database": "connected",
	})
}
