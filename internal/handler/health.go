package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/josh-kwaku/learning-backend/internal/logging"
)

const readinessTimeout = 2 * time.Second

type pinger interface {
	PingContext(ctx context.Context) error
}

type HealthHandler struct {
	db      pinger
	version string
	now     func() time.Time
}

func NewHealthHandler(db pinger, version string) *HealthHandler {
	return &HealthHandler{
		db:      db,
		version: version,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	RespondJSON(w, http.StatusOK, map[string]string{
		"status":    "ok",
		"version":   h.version,
		"timestamp": h.now().Format(time.RFC3339),
	})
}

func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
	defer cancel()

	status, code := "ok", http.StatusOK
	if err := h.db.PingContext(ctx); err != nil {
		logging.FromContext(r.Context()).Warn("readiness check failed: database unreachable", "error", err)
		status, code = "down", http.StatusServiceUnavailable
	}

	RespondJSON(w, code, map[string]any{
		"status":    status,
		"timestamp": h.now().Format(time.RFC3339),
		"checks": map[string]string{
			"database": status,
		},
	})
}
