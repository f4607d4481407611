package presentation

import (
	"context"
	"github.com/RaikyD/remit-desk/internal/logger"
	"github.com/RaikyD/remit-desk/internal/presentation/helpers"
	"github.com/go-chi/chi/v5"
	"net/http"
	"time"
)

const healthTimeout = 2 * time.Second

// Check reports whether one dependency is reachable.
type Check func(ctx context.Context) error

type HealthHandler struct {
	checks map[string]Check
}

func NewHealthHandler(checks map[string]Check) *HealthHandler {
	return &HealthHandler{checks: checks}
}

func (h *HealthHandler) Register(r chi.Router) {
	r.Get("/healthz", h.Healthz)
}

func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
	defer cancel()

	failed := map[string]string{}
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			logger.Warn("health check failed", "check", name, "err", err)
			failed[name] = err.Error()
		}
	}

	if len(failed) > 0 {
		helpers.WriteJSON(w, http.StatusServiceUnavailable, map[string]any{"status": "degraded", "failed": failed})
		return
	}
	helpers.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
