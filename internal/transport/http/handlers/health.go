package http_handlers

import (
	"context"
	"maps"
	"net/http"
	"slices"
	"time"

	"github.com/brooksgarrett/todo-api/internal/logger"
	"github.com/brooksgarrett/todo-api/internal/transport/http/response"
)

// Pinger is satisfied by *sql.DB and *redis.Client.
type Pinger interface {
	PingContext(ctx context.Context) error
}

const readyTimeout = 2 * time.Second

type HealthHandler struct {
	checks map[string]Pinger
	order  []string
}

// NewHealthHandler takes named dependencies; nil entries are skipped.
func NewHealthHandler(checks map[string]Pinger) *HealthHandler {
	c := make(map[string]Pinger, len(checks))
	for name, p := range checks {
		if p != nil {
			c[name] = p
		}
	}
	return &HealthHandler{checks: c, order: slices.Sorted(maps.Keys(c))}
}

// Healthz handles GET /healthz
func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	response.OK(w, map[string]string{"status": "ok"})
}

// Readyz handles GET /readyz
func (h *HealthHandler) Readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
	defer cancel()

	// dependencies are probed in name order so the reported one is stable
	for _, name := range h.order {
		if err := h.checks[name].PingContext(ctx); err != nil {
			logger.WithCtx(r.Context()).Warn().Err(err).Str("dependency", name).Msg("readiness check failed")
			response.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "unavailable",
				"error":  name + " unavailable",
			})
			return
		}
	}
	response.OK(w, map[string]string{"status": "ready"})
}
