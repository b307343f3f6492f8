// health/health.go
package health

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/orderrave/plated/httputil"
	"go.uber.org/zap"
)

// Check probes one dependency and returns nil when it is healthy.
type Check func(ctx context.Context) error

// Response is the JSON body of the health endpoints.
type Response struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// checkTimeout bounds a whole round of checks.
const checkTimeout = 3 * time.Second

// Handler runs checks on every request. With no checks it is a plain
// liveness probe answering {"status":"ok"}. Any failing check turns the
// answer into a 503 with per-check results.
func Handler(checks map[string]Check, logger *zap.Logger) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if len(checks) == 0 {
			httputil.WriteJSON(w, http.StatusOK, Response{Status: "ok"})
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), checkTimeout)
		defer cancel()

		resp := Response{Status: "ok", Checks: make(map[string]string, len(checks))}
		status := http.StatusOK
		for name, check := range checks {
			if check == nil {
				resp.Checks[name] = "ok"
				continue
			}
			if err := check(ctx); err != nil {
				resp.Status = "error"
				resp.Checks[name] = "error: " + err.Error()
				status = http.StatusServiceUnavailable
				logger.Warn("health check failed", zap.String("check", name), zap.Error(err))
				continue
			}
			resp.Checks[name] = "ok"
		}
		httputil.WriteJSON(w, status, resp)
	})
}

// Mount attaches GET /health (liveness) and GET /ready (the checks).
func Mount(r chi.Router, checks map[string]Check, logger *zap.Logger) {
	r.Method(http.MethodGet, "/health", Handler(nil, logger))
	r.Method(http.MethodGet, "/ready", Handler(checks, logger))
}
