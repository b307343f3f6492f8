// router/router.go
package router

import (
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/orderrave/plated/config"
	"github.com/orderrave/plated/logging"
	"github.com/orderrave/plated/metrics"
	"github.com/orderrave/plated/middleware"
	"go.uber.org/zap"
)

// New returns a chi.Router with the standard middleware stack:
// request ID, real IP, panic recovery, body size limit, metrics, access
// log, security headers and compression, plus JSON 404/405 handlers.
// Routes (including /health and /metrics) are mounted by the caller.
func New(coreCfg *config.CoreConfig, logger *zap.Logger) chi.Router {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(logging.Recoverer(logger))
	r.Use(middleware.LimitBodySize(coreCfg.MaxRequestBodyBytes))
	r.Use(metrics.HTTPMetrics)
	r.Use(logging.RequestLogger(logger))
	r.Use(middleware.SecurityHeadersFromConfig(coreCfg))
	r.Use(middleware.CompressFromConfig(coreCfg))

	r.NotFound(middleware.NotFoundHandler(logger))
	r.MethodNotAllowed(middleware.MethodNotAllowedHandler(logger))

	return r
}
