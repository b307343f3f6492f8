// internal/app/bootstrap/hooks.go
package bootstrap

import (
	"context"
	"net/http"

	"github.com/orderrave/plated/app"
	"github.com/orderrave/plated/config"
	"github.com/orderrave/plated/internal/landing"
	"github.com/orderrave/plated/internal/live"
	"github.com/orderrave/plated/internal/site"
	"github.com/orderrave/plated/internal/waitlist"
	"github.com/orderrave/plated/metrics"
	"github.com/orderrave/plated/middleware"
	"github.com/orderrave/plated/pantry/health"
	"github.com/orderrave/plated/pantry/version"
	"github.com/orderrave/plated/router"
	"go.uber.org/zap"
)

// LoadConfig loads the core config and the landing page's keys.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, vals, err := config.Load(logger, Keys)
	if err != nil {
		return nil, AppConfig{}, err
	}
	appCfg, err := appConfigFrom(vals)
	if err != nil {
		return nil, AppConfig{}, err
	}
	return coreCfg, appCfg, nil
}

// Connect builds the waitlist client, the visitor registry and the live
// socket server.
func Connect(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (Deps, error) {
	client, err := waitlist.New(waitlist.Config{
		Endpoint: appCfg.WaitlistEndpoint,
		Timeout:  appCfg.RequestTimeout,
		Logger:   logger.Named("waitlist"),
	})
	if err != nil {
		return Deps{}, err
	}

	visitors := landing.NewRegistry(landing.RegistryConfig{
		Component: landing.Config{
			Joiner:        client,
			ToastDuration: appCfg.ToastDuration,
		},
		TTL:    appCfg.VisitorTTL,
		Logger: logger.Named("landing"),
	})

	ls := live.NewServer(live.Config{
		Accept: live.AcceptOptions{OriginPatterns: appCfg.LiveOrigins},
		Logger: logger.Named("live"),
	})

	logger.Info("waitlist client ready",
		zap.String("endpoint", client.Endpoint()),
		zap.Duration("timeout", appCfg.RequestTimeout),
		zap.Duration("toast_duration", appCfg.ToastDuration))
	return Deps{Waitlist: client, Visitors: visitors, Live: ls}, nil
}

// BuildHandler mounts health, metrics and the landing site on the
// standard router.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps Deps, logger *zap.Logger) (http.Handler, error) {
	r := router.New(coreCfg, logger)

	health.Mount(r, map[string]health.Check{"visitors": deps.Visitors.Check}, logger)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())
	version.Mount(r)

	s, err := site.New(site.Config{
		Registry:      deps.Visitors,
		Live:          deps.Live,
		CookieName:    appCfg.VisitorCookie,
		CookieTTL:     appCfg.VisitorTTL,
		SecureCookies: coreCfg.HTTP.UseHTTPS,
		Logger:        logger.Named("site"),
	})
	if err != nil {
		return nil, err
	}
	s.Mount(r, middleware.CORSFromConfig(coreCfg))

	return r, nil
}

// Shutdown closes every visitor, which also ends their live connections.
func Shutdown(deps Deps, logger *zap.Logger) {
	if deps.Visitors != nil {
		deps.Visitors.Close()
	}
}

// Hooks wires the landing page into the app lifecycle.
var Hooks = app.Hooks[AppConfig, Deps]{
	Name:         "plated",
	LoadConfig:   LoadConfig,
	Connect:      Connect,
	BuildHandler: BuildHandler,
	Shutdown:     Shutdown,
}
