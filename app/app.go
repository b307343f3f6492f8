// app/app.go
package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/orderrave/plated/config"
	"github.com/orderrave/plated/httputil"
	"github.com/orderrave/plated/logging"
	"github.com/orderrave/plated/metrics"
	"github.com/orderrave/plated/pantry/version"
	"github.com/orderrave/plated/server"
	"go.uber.org/zap"
)

// Hooks are the integration points a service provides to Run.
//
// C is the service's config type, D the bundle of backends it builds.
type Hooks[C any, D any] struct {
	// Name is used only for logging.
	Name string

	// LoadConfig returns the core config and the service config.
	LoadConfig func(logger *zap.Logger) (*config.CoreConfig, C, error)

	// Connect builds clients and long-lived state from the config.
	Connect func(ctx context.Context, core *config.CoreConfig, appCfg C, logger *zap.Logger) (D, error)

	// BuildHandler returns the complete http.Handler: router, middleware
	// and routes.
	BuildHandler func(core *config.CoreConfig, appCfg C, deps D, logger *zap.Logger) (http.Handler, error)

	// Shutdown releases what Connect built. It runs when the server starts
	// shutting down, so it may also end long-lived connections, and again
	// after the server has stopped; it must be idempotent. May be nil.
	Shutdown func(deps D, logger *zap.Logger)
}

// Run executes the startup sequence and blocks until ctx is canceled, a
// shutdown signal arrives, or the server fails:
//
//  1. Bootstrap logger
//  2. Load core + service config (Hooks.LoadConfig)
//  3. Build the final logger from the core config
//  4. Register metrics
//  5. Connect backends (Hooks.Connect)
//  6. Wire shutdown signals to a context
//  7. Build the HTTP handler (Hooks.BuildHandler)
//  8. Serve HTTP(S) until shutdown, then Hooks.Shutdown
func Run[C any, D any](ctx context.Context, hooks Hooks[C, D]) error {
	bootstrap := logging.BootstrapLogger()
	defer bootstrap.Sync()
	bootstrap.Info("bootstrap logger initialized",
		zap.String("app", hooks.Name), zap.String("version", version.String()))

	coreCfg, appCfg, err := hooks.LoadConfig(bootstrap)
	if err != nil {
		bootstrap.Error("config load failed", zap.Error(err))
		return fmt.Errorf("load config: %w", err)
	}
	bootstrap.Info("config loaded",
		zap.String("env", coreCfg.Env),
		zap.String("log_level", coreCfg.LogLevel),
	)

	logger, err := logging.BuildLogger(coreCfg.LogLevel, coreCfg.Env)
	if err != nil {
		bootstrap.Error("logger build failed", zap.Error(err))
		return fmt.Errorf("build logger: %w", err)
	}
	defer logger.Sync()
	logger.Info("logger initialized", zap.String("app", hooks.Name))
	logger.Debug("core config", zap.String("config", coreCfg.Dump()))
	httputil.SetLogger(logger)

	metrics.RegisterDefault(logger)

	deps, err := hooks.Connect(ctx, coreCfg, appCfg, logger)
	if err != nil {
		logger.Error("connect failed", zap.Error(err))
		return fmt.Errorf("connect: %w", err)
	}

	var onShutdown []func()
	if hooks.Shutdown != nil {
		defer hooks.Shutdown(deps, logger)
		onShutdown = append(onShutdown, func() { hooks.Shutdown(deps, logger) })
	}

	ctx, cancel := server.WithShutdownSignals(ctx, logger)
	defer cancel()

	handler, err := hooks.BuildHandler(coreCfg, appCfg, deps, logger)
	if err != nil {
		logger.Error("handler build failed", zap.Error(err))
		return fmt.Errorf("build handler: %w", err)
	}

	if err := server.ListenAndServeWithContext(ctx, coreCfg, handler, logger, onShutdown...); err != nil {
		logger.Error("server exited with error", zap.Error(err))
		return err
	}
	logger.Info("server stopped")
	return nil
}
