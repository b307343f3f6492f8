// server/server.go
package server

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/orderrave/plated/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// WithShutdownSignals returns a context canceled on SIGINT or SIGTERM.
// Use it as the parent of the server context.
func WithShutdownSignals(parent context.Context, logger *zap.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		defer signal.Stop(sigCh)
		select {
		case sig := <-sigCh:
			if logger != nil {
				logger.Info("shutdown signal received", zap.Stringer("signal", sig))
			}
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}

// ListenAndServeWithContext serves handler over plain HTTP, HTTPS with
// manual certificates, or HTTPS with Let's Encrypt (http-01), and blocks
// until ctx is canceled or a server fails. In the HTTPS modes the HTTP
// port redirects to HTTPS and, for Let's Encrypt, answers ACME challenges.
//
// onShutdown hooks run after the listeners stop accepting and before
// in-flight requests are waited for; use them to end long-lived
// connections such as websockets.
func ListenAndServeWithContext(
	ctx context.Context,
	cfg *config.CoreConfig,
	handler http.Handler,
	logger *zap.Logger,
	onShutdown ...func(),
) error {
	if cfg == nil {
		return errors.New("server: cfg is nil")
	}
	if handler == nil {
		return errors.New("server: handler is nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	srv := newHTTPServer(cfg, handler, logger)
	for _, f := range onShutdown {
		srv.RegisterOnShutdown(f)
	}
	httpAddr := ":" + strconv.Itoa(cfg.HTTP.HTTPPort)

	var (
		ln     net.Listener
		auxSrv *http.Server
		auxErr chan error // nil unless a redirect server runs
	)

	if !cfg.HTTP.UseHTTPS {
		var err error
		ln, err = net.Listen("tcp", httpAddr)
		if err != nil {
			return fmt.Errorf("listen http %s: %w", httpAddr, err)
		}
		logger.Info("HTTP server listening", zap.String("addr", ln.Addr().String()))
	} else {
		tlsCfg, auxHandler, err := setupTLS(ctx, cfg, logger)
		if err != nil {
			return err
		}

		auxSrv = newHTTPServer(cfg, auxHandler, logger)
		auxSrv.Addr = httpAddr
		auxErr = make(chan error, 1)
		go func() { auxErr <- serveErr(auxSrv.ListenAndServe()) }()
		logger.Info("HTTP redirect server listening", zap.String("addr", httpAddr))

		httpsAddr := ":" + strconv.Itoa(cfg.HTTP.HTTPSPort)
		base, err := net.Listen("tcp", httpsAddr)
		if err != nil {
			_ = auxSrv.Close()
			return fmt.Errorf("listen https %s: %w", httpsAddr, err)
		}
		srv.TLSConfig = tlsCfg
		ln = tls.NewListener(base, tlsCfg)
		logger.Info("HTTPS server listening",
			zap.String("addr", httpsAddr),
			zap.Bool("lets_encrypt", cfg.TLS.UseLetsEncrypt),
			zap.String("domain", cfg.TLS.Domain))
	}

	primaryErr := make(chan error, 1)
	go func() { primaryErr <- serveErr(srv.Serve(ln)) }()

	for {
		select {
		case <-ctx.Done():
			logger.Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
			defer cancel()
			if auxSrv != nil {
				_ = auxSrv.Shutdown(shutdownCtx)
			}
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("server shutdown: %w", err)
			}
			logger.Info("server stopped gracefully")
			return nil

		case err := <-primaryErr:
			if auxSrv != nil {
				_ = auxSrv.Close()
			}
			if err != nil {
				return fmt.Errorf("primary server error: %w", err)
			}
			return nil

		case err := <-auxErr:
			if err != nil {
				_ = srv.Close()
				return fmt.Errorf("redirect server error: %w", err)
			}
			auxSrv, auxErr = nil, nil
		}
	}
}

func newHTTPServer(cfg *config.CoreConfig, h http.Handler, logger *zap.Logger) *http.Server {
	srv := &http.Server{
		Handler:           h,
		ReadTimeout:       cfg.HTTP.ReadTimeout,
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
		WriteTimeout:      cfg.HTTP.WriteTimeout,
		IdleTimeout:       cfg.HTTP.IdleTimeout,
	}
	if stdlog, err := zap.NewStdLogAt(logger, zapcore.WarnLevel); err == nil {
		srv.ErrorLog = stdlog
	}
	return srv
}

// serveErr drops the error every graceful stop returns.
func serveErr(err error) error {
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
