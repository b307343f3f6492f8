// internal/live/live.go

// Package live keeps a landing page in sync with its visitor's component
// over a websocket. The page sends commands; every state change is pushed
// back as a full snapshot.
package live

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/orderrave/plated/internal/landing"
	"github.com/orderrave/plated/metrics"
	"go.uber.org/zap"
)

// Config configures a Server.
type Config struct {
	Accept AcceptOptions

	// PingInterval is how often idle connections are pinged. Default 30s.
	PingInterval time.Duration

	// PongTimeout bounds the wait for each pong. Default 10s.
	PongTimeout time.Duration

	Logger *zap.Logger
}

// Server serves live connections.
type Server struct {
	cfg    Config
	logger *zap.Logger
}

// NewServer returns a Server with defaults applied.
func NewServer(cfg Config) *Server {
	if cfg.PingInterval <= 0 {
		cfg.PingInterval = 30 * time.Second
	}
	if cfg.PongTimeout <= 0 {
		cfg.PongTimeout = 10 * time.Second
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{cfg: cfg, logger: logger}
}

// Serve upgrades the request and binds the connection to c until either
// side goes away. The caller resolves which component belongs to the
// visitor and may set cookies on w before calling Serve.
func (s *Server) Serve(w http.ResponseWriter, r *http.Request, c *landing.Component) {
	// The server's read and write timeouts are meant for ordinary requests.
	rc := http.NewResponseController(w)
	_ = rc.SetReadDeadline(time.Time{})
	_ = rc.SetWriteDeadline(time.Time{})

	conn, err := Accept(w, r, s.cfg.Accept)
	if err != nil {
		s.logger.Debug("live upgrade rejected", zap.Error(err))
		return
	}
	defer metrics.LiveConnected()()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	states, unsubscribe := c.Subscribe()
	defer unsubscribe()

	go s.push(ctx, cancel, conn, states)
	go s.ping(ctx, cancel, conn)

	err = s.read(ctx, conn, c)
	switch {
	case errors.Is(err, ErrExpectedText):
		_ = conn.Close(websocket.StatusUnsupportedData, "text frames only")
	case isNormalClose(err), ctx.Err() != nil:
		_ = conn.Close(websocket.StatusNormalClosure, "")
	default:
		s.logger.Debug("live connection ended", zap.Error(err))
		_ = conn.Close(websocket.StatusInternalError, "")
	}
}

// read handles commands until the connection fails. Malformed or unknown
// commands are answered with an error message and do not end the session.
func (s *Server) read(ctx context.Context, conn *Conn, c *landing.Component) error {
	for {
		data, err := conn.ReadText(ctx)
		if err != nil {
			return err
		}

		var cmd Command
		if err := json.Unmarshal(data, &cmd); err != nil {
			_ = conn.WriteJSON(ctx, errorMessage(ErrMalformedCommand))
			continue
		}

		if cmd.Type == CmdSubmit {
			go s.submit(ctx, conn, c)
			continue
		}
		if err := apply(c, cmd); err != nil {
			_ = conn.WriteJSON(ctx, errorMessage(err))
		}
	}
}

// submit runs in its own goroutine so the read loop keeps answering pings.
// The outcome reaches the page through the state subscription.
func (s *Server) submit(ctx context.Context, conn *Conn, c *landing.Component) {
	_, err := c.Submit(ctx)
	switch {
	case err == nil, errors.Is(err, context.Canceled):
	case errors.Is(err, landing.ErrInFlight):
		_ = conn.WriteJSON(ctx, errorMessage(err))
	default:
		s.logger.Debug("live submit failed", zap.Error(err))
	}
}

// push forwards state snapshots until the subscription closes, which
// happens when the visitor's component is closed.
func (s *Server) push(ctx context.Context, cancel context.CancelFunc, conn *Conn, states <-chan landing.State) {
	defer cancel()
	for {
		select {
		case <-ctx.Done():
			return
		case st, ok := <-states:
			if !ok {
				_ = conn.Close(websocket.StatusGoingAway, "session ended")
				return
			}
			if err := conn.WriteJSON(ctx, stateMessage(st)); err != nil {
				return
			}
		}
	}
}

func (s *Server) ping(ctx context.Context, cancel context.CancelFunc, conn *Conn) {
	ticker := time.NewTicker(s.cfg.PingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			pctx, pcancel := context.WithTimeout(ctx, s.cfg.PongTimeout)
			err := conn.Ping(pctx)
			pcancel()
			if err != nil {
				_ = conn.Close(websocket.StatusGoingAway, "ping timeout")
				cancel()
				return
			}
		}
	}
}
