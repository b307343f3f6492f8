// internal/live/conn.go
package live

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"
)

// Conn wraps a websocket connection. Writes are serialized and bounded by
// the write timeout.
type Conn struct {
	conn         *websocket.Conn
	writeTimeout time.Duration

	mu     sync.Mutex
	closed bool
}

// AcceptOptions configures the websocket upgrade.
type AcceptOptions struct {
	// OriginPatterns lists the cross-origin hosts allowed to connect,
	// e.g. "plated.example" or "*.orderrave.ng". Same-origin requests are
	// always allowed.
	OriginPatterns []string

	// InsecureSkipVerify disables origin verification. Dev only.
	InsecureSkipVerify bool

	// WriteTimeout bounds each outgoing frame. Default 10s.
	WriteTimeout time.Duration

	// MaxMessageSize caps incoming frames. Default 4KB.
	MaxMessageSize int64
}

// Accept upgrades the request. On failure Accept has already written the
// HTTP error response.
func Accept(w http.ResponseWriter, r *http.Request, opts AcceptOptions) (*Conn, error) {
	ws, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns:     opts.OriginPatterns,
		InsecureSkipVerify: opts.InsecureSkipVerify,
		CompressionMode:    websocket.CompressionDisabled,
	})
	if err != nil {
		return nil, err
	}

	limit := opts.MaxMessageSize
	if limit <= 0 {
		limit = 4 << 10
	}
	ws.SetReadLimit(limit)

	wt := opts.WriteTimeout
	if wt <= 0 {
		wt = 10 * time.Second
	}
	return &Conn{conn: ws, writeTimeout: wt}, nil
}

// ReadText reads one text frame.
func (c *Conn) ReadText(ctx context.Context) ([]byte, error) {
	typ, data, err := c.conn.Read(ctx)
	if err != nil {
		return nil, err
	}
	if typ != websocket.MessageText {
		return nil, ErrExpectedText
	}
	return data, nil
}

// WriteJSON writes v as one text frame. It is safe to call concurrently.
func (c *Conn) WriteJSON(ctx context.Context, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrConnectionClosed
	}
	ctx, cancel := context.WithTimeout(ctx, c.writeTimeout)
	defer cancel()
	return c.conn.Write(ctx, websocket.MessageText, data)
}

// Ping sends a ping and waits for the pong. A reader must be running.
func (c *Conn) Ping(ctx context.Context) error {
	return c.conn.Ping(ctx)
}

// Close closes the connection with the given status. Only the first call
// has an effect.
func (c *Conn) Close(code websocket.StatusCode, reason string) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.mu.Unlock()
	return c.conn.Close(code, reason)
}
