// internal/waitlist/client.go

// Package waitlist talks to the remote waitlist collection endpoint.
//
// A Join is a single POST of {name, email}. Any 2xx means the address was
// added. A non-success response whose body says the email is already taken
// is reported as AlreadyJoined; every other failure is an error.
package waitlist

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/orderrave/plated/metrics"
	"go.uber.org/zap"
)

// DefaultEndpoint is the production waitlist collection endpoint.
const DefaultEndpoint = "https://api.orderrave.ng/api/plated/waitlist"

// maxErrorBody bounds how much of a failure response is read.
const maxErrorBody = 64 << 10

// Outcome is how a Join ended when it did not fail.
type Outcome int

const (
	// Failed accompanies a non-nil error.
	Failed Outcome = iota
	// Joined means the address was added.
	Joined
	// AlreadyJoined means the address was on the waitlist before this call.
	AlreadyJoined
)

func (o Outcome) String() string {
	switch o {
	case Joined:
		return "joined"
	case AlreadyJoined:
		return "already_joined"
	default:
		return "failed"
	}
}

// Registration is the request body sent to the endpoint.
type Registration struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Config configures a Client.
type Config struct {
	// Endpoint is the absolute http(s) URL of the waitlist collection.
	Endpoint string

	// Timeout bounds a single Join. Zero means no client-side timeout
	// beyond the caller's context.
	Timeout time.Duration

	// HTTPClient is used for requests. Defaults to a client with no
	// timeout of its own; Timeout is applied through the context.
	HTTPClient *http.Client

	Logger *zap.Logger
}

// Client posts registrations to the waitlist endpoint. It is safe for
// concurrent use.
type Client struct {
	endpoint string
	timeout  time.Duration
	http     *http.Client
	logger   *zap.Logger
}

// New validates cfg and returns a Client.
func New(cfg Config) (*Client, error) {
	if err := ValidateEndpoint(cfg.Endpoint); err != nil {
		return nil, err
	}
	if cfg.Timeout < 0 {
		return nil, fmt.Errorf("waitlist: timeout must be >= 0")
	}
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		endpoint: cfg.Endpoint,
		timeout:  cfg.Timeout,
		http:     hc,
		logger:   logger,
	}, nil
}

// ValidateEndpoint checks that endpoint is an absolute http or https URL.
func ValidateEndpoint(endpoint string) error {
	u, err := url.Parse(endpoint)
	if err != nil {
		return fmt.Errorf("waitlist: invalid endpoint %q: %w", endpoint, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("waitlist: endpoint %q must be an absolute http(s) URL", endpoint)
	}
	return nil
}

// Endpoint returns the configured endpoint URL.
func (c *Client) Endpoint() string { return c.endpoint }

// Join submits reg once. It never retries.
//
// Errors are *TransportError when no response arrived, ErrMalformedResponse
// when a failure body is not JSON, and *RejectionError for every other
// non-success response.
func (c *Client) Join(ctx context.Context, reg Registration) (Outcome, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	payload, err := json.Marshal(reg)
	if err != nil {
		return Failed, fmt.Errorf("waitlist: encode registration: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return Failed, fmt.Errorf("waitlist: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	metrics.ObserveUpstream(time.Since(start))
	if err != nil {
		return Failed, &TransportError{Endpoint: c.endpoint, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBody))
		return Joined, nil
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		// The status arrived but the body did not; there is no message to show.
		c.logger.Warn("waitlist error body unreadable",
			zap.Int("status", resp.StatusCode), zap.Error(err))
		return Failed, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	outcome, err := interpretFailure(resp.StatusCode, body)
	if errors.Is(err, ErrMalformedResponse) {
		c.logger.Warn("waitlist error body is not JSON",
			zap.Int("status", resp.StatusCode),
			zap.String("content_type", resp.Header.Get("Content-Type")))
	}
	return outcome, err
}
