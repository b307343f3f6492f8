// internal/landing/registry.go
package landing

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RegistryConfig configures a Registry.
type RegistryConfig struct {
	// Component is the template for every visitor's component.
	Component Config

	// TTL is how long an idle visitor is kept. Default: 30 minutes.
	TTL time.Duration

	// CleanupInterval is how often idle visitors are removed.
	// Default: TTL/4, at least one second.
	CleanupInterval time.Duration

	Logger *zap.Logger
}

// Registry keeps one Component per visitor ID and closes visitors that
// have been idle longer than the TTL. Visitors with an open subscription
// (a live connection) are never considered idle.
type Registry struct {
	mu       sync.Mutex
	visitors map[string]*Component
	cfg      RegistryConfig
	logger   *zap.Logger
	stopCh   chan struct{}
	cleanCh  chan struct{}
	once     sync.Once
	closed   bool
}

// NewRegistry creates a Registry and starts its cleanup loop.
func NewRegistry(cfg RegistryConfig) *Registry {
	if cfg.TTL <= 0 {
		cfg.TTL = 30 * time.Minute
	}
	if cfg.CleanupInterval <= 0 {
		cfg.CleanupInterval = cfg.TTL / 4
	}
	if cfg.CleanupInterval < time.Second {
		cfg.CleanupInterval = time.Second
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Component.Logger == nil {
		cfg.Component.Logger = logger
	}

	r := &Registry{
		visitors: make(map[string]*Component),
		cfg:      cfg,
		logger:   logger,
		stopCh:   make(chan struct{}),
		cleanCh:  make(chan struct{}),
	}
	go r.cleanup()
	return r
}

// Get returns the component for id, if it is still registered.
func (r *Registry) Get(id string) (*Component, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.visitors[id]
	return c, ok
}

// Resolve returns the component for id, creating a new visitor with a
// fresh ID when id is empty, malformed or unknown. created reports whether
// a new visitor was made.
//
// After Close it registers nothing and returns an already closed component,
// so submissions fail with ErrClosed and live sessions end at once.
func (r *Registry) Resolve(id string) (c *Component, visitorID string, created bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := uuid.Parse(id)
	if r.closed {
		if err != nil {
			id = uuid.NewString()
		}
		c = New(r.cfg.Component)
		c.Close()
		return c, id, false
	}

	if err == nil {
		if c, ok := r.visitors[id]; ok {
			c.Touch()
			return c, id, false
		}
	}

	visitorID = uuid.NewString()
	c = New(r.cfg.Component)
	r.visitors[visitorID] = c
	r.logger.Debug("visitor created", zap.String("visitor", visitorID))
	return c, visitorID, true
}

// Len returns the number of registered visitors.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.visitors)
}

// Close stops the cleanup loop and closes every component.
func (r *Registry) Close() {
	r.once.Do(func() {
		close(r.stopCh)
		<-r.cleanCh

		r.mu.Lock()
		r.closed = true
		visitors := r.visitors
		r.visitors = make(map[string]*Component)
		r.mu.Unlock()

		for _, c := range visitors {
			c.Close()
		}
		r.logger.Info("visitor registry closed", zap.Int("visitors", len(visitors)))
	})
}

// ErrRegistryClosed is reported by Check after Close.
var ErrRegistryClosed = errors.New("landing: visitor registry closed")

// Check reports whether the registry still accepts visitors. It has the
// shape of a readiness probe.
func (r *Registry) Check(context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrRegistryClosed
	}
	return nil
}

func (r *Registry) cleanup() {
	defer close(r.cleanCh)

	ticker := time.NewTicker(r.cfg.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.stopCh:
			return
		case now := <-ticker.C:
			r.removeIdle(now)
		}
	}
}

// removeIdle closes and forgets visitors idle since before now-TTL.
func (r *Registry) removeIdle(now time.Time) int {
	cutoff := now.Add(-r.cfg.TTL)

	r.mu.Lock()
	var idle []*Component
	for id, c := range r.visitors {
		if c.Subscribers() > 0 || c.State().InFlight {
			continue
		}
		if c.LastSeen().Before(cutoff) {
			delete(r.visitors, id)
			idle = append(idle, c)
		}
	}
	r.mu.Unlock()

	for _, c := range idle {
		c.Close()
	}
	if len(idle) > 0 {
		r.logger.Debug("idle visitors removed", zap.Int("count", len(idle)))
	}
	return len(idle)
}
