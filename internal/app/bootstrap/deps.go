// internal/app/bootstrap/deps.go
package bootstrap

import (
	"github.com/orderrave/plated/internal/landing"
	"github.com/orderrave/plated/internal/live"
	"github.com/orderrave/plated/internal/waitlist"
)

// Deps holds what Connect builds from the config.
type Deps struct {
	Waitlist *waitlist.Client
	Visitors *landing.Registry
	Live     *live.Server
}
