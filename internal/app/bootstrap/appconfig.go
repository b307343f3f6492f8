// internal/app/bootstrap/appconfig.go
package bootstrap

import (
	"fmt"
	"time"

	"github.com/orderrave/plated/config"
	"github.com/orderrave/plated/internal/landing"
	"github.com/orderrave/plated/internal/site"
	"github.com/orderrave/plated/internal/waitlist"
)

// AppConfig holds the landing page's own settings.
type AppConfig struct {
	WaitlistEndpoint string
	RequestTimeout   time.Duration
	ToastDuration    time.Duration
	VisitorTTL       time.Duration
	VisitorCookie    string
	LiveOrigins      []string
}

// Keys are the service's config keys, loaded with the core config's
// precedence (flags > env PLATED_* > config file > defaults).
var Keys = []config.AppKey{
	{Name: "waitlist_endpoint", Default: waitlist.DefaultEndpoint, Desc: "Waitlist API endpoint the signup form posts to"},
	{Name: "request_timeout", Default: 15 * time.Second, Desc: "Timeout of one waitlist request"},
	{Name: "toast_duration", Default: landing.DefaultToastDuration, Desc: "How long a toast stays visible"},
	{Name: "visitor_ttl", Default: 30 * time.Minute, Desc: "Idle time after which a visitor's page state is dropped"},
	{Name: "visitor_cookie", Default: site.DefaultCookieName, Desc: "Name of the visitor cookie"},
	{Name: "live_origins", Default: []string{}, Desc: "Extra origin patterns allowed to open the live socket"},
}

// appConfigFrom converts and validates the loaded key values.
func appConfigFrom(vals config.AppConfigValues) (AppConfig, error) {
	cfg := AppConfig{
		WaitlistEndpoint: vals.String("waitlist_endpoint"),
		RequestTimeout:   vals.Duration("request_timeout", 15*time.Second),
		ToastDuration:    vals.Duration("toast_duration", landing.DefaultToastDuration),
		VisitorTTL:       vals.Duration("visitor_ttl", 30*time.Minute),
		VisitorCookie:    vals.String("visitor_cookie"),
		LiveOrigins:      vals.StringSlice("live_origins"),
	}

	if err := waitlist.ValidateEndpoint(cfg.WaitlistEndpoint); err != nil {
		return AppConfig{}, fmt.Errorf("waitlist_endpoint: %w", err)
	}
	if cfg.VisitorCookie == "" {
		cfg.VisitorCookie = site.DefaultCookieName
	}
	return cfg, nil
}
