// internal/site/site.go

// Package site serves the Plated landing page: the HTML page and its
// no-script form fallbacks, the JSON API, the live socket and the static
// assets.
package site

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/orderrave/plated/internal/landing"
	"github.com/orderrave/plated/internal/live"
	"github.com/orderrave/plated/middleware"
	"github.com/orderrave/plated/pantry/assets"
	"github.com/orderrave/plated/templates"
	"go.uber.org/zap"
)

//go:embed templates/*.gohtml
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// DefaultCookieName is the visitor cookie used when none is configured.
const DefaultCookieName = "plated_visitor"

// Config configures a Site.
type Config struct {
	Registry *landing.Registry
	Live     *live.Server

	// CookieName names the visitor cookie. Default "plated_visitor".
	CookieName string
	// CookieTTL is the cookie lifetime, normally the visitor TTL.
	CookieTTL time.Duration
	// SecureCookies marks the cookie Secure; set it when serving HTTPS.
	SecureCookies bool

	Logger *zap.Logger
}

// Site holds the page handlers.
type Site struct {
	registry *landing.Registry
	live     *live.Server
	views    *templates.Engine
	static   *assets.Static
	cookie   cookieConfig
	logger   *zap.Logger
}

// New parses the embedded templates and fingerprints the static assets.
func New(cfg Config) (*Site, error) {
	if cfg.Registry == nil {
		return nil, fmt.Errorf("site: registry is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Live == nil {
		cfg.Live = live.NewServer(live.Config{Logger: logger})
	}

	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		return nil, err
	}
	static, err := assets.NewStatic(sub, "/static")
	if err != nil {
		return nil, fmt.Errorf("site: static assets: %w", err)
	}

	views, err := templates.New(templateFS, []string{"templates/*.gohtml"},
		template.FuncMap{"asset": static.URL}, logger)
	if err != nil {
		return nil, fmt.Errorf("site: templates: %w", err)
	}

	name := cfg.CookieName
	if name == "" {
		name = DefaultCookieName
	}

	return &Site{
		registry: cfg.Registry,
		live:     cfg.Live,
		views:    views,
		static:   static,
		cookie:   cookieConfig{name: name, ttl: cfg.CookieTTL, secure: cfg.SecureCookies},
		logger:   logger,
	}, nil
}

// Mount registers the page, API, live and static routes on r. apiMW wraps
// the /api group only, typically CORS.
func (s *Site) Mount(r chi.Router, apiMW ...func(http.Handler) http.Handler) {
	r.Get("/", s.page)

	r.Post("/modal/open", s.modal((*landing.Component).OpenModal))
	r.Post("/modal/close", s.modal((*landing.Component).CloseModal))
	r.Post("/modal/toggle", s.modal((*landing.Component).ToggleModal))
	r.Post("/waitlist", s.submitForm)

	r.Route("/api", func(api chi.Router) {
		api.Use(apiMW...)
		api.Get("/state", s.apiState)
		api.With(middleware.RequireJSON()).Post("/waitlist", s.apiSubmit)
	})

	r.Get("/live", s.liveSocket)
	r.Handle("/static/*", s.static.Handler())
}
