package bootstrap

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/orderrave/plated/config"
	"github.com/orderrave/plated/internal/landing"
	"github.com/orderrave/plated/internal/site"
	"github.com/orderrave/plated/internal/waitlist"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestAppConfigFrom(t *testing.T) {
	cfg, err := appConfigFrom(config.AppConfigValues{
		"waitlist_endpoint": "http://localhost:9000/waitlist",
		"request_timeout":   "5s",
		"toast_duration":    "2s",
		"visitor_ttl":       600,
		"visitor_cookie":    "",
		"live_origins":      []string{"example.com"},
	})
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:9000/waitlist", cfg.WaitlistEndpoint)
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 2*time.Second, cfg.ToastDuration)
	assert.Equal(t, 10*time.Minute, cfg.VisitorTTL)
	assert.Equal(t, site.DefaultCookieName, cfg.VisitorCookie)
	assert.Equal(t, []string{"example.com"}, cfg.LiveOrigins)
}

func TestAppConfigFrom_Defaults(t *testing.T) {
	cfg, err := appConfigFrom(config.AppConfigValues{"waitlist_endpoint": waitlist.DefaultEndpoint})
	require.NoError(t, err)
	assert.Equal(t, 15*time.Second, cfg.RequestTimeout)
	assert.Equal(t, landing.DefaultToastDuration, cfg.ToastDuration)
	assert.Equal(t, 30*time.Minute, cfg.VisitorTTL)
}

func TestAppConfigFrom_BadEndpoint(t *testing.T) {
	_, err := appConfigFrom(config.AppConfigValues{"waitlist_endpoint": "/relative"})
	assert.ErrorContains(t, err, "waitlist_endpoint")
}

func TestKeysHaveUniqueNames(t *testing.T) {
	seen := map[string]bool{}
	for _, k := range Keys {
		assert.False(t, seen[k.Name], k.Name)
		seen[k.Name] = true
		assert.NotEmpty(t, k.Desc, k.Name)
	}
}

func TestBuildHandler(t *testing.T) {
	appCfg := AppConfig{
		WaitlistEndpoint: "http://localhost:9000/waitlist",
		RequestTimeout:   time.Second,
		ToastDuration:    time.Second,
		VisitorTTL:       time.Minute,
		VisitorCookie:    site.DefaultCookieName,
	}
	core := &config.CoreConfig{}
	logger := zap.NewNop()

	deps, err := Connect(context.Background(), core, appCfg, logger)
	require.NoError(t, err)
	assert.Equal(t, appCfg.WaitlistEndpoint, deps.Waitlist.Endpoint())

	h, err := BuildHandler(core, appCfg, deps, logger)
	require.NoError(t, err)

	for _, path := range []string{"/", "/health", "/ready", "/metrics", "/version", "/api/state"} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}

	Shutdown(deps, logger)
	Shutdown(deps, logger)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body, "checks")
}

func TestHooksWired(t *testing.T) {
	assert.Equal(t, "plated", Hooks.Name)
	assert.NotNil(t, Hooks.LoadConfig)
	assert.NotNil(t, Hooks.Connect)
	assert.NotNil(t, Hooks.BuildHandler)
	assert.NotNil(t, Hooks.Shutdown)
}
