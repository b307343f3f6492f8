package middleware

import (
	"crypto/tls"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/orderrave/plated/config"
	"github.com/stretchr/testify/assert"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestSecurityHeaders_Defaults(t *testing.T) {
	rec := serve(SecurityHeaders(DefaultSecurityHeadersOptions())(okHandler),
		httptest.NewRequest(http.MethodGet, "/", nil))

	tests := []struct {
		header string
		want   string
	}{
		{"X-Frame-Options", "SAMEORIGIN"},
		{"X-Content-Type-Options", "nosniff"},
		{"Referrer-Policy", "strict-origin-when-cross-origin"},
		{"Content-Security-Policy", DefaultContentSecurityPolicy},
		{"Permissions-Policy", "geolocation=(), microphone=(), camera=()"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, rec.Header().Get(tt.header), tt.header)
	}
	assert.Empty(t, rec.Header().Get("Strict-Transport-Security"))
}

func TestSecurityHeaders_HSTS(t *testing.T) {
	opts := DefaultSecurityHeadersOptions()
	opts.HSTSPreload = true
	h := SecurityHeaders(opts)(okHandler)

	t.Run("plain http", func(t *testing.T) {
		rec := serve(h, httptest.NewRequest(http.MethodGet, "http://plated.example/", nil))
		assert.Empty(t, rec.Header().Get("Strict-Transport-Security"))
	})

	t.Run("tls", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "https://plated.example/", nil)
		req.TLS = &tls.ConnectionState{}
		rec := serve(h, req)
		assert.Equal(t, "max-age=31536000; includeSubDomains; preload",
			rec.Header().Get("Strict-Transport-Security"))
	})
}

func TestSecurityHeaders_EmptyValuesOmitted(t *testing.T) {
	rec := serve(SecurityHeaders(SecurityHeadersOptions{XFrameOptions: "DENY"})(okHandler),
		httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.Empty(t, rec.Header().Get("X-Content-Type-Options"))
	assert.Empty(t, rec.Header().Get("Content-Security-Policy"))
}

func TestSecurityHeadersFromConfig(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	t.Run("disabled", func(t *testing.T) {
		cfg := &config.CoreConfig{}
		rec := serve(SecurityHeadersFromConfig(cfg)(okHandler), req)
		assert.Empty(t, rec.Header().Get("X-Frame-Options"))
	})

	t.Run("nil config", func(t *testing.T) {
		rec := serve(SecurityHeadersFromConfig(nil)(okHandler), req)
		assert.Empty(t, rec.Header().Get("X-Frame-Options"))
	})

	t.Run("custom csp", func(t *testing.T) {
		cfg := &config.CoreConfig{Security: config.SecurityConfig{
			EnableSecurityHeaders: true,
			ContentSecurityPolicy: "default-src 'none'",
		}}
		rec := serve(SecurityHeadersFromConfig(cfg)(okHandler), req)
		assert.Equal(t, "SAMEORIGIN", rec.Header().Get("X-Frame-Options"))
		assert.Equal(t, "default-src 'none'", rec.Header().Get("Content-Security-Policy"))
	})
}
