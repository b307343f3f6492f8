package server

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"testing"
	"time"

	"github.com/orderrave/plated/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsValidHost(t *testing.T) {
	tests := []struct {
		host string
		want bool
	}{
		{"plated.orderrave.ng", true},
		{"plated.orderrave.ng:8080", true},
		{"127.0.0.1:80", true},
		{"[::1]:8443", true},
		{"::1", true},
		{"", false},
		{"evil.com\r\nX-Injected: 1", false},
		{"plated.ng:0", false},
		{"plated.ng:99999", false},
		{"http://evil.com", false},
		{"/path", false},
		{"user@evil.com", false},
		{"[zz::1]:80", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, isValidHost(tt.host), tt.host)
	}
}

func TestRedirectHandler(t *testing.T) {
	tests := []struct {
		name   string
		host   string
		target string
		port   int
		want   string
	}{
		{"default port", "plated.orderrave.ng", "/waitlist?x=1", 443, "https://plated.orderrave.ng/waitlist?x=1"},
		{"strips http port", "plated.orderrave.ng:80", "/", 443, "https://plated.orderrave.ng/"},
		{"custom https port", "localhost:8080", "/static/plated.css", 8443, "https://localhost:8443/static/plated.css"},
		{"ipv6", "[::1]:8080", "/", 8443, "https://[::1]:8443/"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			req.Host = tt.host
			rec := httptest.NewRecorder()
			redirectHandler(tt.port).ServeHTTP(rec, req)
			assert.Equal(t, http.StatusMovedPermanently, rec.Code)
			assert.Equal(t, tt.want, rec.Header().Get("Location"))
		})
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Host = "bad host"
	rec := httptest.NewRecorder()
	redirectHandler(443).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestValidateTLSFiles(t *testing.T) {
	dir := t.TempDir()
	cert := filepath.Join(dir, "cert.pem")
	key := filepath.Join(dir, "key.pem")
	require.NoError(t, os.WriteFile(cert, []byte("cert"), 0o644))
	require.NoError(t, os.WriteFile(key, []byte("key"), 0o600))

	assert.NoError(t, validateTLSFiles(cert, key))
	assert.ErrorContains(t, validateTLSFiles(filepath.Join(dir, "nope.pem"), key), "does not exist")
	assert.ErrorContains(t, validateTLSFiles(dir, key), "is a directory")

	if runtime.GOOS != "windows" {
		require.NoError(t, os.Chmod(key, 0o644))
		assert.ErrorIs(t, validateTLSFiles(cert, key), errLoosePermissions)
	}
}

func freePort(t *testing.T) int {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()
	return ln.Addr().(*net.TCPAddr).Port
}

func TestListenAndServe_HTTPGracefulShutdown(t *testing.T) {
	port := freePort(t)
	cfg := &config.CoreConfig{HTTP: config.HTTPConfig{
		HTTPPort:        port,
		ReadTimeout:     time.Second,
		WriteTimeout:    time.Second,
		ShutdownTimeout: time.Second,
	}}

	hookRan := make(chan struct{})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- ListenAndServeWithContext(ctx, cfg, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("ok"))
		}), nil, func() { close(hookRan) })
	}()

	url := "http://127.0.0.1:" + strconv.Itoa(port) + "/"
	require.Eventually(t, func() bool {
		resp, err := http.Get(url)
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("server did not stop")
	}
	select {
	case <-hookRan:
	case <-time.After(time.Second):
		t.Fatal("shutdown hook did not run")
	}
}

func TestListenAndServe_Nil(t *testing.T) {
	assert.Error(t, ListenAndServeWithContext(context.Background(), nil, http.NotFoundHandler(), nil))
	assert.Error(t, ListenAndServeWithContext(context.Background(), &config.CoreConfig{}, nil, nil))
}
