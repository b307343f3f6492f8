package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func get(t *testing.T, h http.Handler, path string) (int, Response) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return rec.Code, resp
}

func TestMount(t *testing.T) {
	failing := false
	r := chi.NewRouter()
	Mount(r, map[string]Check{
		"visitors": func(ctx context.Context) error {
			if failing {
				return errors.New("registry closed")
			}
			return nil
		},
		"noop": nil,
	}, nil)

	code, resp := get(t, r, "/health")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", resp.Status)
	assert.Empty(t, resp.Checks)

	code, resp = get(t, r, "/ready")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, map[string]string{"visitors": "ok", "noop": "ok"}, resp.Checks)

	failing = true
	code, resp = get(t, r, "/ready")
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, "error: registry closed", resp.Checks["visitors"])

	// Liveness does not depend on the checks.
	code, _ = get(t, r, "/health")
	assert.Equal(t, http.StatusOK, code)
}
