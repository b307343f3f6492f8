package assets

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContentHash(t *testing.T) {
	a := fstest.MapFS{"x.css": {Data: []byte("body{}")}}
	b := fstest.MapFS{"x.css": {Data: []byte("body{color:red}")}}

	assert.Len(t, ContentHash(a, "x.css"), 10)
	assert.Equal(t, ContentHash(a, "x.css"), ContentHash(a, "x.css", "missing.js"))
	assert.NotEqual(t, ContentHash(a, "x.css"), ContentHash(b, "x.css"))
}

func TestStatic(t *testing.T) {
	fsys := fstest.MapFS{
		"plated.css":   {Data: []byte("body{}")},
		"img/logo.svg": {Data: []byte("<svg/>")},
	}
	s, err := NewStatic(fsys, "/static/")
	require.NoError(t, err)

	url := s.URL("plated.css")
	assert.Equal(t, "/static/plated.css?v="+s.Version(), url)
	assert.Equal(t, "/static/img/logo.svg?v="+s.Version(), s.URL("/img/logo.svg"))

	h := s.Handler()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, url, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Cache-Control"), "immutable")
	body, _ := io.ReadAll(rec.Body)
	assert.Equal(t, "body{}", string(body))

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/static/plated.css?v=old", nil))
	assert.Equal(t, "no-cache", rec.Header().Get("Cache-Control"))

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/static/", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
