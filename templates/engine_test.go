package templates

import (
	"html/template"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"tpl/layout.gohtml": {Data: []byte(`{{ define "layout" }}<main>{{ template "body" . }}</main>{{ end }}`)},
		"tpl/page.gohtml": {Data: []byte(`{{ define "page" }}{{ template "layout" . }}{{ end }}` +
			`{{ define "body" }}<h1>{{ .Title | lower }}</h1>{{ shout .Title }}{{ end }}`)},
		"tpl/broken.gohtml": {Data: []byte(`{{ define "broken" }}{{ .Missing.Field }}{{ end }}`)},
	}
}

func newEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := New(testFS(), []string{"tpl/*.gohtml"}, map[string]any{
		"shout": func(s string) string { return strings.ToUpper(s) + "!" },
	}, nil)
	require.NoError(t, err)
	return e
}

func TestRender(t *testing.T) {
	e := newEngine(t)

	rec := httptest.NewRecorder()
	e.Render(rec, http.StatusOK, "page", map[string]string{"Title": "Plated"})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, "<main><h1>plated</h1>PLATED!</main>", rec.Body.String())
}

func TestRender_Failures(t *testing.T) {
	e := newEngine(t)

	rec := httptest.NewRecorder()
	e.Render(rec, http.StatusOK, "nope", nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	rec = httptest.NewRecorder()
	e.Render(rec, http.StatusOK, "broken", map[string]any{"Missing": 1})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "<main>")
}

func TestNew_NoFiles(t *testing.T) {
	_, err := New(testFS(), []string{"other/*.gohtml"}, nil, nil)
	assert.Error(t, err)
}

func TestToJSON(t *testing.T) {
	got := Funcs()["toJSON"].(func(any) template.JS)(map[string]bool{"modalOpen": true})
	assert.Equal(t, `{"modalOpen":true}`, string(got))
}
