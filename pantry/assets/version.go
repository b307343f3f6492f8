// assets/version.go
package assets

import (
	"crypto/sha256"
	"encoding/hex"
	"io/fs"
	"net/http"
	"path"
	"strings"
)

// ContentHash computes a 10-character hex SHA-256 fingerprint of the
// concatenated content of the named files inside fsys.
// Files that cannot be read are skipped.
func ContentHash(fsys fs.FS, paths ...string) string {
	h := sha256.New()
	for _, name := range paths {
		if data, err := fs.ReadFile(fsys, name); err == nil {
			h.Write(data)
		}
	}
	return hex.EncodeToString(h.Sum(nil))[:10]
}

// Static serves an embedded asset directory under a URL prefix and builds
// cache-busting URLs for it.
type Static struct {
	fsys    fs.FS
	prefix  string
	version string
}

// NewStatic fingerprints every file in fsys. prefix is the URL path the
// handler is mounted at, e.g. "/static".
func NewStatic(fsys fs.FS, prefix string) (*Static, error) {
	var files []string
	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &Static{
		fsys:    fsys,
		prefix:  strings.TrimSuffix(prefix, "/"),
		version: ContentHash(fsys, files...),
	}, nil
}

// Version is the fingerprint of the whole asset set.
func (s *Static) Version() string { return s.version }

// URL returns the versioned URL of the named asset, e.g.
// "/static/plated.css?v=3f2a9c1b0d".
func (s *Static) URL(name string) string {
	return s.prefix + "/" + strings.TrimPrefix(path.Clean("/"+name), "/") + "?v=" + s.version
}

// Handler serves the assets. Requests carrying the current version are
// cached for a year; anything else must revalidate.
func (s *Static) Handler() http.Handler {
	files := http.StripPrefix(s.prefix, http.FileServerFS(s.fsys))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(w, r)
			return
		}
		if r.URL.Query().Get("v") == s.version {
			w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
		} else {
			w.Header().Set("Cache-Control", "no-cache")
		}
		files.ServeHTTP(w, r)
	})
}
