// version/version.go
package version

import (
	"net/http"
	"runtime"
	"runtime/debug"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/orderrave/plated/httputil"
)

// Set at build time:
//
//	go build -ldflags "-X github.com/orderrave/plated/pantry/version.Version=1.0.0 \
//	                   -X github.com/orderrave/plated/pantry/version.Commit=abc123"
var (
	Version   = "dev"
	Commit    = ""
	BuildTime = ""
)

// Info is the /version response body.
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"build_time,omitempty"`
	Modified  bool   `json:"modified,omitempty"`
	GoVersion string `json:"go_version"`
}

var (
	once sync.Once
	info Info
)

// Get returns the build info. Commit and BuildTime fall back to the VCS
// stamp the go tool embeds when they were not set with -ldflags.
func Get() Info {
	once.Do(func() {
		info = Info{Version: Version, Commit: Commit, BuildTime: BuildTime, GoVersion: runtime.Version()}
		bi, ok := debug.ReadBuildInfo()
		if !ok {
			return
		}
		for _, s := range bi.Settings {
			switch s.Key {
			case "vcs.revision":
				if info.Commit == "" {
					info.Commit = s.Value
				}
			case "vcs.time":
				if info.BuildTime == "" {
					info.BuildTime = s.Value
				}
			case "vcs.modified":
				info.Modified = s.Value == "true"
			}
		}
		if info.Commit == "" {
			info.Commit = "unknown"
		}
	})
	return info
}

// String is a one-line form for logs, e.g. "1.2.3 (abc123)".
func String() string {
	i := Get()
	if i.Commit == "unknown" {
		return i.Version
	}
	commit := i.Commit
	if len(commit) > 12 {
		commit = commit[:12]
	}
	return i.Version + " (" + commit + ")"
}

// Mount attaches GET /version.
func Mount(r chi.Router) {
	r.Get("/version", func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, Get())
	})
}
