// metrics/metrics.go
package metrics

import (
	"net/http"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// reqDuration is a histogram of HTTP request durations in seconds, labeled
// by route pattern, method, and status code.
var reqDuration = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests.",
		Buckets: []float64{0.01, 0.1, 0.3, 1.2, 5},
	},
	[]string{"path", "method", "status"},
)

// submissions counts waitlist submissions by how they ended.
var submissions = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "waitlist_submissions_total",
		Help: "Waitlist submissions by outcome.",
	},
	[]string{"outcome"},
)

// upstreamDuration tracks the latency of the outbound waitlist call.
var upstreamDuration = prometheus.NewHistogram(
	prometheus.HistogramOpts{
		Name:    "waitlist_upstream_duration_seconds",
		Help:    "Duration of calls to the waitlist endpoint.",
		Buckets: prometheus.DefBuckets,
	},
)

// liveConnections is the number of open /live websocket connections.
var liveConnections = prometheus.NewGauge(
	prometheus.GaugeOpts{
		Name: "live_connections",
		Help: "Open live websocket connections.",
	},
)

// RegisterDefault registers the Go runtime and process collectors plus the
// service's own collectors. Call it once at startup; repeated calls are harmless.
//
// Registration failures other than AlreadyRegisteredError are fatal.
func RegisterDefault(logger *zap.Logger) {
	mustRegister(logger, "Go collector", collectors.NewGoCollector())
	mustRegister(logger, "process collector", collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	mustRegister(logger, "HTTP request histogram", reqDuration)
	mustRegister(logger, "waitlist submissions counter", submissions)
	mustRegister(logger, "waitlist upstream histogram", upstreamDuration)
	mustRegister(logger, "live connections gauge", liveConnections)
}

func mustRegister(logger *zap.Logger, name string, c prometheus.Collector) {
	if err := prometheus.Register(c); err != nil {
		if _, ok := err.(prometheus.AlreadyRegisteredError); ok {
			return
		}
		if logger != nil {
			logger.Fatal("failed to register "+name, zap.Error(err))
		} else {
			panic("metrics: failed to register " + name + ": " + err.Error())
		}
	}
}

// ObserveSubmission records one finished submission. outcome is a short
// label such as "joined", "already_joined", "rejected", "network_error".
func ObserveSubmission(outcome string) {
	submissions.WithLabelValues(outcome).Inc()
}

// ObserveUpstream records the latency of one outbound waitlist call.
func ObserveUpstream(d time.Duration) {
	upstreamDuration.Observe(d.Seconds())
}

// LiveConnected counts an open live connection. Call the returned func
// when it closes.
func LiveConnected() (closed func()) {
	liveConnections.Inc()
	return liveConnections.Dec
}

// maxPathLabelLength caps the path label to keep label cardinality bounded.
const maxPathLabelLength = 256

// HTTPMetrics is a middleware that records request duration into the
// http_request_duration_seconds histogram, labeled by chi route pattern.
// Place it after the panic recoverer so recovered 500s are recorded.
func HTTPMetrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		protoMajor := r.ProtoMajor
		if protoMajor < 1 {
			protoMajor = 1
		}
		ww := middleware.NewWrapResponseWriter(w, protoMajor)

		next.ServeHTTP(ww, r)

		statusCode := ww.Status()
		if statusCode == 0 {
			statusCode = http.StatusOK
		}
		if statusCode < 100 || statusCode > 599 {
			statusCode = http.StatusInternalServerError
		}

		path := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				path = pattern
			}
		}
		if len(path) > maxPathLabelLength {
			path = truncateUTF8(path, maxPathLabelLength-3) + "..."
		}

		reqDuration.WithLabelValues(path, r.Method, strconv.Itoa(statusCode)).
			Observe(time.Since(start).Seconds())
	})
}

// Handler returns an http.Handler that exposes the Prometheus metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}

// truncateUTF8 truncates s to at most maxBytes bytes without splitting a rune.
func truncateUTF8(s string, maxBytes int) string {
	if maxBytes <= 0 {
		return ""
	}
	if len(s) <= maxBytes {
		return s
	}
	for maxBytes > 0 && !utf8.RuneStart(s[maxBytes]) {
		maxBytes--
	}
	return s[:maxBytes]
}
