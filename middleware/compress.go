// middleware/compress.go
package middleware

import (
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/orderrave/plated/config"
)

// compressibleTypes are the content types the landing page serves that are
// worth compressing. Images (the logo is SVG) are text too.
var compressibleTypes = []string{
	"text/html",
	"text/css",
	"text/plain",
	"text/javascript",
	"application/javascript",
	"application/json",
	"image/svg+xml",
}

// CompressFromConfig returns a gzip/deflate middleware when
// enable_compression is set and an identity middleware otherwise, so it is
// safe to use unconditionally:
//
//	r.Use(middleware.CompressFromConfig(coreCfg))
//
// The level comes from compression_level, already validated to 1..9.
func CompressFromConfig(coreCfg *config.CoreConfig) func(next http.Handler) http.Handler {
	if coreCfg == nil || !coreCfg.EnableCompression {
		return passthrough
	}
	return Compress(coreCfg.CompressionLevel)
}

// Compress compresses the landing page's text responses at level, clamped
// to 1..9.
func Compress(level int) func(next http.Handler) http.Handler {
	level = min(max(level, 1), 9)
	return middleware.Compress(level, compressibleTypes...)
}

func passthrough(next http.Handler) http.Handler { return next }
