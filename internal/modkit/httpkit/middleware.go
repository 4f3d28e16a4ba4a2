package httpkit

import (
	"compress/flate"
	"net/http"
	"time"

	"blockparty/internal/platform/logger"
	"blockparty/internal/platform/net/middleware"
)

// CommonStack returns a baseline per module middleware slice
// compose with your own middleware as needed in main
func CommonStack() []func(http.Handler) http.Handler {
	log := logger.Named("http")
	return []func(http.Handler) http.Handler{
		// tracing / correlation
		middleware.RequestID(),
		middleware.RealIP(),

		// safety
		middleware.RecoverJSON(*log),

		// cache / freshness
		middleware.NoCache(),

		// observability
		middleware.AccessLog(*log),

		// cross-origin (tweak config in main if needed)
		middleware.CORS(middleware.CORSOptions{AllowedOrigins: []string{"*"}}),
		middleware.Compress(flate.BestSpeed),
		middleware.Heartbeat("/health"),
		middleware.Timeout(30 * time.Second),
	}
}
