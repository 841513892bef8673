// internal/server/middleware.go
package server

import (
	"net/http"
	"strconv"
	"time"

	"decision-assistant/internal/common/metrics"
)

// statusRecorder captures the response status for logging and metrics.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// instrument wraps a handler with request logging and duration metrics.
func (s *Server) instrument(route string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next(rec, r)

		elapsed := time.Since(start)
		metrics.RequestDuration.WithLabelValues(route, r.Method, strconv.Itoa(rec.status)).
			Observe(elapsed.Seconds())

		s.logger.Info("request handled", map[string]interface{}{
			"route":      route,
			"method":     r.Method,
			"status":     rec.status,
			"durationMs": elapsed.Milliseconds(),
		})
	}
}
