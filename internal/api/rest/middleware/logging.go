package middleware

import (
	"net/http"
	"time"

	"github.com/lyristudy/lyristudy-server/internal/logger"
)

// Logging logs every HTTP request with its duration and status.
type Logging struct {
	logger *logger.Logger
}

// NewLogging creates a new Logging middleware.
func NewLogging(logger *logger.Logger) *Logging {
	return &Logging{logger: logger}
}

// statusRecorder captures the status code written by the handler chain.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Handle logs method, path, duration and status for each request.
func (l *Logging) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		l.logger.Info("HTTP request started",
			"method", r.Method,
			"path", r.URL.Path)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		duration := time.Since(start)

		l.logger.Info("HTTP request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"duration_ms", duration.Milliseconds(),
			"status", rec.status)

		if rec.status >= http.StatusInternalServerError {
			l.logger.Error("HTTP request failed",
				"method", r.Method,
				"path", r.URL.Path,
				"status", rec.status)
		}
	})
}
