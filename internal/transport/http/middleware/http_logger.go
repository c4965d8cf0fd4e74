package middleware

import (
	"net"
	"net/http"
	"time"

	"github.com/brooksgarrett/todo-api/internal/logger"
)

// HTTPLogger writes one access line per request. Headers are never logged,
// so X-Auth tokens stay out of the logs. 5xx lines are logged at error level.
func HTTPLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w}

		next.ServeHTTP(rec, r)

		ip := r.RemoteAddr
		if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
			ip = host
		}

		l := logger.WithCtx(r.Context())
		evt := l.Info()
		if rec.Status() >= http.StatusInternalServerError {
			evt = l.Error()
		}
		evt.
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("ip", ip).
			Int("status", rec.Status()).
			Int("bytes", rec.bytes).
			Dur("duration", time.Since(start)).
			Msg("http_request")
	})
}
