package middleware

import (
	"net/http"
	"time"

	"github.com/fixora/expense-tracker/infrastructure/service/logger"
)

// LoggingMiddleware writes one access line per request. Query strings are
// left out since they may carry credentials.
func LoggingMiddleware(log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r)

			fields := map[string]interface{}{
				"method":      r.Method,
				"path":        r.URL.Path,
				"status":      rec.status,
				"duration_ms": time.Since(start).Milliseconds(),
				"remote_addr": r.RemoteAddr,
			}
			if rec.status >= http.StatusInternalServerError {
				log.Warn(r.Context(), "HTTP request failed", fields)
				return
			}
			log.Info(r.Context(), "HTTP request", fields)
		})
	}
}

// RecoveryMiddleware turns a handler panic into a 500.
func RecoveryMiddleware(log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if v := recover(); v != nil {
					logger.LogSecurityEvent(r.Context(), log, "handler_panic", "HIGH", map[string]interface{}{
						"path":  r.URL.Path,
						"panic": v,
					})
					http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
