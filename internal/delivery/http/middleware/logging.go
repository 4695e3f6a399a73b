package middleware

import (
	"net/http"
	"time"

	"github.com/frontandrew/movierental/internal/pkg/logger"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

// LoggingMiddleware логирует все HTTP запросы; 5xx пишутся уровнем error, 4xx - warn
func LoggingMiddleware(log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}

			fields := map[string]interface{}{
				"request_id":  chiMiddleware.GetReqID(r.Context()),
				"method":      r.Method,
				"path":        r.URL.Path,
				"status":      status,
				"duration_ms": time.Since(start).Milliseconds(),
				"bytes":       ww.BytesWritten(),
				"remote_addr": r.RemoteAddr,
			}

			switch {
			case status >= http.StatusInternalServerError:
				log.Error("HTTP request", fields)
			case status >= http.StatusBadRequest:
				log.Warn("HTTP request", fields)
			default:
				log.Info("HTTP request", fields)
			}
		})
	}
}
