package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"pet-adoption/internal/platform/logger"
)

// HTTPObserver recibe cada request terminado (métricas).
type HTTPObserver interface {
	ObserveHTTP(method, route string, status int, elapsed time.Duration)
}

// RequestLog registra method, ruta, status y duración. obs puede ser nil.
func RequestLog(log logger.Logger, obs HTTPObserver) func(http.Handler) http.Handler {
	log = logger.OrNop(log)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			elapsed := time.Since(start)

			route := r.URL.Path
			if rc := chi.RouteContext(r.Context()); rc != nil {
				if p := rc.RoutePattern(); p != "" {
					route = p
				}
			}

			fields := map[string]any{
				"request_id":  chimw.GetReqID(r.Context()),
				"method":      r.Method,
				"route":       route,
				"status":      status,
				"duration_ms": elapsed.Milliseconds(),
			}
			if c, ok := GetClaims(r.Context()); ok && c.UserID != "" {
				fields["user_id"] = c.UserID
			}

			switch {
			case status >= 500:
				log.Error("http request", fields)
			case status >= 400:
				log.Warn("http request", fields)
			default:
				log.Debug("http request", fields)
			}

			if obs != nil {
				obs.ObserveHTTP(r.Method, route, status, elapsed)
			}
		})
	}
}
