package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/sitecms/sitecms-backend/pkg/metrics"
)

// Metrics records every request against its chi route pattern.
func Metrics(m *metrics.HTTPMetrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if m == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			began := time.Now()
			m.Started()
			defer func() {
				m.Observe(r.Method, matchedPattern(r), writtenStatus(ww), time.Since(began))
			}()
			next.ServeHTTP(ww, r)
		})
	}
}

// matchedPattern is the chi pattern that served r; empty when nothing matched.
func matchedPattern(r *http.Request) string {
	if rc := chi.RouteContext(r.Context()); rc != nil {
		return rc.RoutePattern()
	}
	return ""
}
