package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/advisorhq/advisor-crm/internal/app/metrics"
)

// MetricsMiddleware records request counts, durations and in-flight gauges.
// It must be registered on the router itself (router.Use) rather than around
// it: the matched route only exists in the request context mux derives after
// matching, so an outer wrapper would never see the path template and would
// label series with raw URLs.
type MetricsMiddleware struct {
	registry *metrics.Registry
}

// NewMetricsMiddleware creates a new metrics middleware.
func NewMetricsMiddleware(registry *metrics.Registry) *MetricsMiddleware {
	return &MetricsMiddleware{registry: registry}
}

// Handler returns the metrics middleware handler.
func (m *MetricsMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.registry == nil {
			next.ServeHTTP(w, r)
			return
		}

		m.registry.IncInFlight()
		defer m.registry.DecInFlight()

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		start := time.Now()

		next.ServeHTTP(rw, r)

		path := r.URL.Path
		if route := mux.CurrentRoute(r); route != nil {
			if tmpl, err := route.GetPathTemplate(); err == nil {
				path = tmpl
			}
		}
		m.registry.ObserveHTTPRequest(r.Method, path, strconv.Itoa(rw.statusCode), time.Since(start))
	})
}

// responseWriter captures the status code written by a handler.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

func (rw *responseWriter) WriteHeader(code int) {
	if !rw.written {
		rw.statusCode = code
		rw.written = true
	}
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	rw.written = true
	return rw.ResponseWriter.Write(b)
}
