// Package metrics exposes the application's Prometheus collectors.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry bundles the application collectors around a dedicated Prometheus
// registry so the exposition endpoint serves only what the app registers.
type Registry struct {
	registry *prometheus.Registry

	httpInFlight prometheus.Gauge
	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
	entityWrites *prometheus.CounterVec
	exportRows   *prometheus.CounterVec
}

// NewRegistry creates and registers the application collectors.
func NewRegistry() *Registry {
	r := &Registry{
		registry: prometheus.NewRegistry(),

		httpInFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "advisor_crm",
				Subsystem: "http",
				Name:      "inflight_requests",
				Help:      "Current number of in-flight HTTP requests.",
			},
		),

		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "advisor_crm",
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total number of HTTP requests handled.",
			},
			[]string{"method", "path", "status"},
		),

		httpDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "advisor_crm",
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "Duration of HTTP requests.",
				Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
			},
			[]string{"method", "path"},
		),

		entityWrites: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "advisor_crm",
				Subsystem: "store",
				Name:      "entity_writes_total",
				Help:      "Entity create/update/delete operations by kind and op.",
			},
			[]string{"entity", "op"},
		),

		exportRows: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "advisor_crm",
				Subsystem: "export",
				Name:      "rows_total",
				Help:      "Rows written to CSV exports by type.",
			},
			[]string{"type"},
		),
	}

	r.registry.MustRegister(
		r.httpInFlight,
		r.httpRequests,
		r.httpDuration,
		r.entityWrites,
		r.exportRows,
	)
	return r
}

// Handler returns the Prometheus exposition handler for the app registry.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// IncInFlight marks a request entering a handler.
func (r *Registry) IncInFlight() { r.httpInFlight.Inc() }

// DecInFlight marks a request leaving a handler.
func (r *Registry) DecInFlight() { r.httpInFlight.Dec() }

// ObserveHTTPRequest records a completed request.
func (r *Registry) ObserveHTTPRequest(method, path, status string, duration time.Duration) {
	r.httpRequests.WithLabelValues(method, path, status).Inc()
	r.httpDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordEntityWrite counts one mutation on an entity collection.
func (r *Registry) RecordEntityWrite(entity, op string) {
	r.entityWrites.WithLabelValues(entity, op).Inc()
}

// RecordExport counts rows served through a CSV export.
func (r *Registry) RecordExport(exportType string, rows int) {
	r.exportRows.WithLabelValues(exportType).Add(float64(rows))
}
