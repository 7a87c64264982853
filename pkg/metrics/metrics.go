// Package metrics exposes Prometheus metrics for the exploration server.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds all metrics for the application
type Registry struct {
	registry *prometheus.Registry

	// Graph metrics
	GraphNodesTotal prometheus.Gauge
	GraphLinksTotal prometheus.Gauge

	// Load metrics
	LoadDuration *prometheus.HistogramVec // labeled by input kind

	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Query metrics
	ColorQueriesTotal *prometheus.CounterVec // labeled by query kind
}

// NewRegistry creates a registry with all metrics registered.
func NewRegistry() *Registry {
	r := &Registry{registry: prometheus.NewRegistry()}

	r.GraphNodesTotal = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "mapper_graph_nodes_total",
			Help: "Number of nodes in the loaded Mapper graph",
		},
	)

	r.GraphLinksTotal = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "mapper_graph_links_total",
			Help: "Number of links in the loaded Mapper graph",
		},
	)

	r.LoadDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mapper_load_duration_seconds",
			Help:    "Duration of input loads in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1.0, 5.0, 30.0},
		},
		[]string{"input"}, // graph, metadata, orthogroups, enrichment
	)

	r.HTTPRequestsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "mapper_http_requests_total",
			Help: "Total HTTP requests by method, path, and status",
		},
		[]string{"method", "path", "status"},
	)

	r.HTTPRequestDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mapper_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0},
		},
		[]string{"method", "path"},
	)

	r.ColorQueriesTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "mapper_color_queries_total",
			Help: "Total coloring queries by kind",
		},
		[]string{"kind"}, // term, gene, orthogroup, size
	)

	return r
}

// RecordHTTPRequest records an HTTP request with its duration
func (r *Registry) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	r.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	r.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordLoad records an input load with its duration
func (r *Registry) RecordLoad(input string, duration time.Duration) {
	r.LoadDuration.WithLabelValues(input).Observe(duration.Seconds())
}

// RecordColorQuery records one coloring query
func (r *Registry) RecordColorQuery(kind string) {
	r.ColorQueriesTotal.WithLabelValues(kind).Inc()
}

// SetGraphSize records the loaded graph's node and link counts
func (r *Registry) SetGraphSize(nodes, links int) {
	r.GraphNodesTotal.Set(float64(nodes))
	r.GraphLinksTotal.Set(float64(links))
}

// Handler returns the /metrics HTTP handler for this registry.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
