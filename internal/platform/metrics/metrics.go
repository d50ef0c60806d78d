package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics agrupa los collectors del servicio sobre un registry propio
// (no el global) para que los tests puedan crear routers en paralelo.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec
	Transitions  *prometheus.CounterVec
	Created      *prometheus.CounterVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		registry: reg,
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests by route pattern, method and status code.",
		}, []string{"route", "method", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency by route pattern.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method"}),
		Transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "adoption_request_transitions_total",
			Help: "Committed adoption request state changes.",
		}, []string{"kind", "from", "to"}),
		Created: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "adoption_requests_created_total",
			Help: "Adoption requests created, by kind.",
		}, []string{"kind"}),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.HTTPRequests,
		m.HTTPDuration,
		m.Transitions,
		m.Created,
	)
	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry expone el registry (tests).
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RequestCreated y Transitioned satisfacen adoptions.Observer.
func (m *Metrics) RequestCreated(kind string) {
	m.Created.WithLabelValues(kind).Inc()
}

func (m *Metrics) Transitioned(kind, from, to string) {
	m.Transitions.WithLabelValues(kind, from, to).Inc()
}
