// Package metrics exposes Prometheus collectors for document intake and the
// gRPC surface. All methods are nil-safe so components can run unmetered.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "expedientes"

type Metrics struct {
	registry  *prometheus.Registry
	documents *prometheus.CounterVec
	duration  prometheus.Histogram
	rpcs      *prometheus.CounterVec
}

// New registers the collectors on a fresh registry, plus Go runtime and
// process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		documents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "intake",
			Name:      "documents_total",
			Help:      "Documents processed, by final intake status.",
		}, []string{"status"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "intake",
			Name:      "duration_seconds",
			Help:      "Time spent processing one document.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 8),
		}),
		rpcs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "grpc",
			Name:      "requests_total",
			Help:      "gRPC requests, by method and status code.",
		}, []string{"method", "code"}),
	}
	reg.MustRegister(
		m.documents,
		m.duration,
		m.rpcs,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveDocument counts one processed document.
func (m *Metrics) ObserveDocument(status string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.documents.WithLabelValues(status).Inc()
	m.duration.Observe(elapsed.Seconds())
}

// ObserveRPC counts one gRPC call.
func (m *Metrics) ObserveRPC(method, code string) {
	if m == nil {
		return
	}
	m.rpcs.WithLabelValues(method, code).Inc()
}

// Registry exposes the underlying registry, mostly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
