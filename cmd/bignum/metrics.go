package main

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics collects counters and latency histograms for the REPL's
// arithmetic dispatch, labeled by operation. This is the real-library
// analogue of the corpus's hand-rolled PrometheusExporter: a private
// registry rather than the package-global DefaultRegisterer, so a test
// process can construct as many independent Metrics as it likes.
type Metrics struct {
	registry *prometheus.Registry
	ops      *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics creates a Metrics collector registered against its own
// private registry under the "bignum" namespace.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	ops := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bignum",
		Name:      "operations_total",
		Help:      "Total number of REPL arithmetic operations, labeled by op.",
	}, []string{"op"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "bignum",
		Name:      "operation_duration_seconds",
		Help:      "Latency of REPL arithmetic operations, labeled by op.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"op"})
	reg.MustRegister(ops, duration)
	return &Metrics{registry: reg, ops: ops, duration: duration}
}

// Observe records one completed operation and its latency.
func (m *Metrics) Observe(op string, d time.Duration) {
	m.ops.WithLabelValues(op).Inc()
	m.duration.WithLabelValues(op).Observe(d.Seconds())
}

// Handler returns an http.Handler serving /metrics in the standard
// Prometheus text exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
