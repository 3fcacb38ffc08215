// Package metrics exposes Prometheus collectors for the allocation engine and
// its HTTP surface on a private registry.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all engine metrics.
type Metrics struct {
	registry *prometheus.Registry

	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Business metrics
	ConsignmentsReceived  prometheus.Counter
	ConsignmentsCancelled prometheus.Counter
	AllocationDecisions   *prometheus.CounterVec
	AllocationTransitions *prometheus.CounterVec
	AllocatedVolume       prometheus.Histogram
	OperationsRejected    *prometheus.CounterVec
}

// Config holds metrics configuration.
type Config struct {
	Namespace string
}

// DefaultConfig returns default metrics configuration.
func DefaultConfig() *Config {
	return &Config{Namespace: "freight"}
}

// New creates a new Metrics instance with its own registry.
func New(config *Config) *Metrics {
	registry := prometheus.NewRegistry()

	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	m := &Metrics{registry: registry}

	m.HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	m.HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: config.Namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"method", "path"},
	)

	m.ConsignmentsReceived = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "consignments_received_total",
			Help:      "Total number of consignments accepted at intake",
		},
	)

	m.ConsignmentsCancelled = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "consignments_cancelled_total",
			Help:      "Total number of consignments withdrawn before allocation",
		},
	)

	m.AllocationDecisions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "allocation_decisions_total",
			Help:      "Route backlog evaluations by outcome",
		},
		[]string{"outcome"},
	)

	m.AllocationTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "allocation_transitions_total",
			Help:      "Applied truck allocation transitions by action",
		},
		[]string{"action"},
	)

	m.AllocatedVolume = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: config.Namespace,
			Name:      "allocated_volume_cubic_metres",
			Help:      "Total volume of newly created allocations",
			Buckets:   []float64{50, 100, 250, 500, 750, 1000, 1500, 2000, 3000},
		},
	)

	m.OperationsRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "operations_rejected_total",
			Help:      "Rejected engine operations by error kind",
		},
		[]string{"operation", "kind"},
	)

	registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.ConsignmentsReceived,
		m.ConsignmentsCancelled,
		m.AllocationDecisions,
		m.AllocationTransitions,
		m.AllocatedVolume,
		m.OperationsRejected,
	)

	return m
}

// Handler returns an HTTP handler for the metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordHTTPRequest records one served request.
func (m *Metrics) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordConsignmentReceived counts an accepted consignment.
func (m *Metrics) RecordConsignmentReceived() {
	m.ConsignmentsReceived.Inc()
}

// RecordConsignmentCancelled counts a withdrawn consignment.
func (m *Metrics) RecordConsignmentCancelled() {
	m.ConsignmentsCancelled.Inc()
}

// RecordAllocationDecision counts one backlog evaluation.
func (m *Metrics) RecordAllocationDecision(outcome string) {
	m.AllocationDecisions.WithLabelValues(outcome).Inc()
}

// RecordAllocationCreated counts a new allocation and observes its volume.
func (m *Metrics) RecordAllocationCreated(volume float64) {
	m.AllocationTransitions.WithLabelValues("create").Inc()
	m.AllocatedVolume.Observe(volume)
}

// RecordAllocationTransition counts an applied lifecycle action.
func (m *Metrics) RecordAllocationTransition(action string) {
	m.AllocationTransitions.WithLabelValues(action).Inc()
}

// RecordRejected counts an operation that returned an error of kind.
func (m *Metrics) RecordRejected(operation, kind string) {
	m.OperationsRejected.WithLabelValues(operation, kind).Inc()
}
