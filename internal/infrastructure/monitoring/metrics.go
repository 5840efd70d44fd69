// Package monitoring holds the Prometheus metrics the HTTP and scope
// layers record. The core (internal/domain, internal/runtime) never
// imports this package; the httpapi and CLI collaborators record against
// it from the outside.
package monitoring

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds every Prometheus collector the runtime exposes.
type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	HTTPRequestSize     *prometheus.HistogramVec
	HTTPResponseSize    *prometheus.HistogramVec

	// Scope lifecycle metrics
	ScopesConstructedTotal   *prometheus.CounterVec
	ScopeConstructionErrors  *prometheus.CounterVec
	ScopesActive             prometheus.Gauge
	ScopeLifetime            *prometheus.HistogramVec
	EntryTasksLaunchedTotal  *prometheus.CounterVec

	// Node execution metrics
	NodeInvocationsTotal  *prometheus.CounterVec
	NodeInvocationErrors  *prometheus.CounterVec
	NodeInvocationLatency *prometheus.HistogramVec
}

// NewMetrics creates and registers every collector under namespace. An
// empty namespace defaults to "flowgo".
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "flowgo"
	}

	return &Metrics{
		HTTPRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		HTTPRequestSize: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_size_bytes",
				Help:      "HTTP request size in bytes",
				Buckets:   prometheus.ExponentialBuckets(100, 10, 8),
			},
			[]string{"method", "path"},
		),
		HTTPResponseSize: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_response_size_bytes",
				Help:      "HTTP response size in bytes",
				Buckets:   prometheus.ExponentialBuckets(100, 10, 8),
			},
			[]string{"method", "path"},
		),

		ScopesConstructedTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "scopes_constructed_total",
				Help:      "Total number of scopes successfully constructed, by graph name",
			},
			[]string{"graph"},
		),
		ScopeConstructionErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "scope_construction_errors_total",
				Help:      "Total number of scope construction failures, by graph name and error kind",
			},
			[]string{"graph", "error_kind"},
		),
		ScopesActive: promauto.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "scopes_active",
				Help:      "Number of scopes constructed and not yet collected",
			},
		),
		ScopeLifetime: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "scope_lifetime_seconds",
				Help:      "Wall-clock time from scope construction to collection",
				Buckets:   prometheus.ExponentialBuckets(0.01, 2, 14),
			},
			[]string{"graph"},
		),
		EntryTasksLaunchedTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "entry_tasks_launched_total",
				Help:      "Total number of entry tasks launched on the runtime host",
			},
			[]string{"graph"},
		),

		NodeInvocationsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "node_invocations_total",
				Help:      "Total number of control-path invocations and data-path pulls, by node kind",
			},
			[]string{"kind"},
		),
		NodeInvocationErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "node_invocation_errors_total",
				Help:      "Total number of node invocation failures, by node kind and error kind",
			},
			[]string{"kind", "error_kind"},
		),
		NodeInvocationLatency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "node_invocation_duration_seconds",
				Help:      "Node invocation latency in seconds, by node kind",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"kind"},
		),
	}
}

// RecordHTTPRequest records one completed HTTP request.
func (m *Metrics) RecordHTTPRequest(method, path string, status int, duration time.Duration, reqSize, respSize int) {
	m.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
	m.HTTPRequestSize.WithLabelValues(method, path).Observe(float64(reqSize))
	m.HTTPResponseSize.WithLabelValues(method, path).Observe(float64(respSize))
}

// RecordScopeConstructed records a successful scope construction and bumps
// the active gauge.
func (m *Metrics) RecordScopeConstructed(graph string) {
	m.ScopesConstructedTotal.WithLabelValues(graph).Inc()
	m.ScopesActive.Inc()
}

// RecordScopeConstructionError records a failed scope construction; no
// scope was added to the active gauge for it.
func (m *Metrics) RecordScopeConstructionError(graph, errorKind string) {
	m.ScopeConstructionErrors.WithLabelValues(graph, errorKind).Inc()
}

// RecordScopeCollected records a scope's full lifetime and drops the
// active gauge. Call this once, when Scope.Wait returns.
func (m *Metrics) RecordScopeCollected(graph string, lifetime time.Duration) {
	m.ScopeLifetime.WithLabelValues(graph).Observe(lifetime.Seconds())
	m.ScopesActive.Dec()
}

// RecordEntryTaskLaunched records one entry task being scheduled on the
// runtime host.
func (m *Metrics) RecordEntryTaskLaunched(graph string) {
	m.EntryTasksLaunchedTotal.WithLabelValues(graph).Inc()
}

// RecordNodeInvocation records one control invocation or data pull for a
// node kind, and its latency.
func (m *Metrics) RecordNodeInvocation(kind string, duration time.Duration) {
	m.NodeInvocationsTotal.WithLabelValues(kind).Inc()
	m.NodeInvocationLatency.WithLabelValues(kind).Observe(duration.Seconds())
}

// RecordNodeInvocationError records a node invocation that failed, by the
// node kind and the failing error's concrete kind (e.g. "type_mismatch").
func (m *Metrics) RecordNodeInvocationError(kind, errorKind string) {
	m.NodeInvocationErrors.WithLabelValues(kind, errorKind).Inc()
}
