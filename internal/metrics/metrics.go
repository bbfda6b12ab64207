package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	// Config lifecycle metrics
	PublishedReads *prometheus.CounterVec
	ConfigChanges  *prometheus.CounterVec

	// Authorization metrics
	AuthzDecisions *prometheus.CounterVec

	// Worker metrics
	WorkerMessages *prometheus.CounterVec
	SnapshotBytes  prometheus.Histogram

	// Stream metrics
	StreamClients prometheus.Gauge
}

// NewMetrics registers every collector on reg. Pass prometheus.DefaultRegisterer
// in binaries and a fresh registry in tests.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "remote_config_http_requests_total",
				Help: "Total number of HTTP requests processed",
			},
			[]string{"method", "route", "status"},
		),

		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "remote_config_http_request_duration_seconds",
				Help:    "Duration of HTTP request processing",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),

		PublishedReads: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "remote_config_published_reads_total",
				Help: "Reads of published configs through the public API",
			},
			[]string{"shape", "result"},
		),

		ConfigChanges: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "remote_config_changes_total",
				Help: "Config writes by kind",
			},
			[]string{"kind"},
		),

		AuthzDecisions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "remote_config_authz_decisions_total",
				Help: "Policy decisions by mode and outcome",
			},
			[]string{"mode", "decision"},
		),

		WorkerMessages: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "remote_config_worker_messages_total",
				Help: "Queue messages handled by the background worker",
			},
			[]string{"type", "status"},
		),

		SnapshotBytes: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "remote_config_snapshot_bytes",
				Help:    "Size of exported published snapshots",
				Buckets: prometheus.ExponentialBuckets(64, 4, 8),
			},
		),

		StreamClients: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "remote_config_stream_clients",
				Help: "Connected event stream clients",
			},
		),
	}
}

// RecordRequest records a completed HTTP request
func (m *Metrics) RecordRequest(method, route, status string, duration float64) {
	m.RequestsTotal.WithLabelValues(method, route, status).Inc()
	m.RequestDuration.WithLabelValues(method, route).Observe(duration)
}

// RecordPublishedRead records one public read; result is served, not_published or error
func (m *Metrics) RecordPublishedRead(shape, result string) {
	m.PublishedReads.WithLabelValues(shape, result).Inc()
}

// RecordConfigChange records a draft save, publish or delete
func (m *Metrics) RecordConfigChange(kind string) {
	m.ConfigChanges.WithLabelValues(kind).Inc()
}

func (m *Metrics) RecordAuthzDecision(mode string, allowed bool) {
	decision := "deny"
	if allowed {
		decision = "allow"
	}
	m.AuthzDecisions.WithLabelValues(mode, decision).Inc()
}

func (m *Metrics) RecordWorkerMessage(msgType, status string) {
	m.WorkerMessages.WithLabelValues(msgType, status).Inc()
}

func (m *Metrics) RecordSnapshot(size int) {
	m.SnapshotBytes.Observe(float64(size))
}

func (m *Metrics) StreamConnected() {
	m.StreamClients.Inc()
}

func (m *Metrics) StreamDisconnected() {
	m.StreamClients.Dec()
}
