package monitoring

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics covers the scanner service: scan verdicts by classification and
// ledger round-trip latency.
type Metrics struct {
	registry      *prometheus.Registry
	ScansTotal    *prometheus.CounterVec
	LedgerLatency prometheus.Histogram
	AuditFailures prometheus.Counter
}

func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		ScansTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "suicket_scans_total",
			Help: "Ticket scans by classification.",
		}, []string{"classification"}),
		LedgerLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "suicket_ledger_request_duration_seconds",
			Help:    "Latency of authoritative ledger reads during scans.",
			Buckets: prometheus.DefBuckets,
		}),
		AuditFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "suicket_audit_write_failures_total",
			Help: "Scan audit rows that failed to persist.",
		}),
	}

	registry.MustRegister(m.ScansTotal, m.LedgerLatency, m.AuditFailures)
	return m
}

// Handler serves the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
