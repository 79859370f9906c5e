package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce         sync.Once
	ledgerRequestsTotal  *prometheus.CounterVec
	ledgerLatencySeconds *prometheus.HistogramVec
	ledgerErrorsTotal    *prometheus.CounterVec
)

// RegisterMetrics initialises the Prometheus collectors for the ledger API.
func RegisterMetrics() {
	registerOnce.Do(func() {
		ledgerRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ledger_requests_total",
			Help: "Total number of ledger API requests served.",
		}, []string{"method", "route", "status"})

		ledgerLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "ledger_latency_seconds",
			Help:    "Latency distribution for ledger API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		ledgerErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ledger_errors_total",
			Help: "Total number of error responses returned by the ledger API.",
		}, []string{"method", "route", "status"})

		prometheus.MustRegister(ledgerRequestsTotal, ledgerLatencySeconds, ledgerErrorsTotal)
	})
}

// LedgerRequests exposes the request counter.
func LedgerRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return ledgerRequestsTotal
}

// LedgerLatency exposes the latency histogram.
func LedgerLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return ledgerLatencySeconds
}

// LedgerErrors exposes the error counter.
func LedgerErrors() *prometheus.CounterVec {
	RegisterMetrics()
	return ledgerErrorsTotal
}
