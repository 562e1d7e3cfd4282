package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP request latency in seconds.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"method", "path", "status"},
	)

	// Ledger mutation counts.
	MintCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ledger_mint_count",
			Help: "Total number of primary-market mint transactions",
		},
		[]string{"status"}, // status: success, rejected
	)

	TransferCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ledger_transfer_count",
			Help: "Total number of secondary-market transfer transactions",
		},
		[]string{"status"},
	)

	EscrowReleasedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "escrow_released_total",
			Help: "Total currency units released from escrow",
		},
	)

	CertificatesRendered = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "certificates_rendered_count",
			Help: "Total number of investment certificates rendered",
		},
	)
)

// RecordHTTPRequestDuration records one served request.
func RecordHTTPRequestDuration(method, path, status string, duration time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// IncrementMint counts a mint attempt outcome.
func IncrementMint(status string) {
	MintCount.WithLabelValues(status).Inc()
}

// IncrementTransfer counts a marketplace transfer outcome.
func IncrementTransfer(status string) {
	TransferCount.WithLabelValues(status).Inc()
}

// AddEscrowReleased adds a released amount to the running total.
func AddEscrowReleased(amount int64) {
	EscrowReleasedTotal.Add(float64(amount))
}
