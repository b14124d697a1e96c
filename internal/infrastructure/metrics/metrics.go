package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the custody engine.
type Metrics struct {
	// Transfer metrics
	TransfersCreated *prometheus.CounterVec
	TransfersSettled *prometheus.CounterVec
	TransferErrors   *prometheus.CounterVec

	// Payment order metrics
	OrdersCreated    *prometheus.CounterVec
	OrderTransitions *prometheus.CounterVec

	// Ledger metrics
	EntriesRecorded *prometheus.CounterVec
	BalanceFolds    prometheus.Counter

	// Audit metrics
	AuditEntriesCreated *prometheus.CounterVec

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		TransfersCreated: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "custody_transfers_created_total",
				Help: "Total number of transfers created",
			},
			[]string{"kind"},
		),
		TransfersSettled: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "custody_transfers_settled_total",
				Help: "Total number of transfer settlements by outcome",
			},
			[]string{"status"},
		),
		TransferErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "custody_transfer_errors_total",
				Help: "Total number of transfer errors by type",
			},
			[]string{"error_type"},
		),
		OrdersCreated: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "custody_orders_created_total",
				Help: "Total number of payment orders created",
			},
			[]string{"rail"},
		),
		OrderTransitions: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "custody_order_transitions_total",
				Help: "Total number of order status transitions",
			},
			[]string{"to_status"},
		),
		EntriesRecorded: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "custody_ledger_entries_total",
				Help: "Total number of ledger entries recorded",
			},
			[]string{"type"},
		),
		BalanceFolds: promauto.NewCounter(prometheus.CounterOpts{
			Name: "custody_balance_folds_total",
			Help: "Total number of balance fold computations",
		}),
		AuditEntriesCreated: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "custody_audit_entries_total",
				Help: "Total audit entries created",
			},
			[]string{"action", "entity"},
		),
		HTTPRequests: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "custody_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "custody_http_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
	}
}
