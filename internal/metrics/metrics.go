package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestsTotal counts queries received, by index mode and outcome
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lookup_requests_total",
			Help: "Total number of lookup queries received",
		},
		[]string{"mode", "outcome"},
	)

	// ErrorsTotal counts per-connection errors by type
	ErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lookup_errors_total",
			Help: "Total number of per-connection errors by type",
		},
		[]string{"type"},
	)

	// RequestDuration tracks query processing duration
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "lookup_request_duration_seconds",
			Help:    "Lookup processing duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"mode", "outcome"},
	)

	// ActiveConnections gauges connections currently being handled
	ActiveConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "lookup_active_connections",
			Help: "Number of client connections currently being handled",
		},
	)

	// SnapshotLines gauges the size of the cached line set
	SnapshotLines = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "lookup_snapshot_lines",
			Help: "Number of distinct lines in the cached snapshot",
		},
	)
)

// Error type constants
const (
	ErrorTypeRead      = "read"
	ErrorTypeWrite     = "write"
	ErrorTypeOversized = "oversized_query"
	ErrorTypeIndex     = "index_read"
	ErrorTypeReload    = "reload"
)
