package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Quote metrics
	QuoteRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "curve_quote_requests_total",
			Help: "Total number of quote requests",
		},
		[]string{"swap_mode", "status"},
	)

	QuoteDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "curve_quote_duration_seconds",
			Help:    "Quote calculation duration in seconds",
			Buckets: []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005},
		},
		[]string{"swap_mode"},
	)

	// Pool metrics
	PoolCount = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "curve_pool_count",
		Help: "Total number of pools in the registry",
	})

	ReserveSyncs = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "curve_reserve_syncs_total",
			Help: "Total number of pool reserve reads from chain",
		},
		[]string{"status"},
	)

	LastSyncedBlock = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "curve_last_synced_block",
		Help: "Block number of the most recent reserve sync",
	})
)

// Swap modes used as label values.
const (
	ModeExactIn  = "ExactIn"
	ModeExactOut = "ExactOut"
)
