package lookup

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	lookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tickerlogos_lookups_total",
			Help: "Total logo lookups by outcome.",
		},
		[]string{"result"},
	)
	fallbackScansTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tickerlogos_fallback_scans_total",
			Help: "Total fallback directory scans by outcome.",
		},
		[]string{"outcome"},
	)
	fallbackDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "tickerlogos_fallback_scan_duration_seconds",
			Help:    "Duration of fallback directory scans.",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
	)
)
