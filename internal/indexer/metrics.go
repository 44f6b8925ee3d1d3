package indexer

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	indexKeys = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "tickerlogos_index_keys",
			Help: "Number of ticker keys currently in the logo index.",
		},
	)
	buildDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "tickerlogos_index_build_duration_seconds",
			Help:    "Duration of full logo index builds.",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
	)
)
