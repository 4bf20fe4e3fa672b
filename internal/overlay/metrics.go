package overlay

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	runsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "rtfd",
		Name:      "overlay_runs_total",
		Help:      "Overlay widget runs by terminal phase.",
	}, []string{"phase"})

	fetchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "rtfd",
		Name:      "overlay_descriptor_fetches_total",
		Help:      "Descriptor requests made by the overlay client by outcome.",
	}, []string{"outcome"})

	fetchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "rtfd",
		Name:      "overlay_descriptor_fetch_duration_seconds",
		Help:      "Latency of descriptor requests.",
		Buckets:   prometheus.ExponentialBuckets(0.005, 2, 12),
	})
)
