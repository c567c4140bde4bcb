// Package metrics defines text-generator client metrics.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	GeneratorRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "generator_requests_total",
		Help:      "Total number of text-generator requests by source and status",
	}, []string{"source", "status"})

	GeneratorLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "generator_latency_seconds",
		Help:      "Text-generator request latency in seconds",
		Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 20, 40, 80},
	})

	GeneratorCacheHitRatio = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "generator_cache_hit_ratio",
		Help:      "Reply cache hit ratio of the text generator",
	})
)

// RecordGeneratorRequest records one generator request outcome.
func RecordGeneratorRequest(source, status string, latencySeconds float64) {
	GeneratorRequestsTotal.WithLabelValues(source, status).Inc()
	if source != "cache" {
		GeneratorLatency.Observe(latencySeconds)
	}
}

// UpdateGeneratorCacheHitRatio sets the reply cache hit ratio.
func UpdateGeneratorCacheHitRatio(ratio float64) {
	GeneratorCacheHitRatio.Set(ratio)
}
