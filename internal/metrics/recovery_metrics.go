// Package metrics defines distribution-recovery metrics.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	RecoveryOutcomesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "recovery_outcomes_total",
		Help:      "Total number of recovered distributions by the step that produced them",
	}, []string{"method"})

	RecoveryNormalizationsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "recovery_normalizations_total",
		Help:      "Total number of recovered distributions rescaled to sum to 100",
	})

	RecoveryMissingEntrants = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "recovery_missing_entrants",
		Help:      "Number of race entrants absent from a recovered distribution",
		Buckets:   []float64{0, 1, 2, 3, 5, 8, 12, 15},
	})
)

// RecordRecovery records which recovery step produced a distribution.
func RecordRecovery(method string, normalized bool, missing int) {
	RecoveryOutcomesTotal.WithLabelValues(method).Inc()
	if normalized {
		RecoveryNormalizationsTotal.Inc()
	}
	RecoveryMissingEntrants.Observe(float64(missing))
}
