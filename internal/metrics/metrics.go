// Package metrics provides centralized Prometheus metrics registry for the race analyser.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "v75_value"

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	AnalysesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "analyses_total",
		Help:      "Total number of race analyses by outcome",
	}, []string{"outcome"})
	EntrantsScoredTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "entrants_scored_total",
		Help:      "Total number of entrants run through the scoring engine",
	})
	ComparisonsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "comparison_rows_total",
		Help:      "Total number of comparison rows by play status",
	}, []string{"status"})
)

// Gauge metrics
var (
	LastCompositeScore = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "composite_score",
		Help:      "Composite score of each entrant in the most recent analysis of a race",
	}, []string{"race", "start_number"})
)

// Histogram metrics
var (
	ScoringDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "scoring_duration_seconds",
		Help:      "Duration of scoring one race in seconds",
		Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
	})
	AnalysisDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "analysis_duration_seconds",
		Help:      "Duration of a full race analysis including the generator call",
		Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120},
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		registry.MustRegister(AnalysesTotal)
		registry.MustRegister(EntrantsScoredTotal)
		registry.MustRegister(ComparisonsTotal)

		registry.MustRegister(LastCompositeScore)

		registry.MustRegister(ScoringDuration)
		registry.MustRegister(AnalysisDuration)

		// Register recovery metrics
		registry.MustRegister(RecoveryOutcomesTotal)
		registry.MustRegister(RecoveryNormalizationsTotal)
		registry.MustRegister(RecoveryMissingEntrants)

		// Register generator metrics
		registry.MustRegister(GeneratorRequestsTotal)
		registry.MustRegister(GeneratorLatency)
		registry.MustRegister(GeneratorCacheHitRatio)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	if registry == nil {
		return InitRegistry()
	}
	return registry
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordAnalysis records a finished analysis and its duration.
func RecordAnalysis(outcome string, durationSeconds float64) {
	AnalysesTotal.WithLabelValues(outcome).Inc()
	AnalysisDuration.Observe(durationSeconds)
}

// RecordComparisonRow records one classified comparison row.
func RecordComparisonRow(status string) {
	ComparisonsTotal.WithLabelValues(status).Inc()
}

// UpdateCompositeScore sets the latest composite score of an entrant.
func UpdateCompositeScore(race, startNumber string, score float64) {
	LastCompositeScore.WithLabelValues(race, startNumber).Set(score)
}
