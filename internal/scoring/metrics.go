package scoring

import (
	"time"

	"github.com/yourusername/v75-value/internal/metrics"
)

// RecordScoring publishes how many entrants were scored and how long it took
func RecordScoring(entrants int, elapsed time.Duration) {
	metrics.EntrantsScoredTotal.Add(float64(entrants))
	metrics.ScoringDuration.Observe(elapsed.Seconds())
}
