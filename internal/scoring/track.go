package scoring

import (
	"github.com/yourusername/v75-value/internal/models"
)

// NeutralTrackPositionScore is used when no usable gate statistics exist.
const NeutralTrackPositionScore = 5.0

// TrackPath selects which table of the track statistics applies to a race.
type TrackPath struct {
	Track       string
	Category    string
	Subcategory string
}

// DefaultTrackPath is the Axevalla auto-start table for high-numbered races.
func DefaultTrackPath() TrackPath {
	return TrackPath{
		Track:       "Axevalla",
		Category:    "autostart",
		Subcategory: "hög",
	}
}

// TrackPositionScore looks up the win rate of the entrant's start gate and clamps it to [1,10].
// Missing tables, missing gates and unparsable rates all give the neutral score.
func TrackPositionScore(entrant *models.Entrant, stats models.TrackStatistics, path TrackPath) float64 {
	if len(stats) == 0 {
		return NeutralTrackPositionScore
	}
	for _, gate := range stats.Gates(path.Track, path.Category, path.Subcategory) {
		if gate.Gate != entrant.StartNumber {
			continue
		}
		rate, ok := ParsePercentString(gate.WinRate)
		if !ok {
			return NeutralTrackPositionScore
		}
		return clamp(rate, 1, 10)
	}
	return NeutralTrackPositionScore
}
