package models

import (
	"github.com/shopspring/decimal"
)

// MaxPreviousRaces is the number of historical race instances carried per entrant.
const MaxPreviousRaces = 3

// DistanceBucket is one of the canonical race-length categories.
type DistanceBucket string

const (
	DistanceShort  DistanceBucket = "short"
	DistanceMedium DistanceBucket = "medium"
	DistanceLong   DistanceBucket = "long"
)

// DistanceBuckets lists the canonical buckets in ascending length order.
var DistanceBuckets = []DistanceBucket{DistanceShort, DistanceMedium, DistanceLong}

// PreviousRace holds the raw distance and finishing position of one earlier start,
// exactly as read from the entrant source. Conversion happens in the scoring normalizer.
type PreviousRace struct {
	Distance string `json:"distance"`
	Position string `json:"position"`
}

// Entrant represents one horse in one race
type Entrant struct {
	Name          string          `json:"name" validate:"required"`
	StartNumber   int             `json:"start_number" validate:"required,gt=0"`
	Earnings      decimal.Decimal `json:"earnings"`
	CareerResults string          `json:"career_results"`
	PreviousRaces []PreviousRace  `json:"previous_races" validate:"max=3"`

	DistanceScores     map[DistanceBucket]float64 `json:"distance_scores"`
	FormScore          float64                    `json:"form_score"`
	CareerScore        float64                    `json:"career_score"`
	TrackPositionScore float64                    `json:"track_position_score"`
	BettingPercentage  float64                    `json:"betting_percentage"`
	CompositeScore     float64                    `json:"composite_score"`
}

// DistanceScore returns the cached score for a bucket or 0 when it has not been computed
func (e *Entrant) DistanceScore(bucket DistanceBucket) float64 {
	if e.DistanceScores == nil {
		return 0
	}
	return e.DistanceScores[bucket]
}

// PreviousRace returns the i-th most recent start (0-based) and whether it exists
func (e *Entrant) PreviousRace(i int) (PreviousRace, bool) {
	if i < 0 || i >= len(e.PreviousRaces) {
		return PreviousRace{}, false
	}
	return e.PreviousRaces[i], true
}
