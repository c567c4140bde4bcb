package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// RaceKeyPrefix is the game prefix used to key market data per race.
const RaceKeyPrefix = "V75"

// GateStat is the historical win rate of one start gate.
type GateStat struct {
	Gate    int    `json:"gate"`
	WinRate string `json:"win_rate"`
}

// TrackStatistics is keyed track name -> start category -> subcategory -> gate stats.
type TrackStatistics map[string]map[string]map[string][]GateStat

// Gates returns the gate stats stored under the given path, or nil if any level is missing
func (ts TrackStatistics) Gates(track, category, subcategory string) []GateStat {
	if ts == nil {
		return nil
	}
	categories, ok := ts[track]
	if !ok {
		return nil
	}
	subcategories, ok := categories[category]
	if !ok {
		return nil
	}
	return subcategories[subcategory]
}

// Race represents one race with its entrants
type Race struct {
	Number          int             `json:"race_number" validate:"required,gt=0"`
	Entrants        []*Entrant      `json:"entrants" validate:"required,min=1,dive"`
	TrackStatistics TrackStatistics `json:"track_statistics,omitempty"`
	// KeyPrefix overrides RaceKeyPrefix when the market data uses another game's keys.
	KeyPrefix string `json:"key_prefix,omitempty"`
}

// MarketKey returns the market-data key for this race, e.g. "V75-3"
func (r *Race) MarketKey() string {
	if r.KeyPrefix != "" {
		return fmt.Sprintf("%s-%d", r.KeyPrefix, r.Number)
	}
	return MarketKey(r.Number)
}

// MarketKey builds the market-data key for a race number
func MarketKey(raceNumber int) string {
	return fmt.Sprintf("%s-%d", RaceKeyPrefix, raceNumber)
}

// UniformPercentage returns 100/N for the race's entrant count, or 0 for an empty race
func (r *Race) UniformPercentage() float64 {
	if len(r.Entrants) == 0 {
		return 0
	}
	return 100 / float64(len(r.Entrants))
}

// EntrantByStartNumber finds an entrant by start number
func (r *Race) EntrantByStartNumber(startNumber int) (*Entrant, bool) {
	for _, e := range r.Entrants {
		if e.StartNumber == startNumber {
			return e, true
		}
	}
	return nil, false
}

// AnalysisRun identifies one pass of the pipeline over a race
type AnalysisRun struct {
	ID         uuid.UUID `json:"id"`
	RaceNumber int       `json:"race_number"`
	StartedAt  time.Time `json:"started_at"`
}

// NewAnalysisRun creates a run record with a fresh ID
func NewAnalysisRun(raceNumber int) AnalysisRun {
	return AnalysisRun{
		ID:         uuid.New(),
		RaceNumber: raceNumber,
		StartedAt:  time.Now().UTC(),
	}
}

// Validate checks the structural invariants the scoring engine relies on
func (r *Race) Validate() error {
	if len(r.Entrants) == 0 {
		return ErrEmptyRace
	}
	seen := make(map[int]bool, len(r.Entrants))
	for _, e := range r.Entrants {
		if e.Name == "" {
			return ErrEntrantNameRequired
		}
		if e.StartNumber <= 0 {
			return fmt.Errorf("%w: %q has %d", ErrInvalidStartNumber, e.Name, e.StartNumber)
		}
		if seen[e.StartNumber] {
			return fmt.Errorf("%w: %d", ErrDuplicateStartNumber, e.StartNumber)
		}
		seen[e.StartNumber] = true
	}
	return nil
}
