package scoring

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/yourusername/v75-value/internal/models"
)

// Weights are the coefficients of the composite score.
type Weights struct {
	Form           float64 `mapstructure:"form" json:"form"`
	Career         float64 `mapstructure:"career" json:"career"`
	DistanceShort  float64 `mapstructure:"distance_short" json:"distance_short"`
	DistanceMedium float64 `mapstructure:"distance_medium" json:"distance_medium"`
	DistanceLong   float64 `mapstructure:"distance_long" json:"distance_long"`
	TrackPosition  float64 `mapstructure:"track_position" json:"track_position"`
}

// DefaultWeights returns 0.3 form, 0.2 career, 0.1 per distance bucket and 0.2 track position.
func DefaultWeights() Weights {
	return Weights{
		Form:           0.3,
		Career:         0.2,
		DistanceShort:  0.1,
		DistanceMedium: 0.1,
		DistanceLong:   0.1,
		TrackPosition:  0.2,
	}
}

// Sum returns the total of all coefficients
func (w Weights) Sum() float64 {
	return w.Form + w.Career + w.DistanceShort + w.DistanceMedium + w.DistanceLong + w.TrackPosition
}

// Validate rejects negative coefficients and totals that drift from 1
func (w Weights) Validate() error {
	for name, v := range map[string]float64{
		"form":            w.Form,
		"career":          w.Career,
		"distance_short":  w.DistanceShort,
		"distance_medium": w.DistanceMedium,
		"distance_long":   w.DistanceLong,
		"track_position":  w.TrackPosition,
	} {
		if v < 0 {
			return fmt.Errorf("weight %s must not be negative, got %v", name, v)
		}
	}
	if math.Abs(w.Sum()-1) > 1e-6 {
		return fmt.Errorf("weights must sum to 1, got %.4f", w.Sum())
	}
	return nil
}

// Composite is the weighted sum of an entrant's cached sub-scores
func (w Weights) Composite(e *models.Entrant) float64 {
	return e.FormScore*w.Form +
		e.CareerScore*w.Career +
		e.DistanceScore(models.DistanceShort)*w.DistanceShort +
		e.DistanceScore(models.DistanceMedium)*w.DistanceMedium +
		e.DistanceScore(models.DistanceLong)*w.DistanceLong +
		e.TrackPositionScore*w.TrackPosition
}

// Options configures a Scorer
type Options struct {
	Weights   Weights
	TrackPath TrackPath
}

// DefaultOptions returns the default weights and track path
func DefaultOptions() Options {
	return Options{
		Weights:   DefaultWeights(),
		TrackPath: DefaultTrackPath(),
	}
}

// Scorer runs every calculator over a race and ranks the entrants
type Scorer struct {
	opts Options
}

// NewScorer creates a scorer with the given options
func NewScorer(opts Options) *Scorer {
	return &Scorer{opts: opts}
}

// ScoreEntrant computes and caches all sub-scores and the composite on one entrant
func (s *Scorer) ScoreEntrant(e *models.Entrant, stats models.TrackStatistics) {
	e.DistanceScores = DistancePerformance(e)
	e.FormScore = FormScore(e)
	e.CareerScore = CareerScore(e)
	e.TrackPositionScore = TrackPositionScore(e, stats, s.opts.TrackPath)
	e.CompositeScore = s.opts.Weights.Composite(e)
}

// Score enriches every entrant of the race, assigns betting percentages and returns
// the entrants ranked by composite score, highest first. Ties keep input order.
func (s *Scorer) Score(race *models.Race, market models.MarketData) []*models.Entrant {
	start := time.Now()

	for _, e := range race.Entrants {
		s.ScoreEntrant(e, race.TrackStatistics)
	}
	AssignBettingPercentages(race, market)

	ranked := Rank(race.Entrants)
	RecordScoring(len(ranked), time.Since(start))
	return ranked
}

// Rank returns a new slice sorted by composite score descending, stable on ties
func Rank(entrants []*models.Entrant) []*models.Entrant {
	ranked := make([]*models.Entrant, len(entrants))
	copy(ranked, entrants)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].CompositeScore > ranked[j].CompositeScore
	})
	return ranked
}
