// Package recovery turns a text generator's free-form reply into a validated percentage
// distribution over a race's entrants. Recovery never fails: it walks an ordered chain of
// parsing strategies and ends in a uniform distribution when none of them succeeds.
package recovery

import (
	"io"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/v75-value/internal/metrics"
	"github.com/yourusername/v75-value/internal/models"
)

const (
	// DefaultNormalizationTolerance is how far from 100 a recovered total may be before it is rescaled.
	DefaultNormalizationTolerance = 0.1

	// FallbackSummary flags a distribution that was synthesized instead of recovered.
	FallbackSummary = "Full analysis could not be completed"
	// FragmentSummary is used when fragments were recovered but no summary survived.
	FragmentSummary = "Analysis based on entrant data"
)

// Options configures a Recoverer
type Options struct {
	// Tolerance is the allowed deviation of the recovered total from 100 before rescaling.
	Tolerance float64
	// MissingEntrants decides whether a distribution that omits race entrants is acceptable.
	MissingEntrants models.MissingEntrantPolicy
}

// DefaultOptions keeps omitted entrants out of the distribution and rescales totals
// more than 0.1 away from 100.
func DefaultOptions() Options {
	return Options{
		Tolerance:       DefaultNormalizationTolerance,
		MissingEntrants: models.MissingEntrantIgnore,
	}
}

// candidate is what a recovery step produced before normalization
type candidate struct {
	entries []models.DistributionEntry
	summary string
}

// step is one strategy of the chain; ok=false means fall through to the next step
type step struct {
	method models.RecoveryMethod
	run    func(text string) (candidate, bool)
}

// Recoverer runs the recovery chain
type Recoverer struct {
	opts   Options
	logger *logrus.Entry
	steps  []step
}

// NewRecoverer creates a Recoverer. A nil logger discards log output.
func NewRecoverer(opts Options, logger *logrus.Logger) *Recoverer {
	if opts.Tolerance <= 0 {
		opts.Tolerance = DefaultNormalizationTolerance
	}
	if !opts.MissingEntrants.Valid() {
		opts.MissingEntrants = models.MissingEntrantIgnore
	}
	if logger == nil {
		logger = logrus.New()
		logger.SetOutput(io.Discard)
	}

	return &Recoverer{
		opts:   opts,
		logger: logger.WithField("component", "recovery"),
		steps: []step{
			{method: models.RecoveryStructured, run: parseStructured},
			{method: models.RecoveryFragments, run: scanFragments},
		},
	}
}

// Recover builds a distribution from the generator reply. The authoritative entrant list
// supplies the uniform fallback and the completeness check.
func (r *Recoverer) Recover(text string, entrants []*models.Entrant) *models.RecoveredDistribution {
	for _, s := range r.steps {
		c, ok := s.run(text)
		if !ok {
			r.logger.WithField("method", s.method).Debug("Recovery step fell through")
			continue
		}

		entries, normalized, ok := Normalize(c.entries, r.opts.Tolerance)
		if !ok {
			r.logger.WithField("method", s.method).Warn("Recovered percentages cannot be normalized")
			continue
		}

		dist := &models.RecoveredDistribution{
			Entries:    entries,
			Summary:    c.summary,
			Method:     s.method,
			Normalized: normalized,
		}

		missing := dist.MissingStartNumbers(entrants)
		if len(missing) > 0 && r.opts.MissingEntrants == models.MissingEntrantReject {
			r.logger.WithFields(logrus.Fields{
				"method":  s.method,
				"missing": missing,
			}).Warn("Recovered distribution omits entrants, rejecting")
			continue
		}

		r.record(dist, len(missing))
		return dist
	}

	dist := Uniform(entrants)
	r.logger.WithField("entrants", len(entrants)).Warn("Could not recover a distribution, using uniform fallback")
	r.record(dist, 0)
	return dist
}

func (r *Recoverer) record(dist *models.RecoveredDistribution, missing int) {
	r.logger.WithFields(logrus.Fields{
		"method":     dist.Method,
		"entries":    len(dist.Entries),
		"normalized": dist.Normalized,
		"missing":    missing,
	}).Info("Distribution recovered")
	metrics.RecordRecovery(string(dist.Method), dist.Normalized, missing)
}

// Recover runs the chain with default options and no logging
func Recover(text string, entrants []*models.Entrant) *models.RecoveredDistribution {
	return NewRecoverer(DefaultOptions(), nil).Recover(text, entrants)
}

// Uniform gives every entrant 100/N with the fallback summary
func Uniform(entrants []*models.Entrant) *models.RecoveredDistribution {
	entries := make([]models.DistributionEntry, 0, len(entrants))
	if n := len(entrants); n > 0 {
		share := 100 / float64(n)
		for _, e := range entrants {
			entries = append(entries, models.DistributionEntry{
				Name:                 e.Name,
				StartNumber:          e.StartNumber,
				CalculatedPercentage: share,
			})
		}
	}
	return &models.RecoveredDistribution{
		Entries: entries,
		Summary: FallbackSummary,
		Method:  models.RecoveryUniform,
	}
}
