// Package comparison joins a recovered distribution against the market's betting shares and
// classifies each entrant as overplayed, underplayed or normal.
package comparison

import (
	"sort"

	"github.com/yourusername/v75-value/internal/models"
)

const (
	// DefaultDeviationThreshold is the deviation in percentage points beyond which an entrant is misplayed.
	DefaultDeviationThreshold = 1.0

	// NoSummary replaces an empty generator summary in the report.
	NoSummary = "No overall analysis available"
)

// Options configures Compare
type Options struct {
	Threshold       float64
	MissingEntrants models.MissingEntrantPolicy
}

// DefaultOptions uses a 1 point threshold and leaves omitted entrants out of the report
func DefaultOptions() Options {
	return Options{
		Threshold:       DefaultDeviationThreshold,
		MissingEntrants: models.MissingEntrantIgnore,
	}
}

// Classify maps a deviation to a play status. Deviations exactly at the threshold are Normal.
func Classify(deviation, threshold float64) models.PlayStatus {
	switch {
	case deviation > threshold:
		return models.PlayStatusOverplayed
	case deviation < -threshold:
		return models.PlayStatusUnderplayed
	default:
		return models.PlayStatusNormal
	}
}

// Compare builds the comparison report. Entrants supply betting percentages by start number;
// a recovered entry with no matching entrant is compared against 0. Neither input is modified.
func Compare(dist *models.RecoveredDistribution, entrants []*models.Entrant, opts Options) *models.ComparisonReport {
	if opts.Threshold <= 0 {
		opts.Threshold = DefaultDeviationThreshold
	}

	betting := make(map[int]float64, len(entrants))
	for _, e := range entrants {
		betting[e.StartNumber] = e.BettingPercentage
	}

	report := &models.ComparisonReport{Summary: NoSummary}
	if dist == nil {
		return report
	}
	if dist.Summary != "" {
		report.Summary = dist.Summary
	}

	rows := make([]models.ComparisonRow, 0, len(dist.Entries)+len(entrants))
	for _, entry := range dist.Entries {
		rows = append(rows, newRow(entry.StartNumber, entry.Name, entry.CalculatedPercentage, betting[entry.StartNumber], opts.Threshold))
	}

	if opts.MissingEntrants == models.MissingEntrantZeroFill {
		for _, startNumber := range dist.MissingStartNumbers(entrants) {
			row := newRow(startNumber, nameOf(entrants, startNumber), 0, betting[startNumber], opts.Threshold)
			row.MissingFromRecovered = true
			rows = append(rows, row)
		}
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].RecoveredPercentage > rows[j].RecoveredPercentage
	})

	report.Rows = rows
	return report
}

func newRow(startNumber int, name string, recovered, betting, threshold float64) models.ComparisonRow {
	deviation := recovered - betting
	return models.ComparisonRow{
		StartNumber:         startNumber,
		Name:                name,
		RecoveredPercentage: recovered,
		BettingPercentage:   betting,
		Deviation:           deviation,
		Status:              Classify(deviation, threshold),
	}
}

func nameOf(entrants []*models.Entrant, startNumber int) string {
	for _, e := range entrants {
		if e.StartNumber == startNumber {
			return e.Name
		}
	}
	return ""
}
