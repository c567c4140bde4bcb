package models

// PlayStatus classifies how the market plays an entrant relative to the recovered distribution
type PlayStatus string

const (
	PlayStatusOverplayed  PlayStatus = "Overplayed"
	PlayStatusUnderplayed PlayStatus = "Underplayed"
	PlayStatusNormal      PlayStatus = "Normal"
)

// ComparisonRow is one entrant's line in the comparison report
type ComparisonRow struct {
	StartNumber          int        `json:"start_number"`
	Name                 string     `json:"name"`
	RecoveredPercentage  float64    `json:"recovered_percentage"`
	BettingPercentage    float64    `json:"betting_percentage"`
	Deviation            float64    `json:"deviation"`
	Status               PlayStatus `json:"status"`
	MissingFromRecovered bool       `json:"missing_from_recovered,omitempty"`
}

// ComparisonReport is the comparator's output
type ComparisonReport struct {
	Rows    []ComparisonRow `json:"rows"`
	Summary string          `json:"summary"`
}

// CountByStatus tallies rows per status
func (r *ComparisonReport) CountByStatus() map[PlayStatus]int {
	counts := make(map[PlayStatus]int, 3)
	for _, row := range r.Rows {
		counts[row.Status]++
	}
	return counts
}
