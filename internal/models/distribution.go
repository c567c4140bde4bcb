package models

// RecoveryMethod names the step of the recovery chain that produced a distribution
type RecoveryMethod string

const (
	RecoveryStructured RecoveryMethod = "structured"
	RecoveryFragments  RecoveryMethod = "fragments"
	RecoveryUniform    RecoveryMethod = "uniform_fallback"
)

// MissingEntrantPolicy controls how entrants omitted from a recovered distribution are treated
type MissingEntrantPolicy string

const (
	// MissingEntrantIgnore leaves omitted entrants out; downstream they count as 0%.
	MissingEntrantIgnore MissingEntrantPolicy = "ignore"
	// MissingEntrantZeroFill adds omitted entrants to the comparison at 0%.
	MissingEntrantZeroFill MissingEntrantPolicy = "zero_fill"
	// MissingEntrantReject treats an incomplete distribution as a failed recovery step.
	MissingEntrantReject MissingEntrantPolicy = "reject"
)

// Valid reports whether p is a known policy
func (p MissingEntrantPolicy) Valid() bool {
	switch p {
	case MissingEntrantIgnore, MissingEntrantZeroFill, MissingEntrantReject:
		return true
	}
	return false
}

// DistributionEntry is one entrant's recovered percentage
type DistributionEntry struct {
	Name                 string  `json:"name"`
	StartNumber          int     `json:"start_number"`
	CalculatedPercentage float64 `json:"calculated_percentage"`
}

// RecoveredDistribution is the percentage allocation reconstructed from a generator reply
type RecoveredDistribution struct {
	Entries    []DistributionEntry `json:"horses"`
	Summary    string              `json:"analysis_summary"`
	Method     RecoveryMethod      `json:"-"`
	Normalized bool                `json:"-"`
}

// Total returns the sum of all entry percentages
func (d *RecoveredDistribution) Total() float64 {
	var total float64
	for _, e := range d.Entries {
		total += e.CalculatedPercentage
	}
	return total
}

// IsFallback reports whether the distribution is the uniform fallback
func (d *RecoveredDistribution) IsFallback() bool {
	return d.Method == RecoveryUniform
}

// MissingStartNumbers returns the start numbers of race entrants absent from the distribution
func (d *RecoveredDistribution) MissingStartNumbers(entrants []*Entrant) []int {
	present := make(map[int]bool, len(d.Entries))
	for _, e := range d.Entries {
		present[e.StartNumber] = true
	}
	var missing []int
	for _, e := range entrants {
		if !present[e.StartNumber] {
			missing = append(missing, e.StartNumber)
		}
	}
	return missing
}
