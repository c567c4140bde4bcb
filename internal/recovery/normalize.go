package recovery

import (
	"math"

	"github.com/yourusername/v75-value/internal/models"
)

// Normalize rescales entries by 100/sum when the sum is more than tolerance away from 100.
// It returns a new slice, whether rescaling happened, and ok=false when the total is not
// a positive finite number and therefore cannot be rescaled.
func Normalize(entries []models.DistributionEntry, tolerance float64) ([]models.DistributionEntry, bool, bool) {
	var total float64
	for _, e := range entries {
		total += e.CalculatedPercentage
	}
	if len(entries) == 0 || total <= 0 || math.IsNaN(total) || math.IsInf(total, 0) {
		return nil, false, false
	}

	out := make([]models.DistributionEntry, len(entries))
	copy(out, entries)
	if math.Abs(total-100) <= tolerance {
		return out, false, true
	}

	factor := 100 / total
	for i := range out {
		out[i].CalculatedPercentage *= factor
	}
	return out, true, true
}
