package scoring

import (
	"math"

	"github.com/shopspring/decimal"
	"github.com/yourusername/v75-value/internal/models"
)

const (
	careerWinWeight      = 0.7
	careerEarningsWeight = 0.3
)

// earningsCeiling is the amount at which the earnings component saturates.
var earningsCeiling = decimal.NewFromInt(1_000_000)

// WinPercentage returns wins/starts*100, or 0 for an unparsable record or zero starts
func WinPercentage(careerResults string) float64 {
	starts, wins, ok := ParseCareer(careerResults)
	if !ok || starts <= 0 {
		return 0
	}
	return float64(wins) / float64(starts) * 100
}

// CareerScore combines win percentage (70%) and earnings (30%), each on a 0-10 scale
func CareerScore(entrant *models.Entrant) float64 {
	winScore := clamp(WinPercentage(entrant.CareerResults)/10, 0, 10)

	earnings := entrant.Earnings
	if earnings.IsNegative() {
		earnings = decimal.Zero
	}
	ratio, _ := earnings.Div(earningsCeiling).Float64()
	earningsScore := math.Min(10, ratio*10)

	return winScore*careerWinWeight + earningsScore*careerEarningsWeight
}
