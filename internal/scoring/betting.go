package scoring

import (
	"github.com/yourusername/v75-value/internal/models"
)

// AssignBettingPercentages sets every entrant's betting percentage from the market data
// entry for the race. Entrants without a market share, or races without market data,
// get the uniform share 100/N.
func AssignBettingPercentages(race *models.Race, market models.MarketData) {
	uniform := race.UniformPercentage()

	shares := make(map[int]float64)
	if len(market) > 0 {
		if marketRace, ok := market[race.MarketKey()]; ok {
			for _, share := range marketRace.Horses {
				shares[share.Number] = share.Percentage
			}
		}
	}

	for _, entrant := range race.Entrants {
		if pct, ok := shares[entrant.StartNumber]; ok {
			entrant.BettingPercentage = pct
			continue
		}
		entrant.BettingPercentage = uniform
	}
}
