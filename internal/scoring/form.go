package scoring

import (
	"github.com/yourusername/v75-value/internal/models"
)

// NeutralFormScore is returned when an entrant has no valid recent placement.
const NeutralFormScore = 5.0

// FormScore weights the three most recent valid placements 0.5/0.3/0.2,
// doubles the sum and clamps it to [0,10].
func FormScore(entrant *models.Entrant) float64 {
	var ranks []int
	for i := 0; i < models.MaxPreviousRaces; i++ {
		race, ok := entrant.PreviousRace(i)
		if !ok {
			continue
		}
		if rank, ok := ParsePlacement(race.Position); ok {
			ranks = append(ranks, rank)
		}
	}
	if len(ranks) == 0 {
		return NeutralFormScore
	}

	var total float64
	for i, rank := range ranks {
		if i >= len(formWeights) {
			break
		}
		total += PlacementPoints(rank) * formWeights[i]
	}
	return clamp(total*2, 0, 10)
}
