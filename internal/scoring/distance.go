package scoring

import (
	"github.com/yourusername/v75-value/internal/models"
)

// DistancePerformance scores an entrant's recent starts per canonical distance bucket.
// Every bucket is present in the result; buckets without data score 0.
func DistancePerformance(entrant *models.Entrant) map[models.DistanceBucket]float64 {
	points := make(map[models.DistanceBucket][]float64, len(models.DistanceBuckets))

	for i := 0; i < models.MaxPreviousRaces; i++ {
		race, ok := entrant.PreviousRace(i)
		if !ok {
			continue
		}
		distance, ok := ParseDistance(race.Distance)
		if !ok {
			continue
		}
		rank, ok := ParsePlacement(race.Position)
		if !ok {
			continue
		}
		bucket, ok := BucketDistance(distance)
		if !ok {
			continue
		}
		points[bucket] = append(points[bucket], PlacementPoints(rank))
	}

	scores := make(map[models.DistanceBucket]float64, len(models.DistanceBuckets))
	for _, bucket := range models.DistanceBuckets {
		scores[bucket] = clamp(weightedRecency(points[bucket]), 0, 10)
	}
	return scores
}
