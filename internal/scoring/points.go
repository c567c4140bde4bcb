package scoring

// PlacementPoints maps a finishing rank to points: 1st=10, 2nd=8, 3rd=6, 4th-5th=4, else 1.
func PlacementPoints(rank int) float64 {
	switch {
	case rank == 1:
		return 10
	case rank == 2:
		return 8
	case rank == 3:
		return 6
	case rank >= 4 && rank <= 5:
		return 4
	default:
		return 1
	}
}

// recencyWeights are keyed by how many data points are available, most recent first.
var recencyWeights = map[int][]float64{
	1: {1.0},
	2: {0.7, 0.3},
	3: {0.5, 0.3, 0.2},
}

// formWeights apply to the most recent overall placements by position.
var formWeights = []float64{0.5, 0.3, 0.2}

// weightedRecency combines up to three points with the recency weights for their count
func weightedRecency(points []float64) float64 {
	if len(points) == 0 {
		return 0
	}
	if len(points) > len(formWeights) {
		points = points[:len(formWeights)]
	}
	weights := recencyWeights[len(points)]
	var total float64
	for i, p := range points {
		total += p * weights[i]
	}
	return total
}
