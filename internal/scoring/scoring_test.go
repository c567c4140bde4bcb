package scoring

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/v75-value/internal/models"
)

func withRaces(races ...models.PreviousRace) *models.Entrant {
	return &models.Entrant{Name: "Test", StartNumber: 1, PreviousRaces: races}
}

func pos(distance, position string) models.PreviousRace {
	return models.PreviousRace{Distance: distance, Position: position}
}

func TestFormScore(t *testing.T) {
	tests := []struct {
		name    string
		entrant *models.Entrant
		want    float64
	}{
		{"Winning streak clamps to 10", withRaces(pos("", "1"), pos("", "2"), pos("", "3")), 10},
		{"No data is neutral", withRaces(), NeutralFormScore},
		{"All invalid is neutral", withRaces(pos("", "x"), pos("", ""), pos("", "0")), NeutralFormScore},
		{"Weights by index", withRaces(pos("", "6"), pos("", "6"), pos("", "6")), 2},
		{"Disqualified counts as tenth", withRaces(pos("", "d")), 1},
		{"Skipped entries shift weights", withRaces(pos("", "x"), pos("", "4")), 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, FormScore(tt.entrant), 1e-9)
		})
	}
}

func TestCareerScore(t *testing.T) {
	tests := []struct {
		name     string
		results  string
		earnings int64
		want     float64
	}{
		{"Wins and earnings", "20 5-20", 500000, 3.25},
		{"Earnings saturate", "10 10-0", 3000000, 10},
		{"Unparsable record", "none", 0, 0},
		{"Zero starts", "0 0-0", 1000000, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := &models.Entrant{CareerResults: tt.results, Earnings: decimal.NewFromInt(tt.earnings)}
			assert.InDelta(t, tt.want, CareerScore(e), 1e-9)
		})
	}
}

func TestDistancePerformance(t *testing.T) {
	e := withRaces(pos("2140", "1"), pos("1640", "3"), pos("2160", "2"))
	scores := DistancePerformance(e)

	require.Len(t, scores, 3)
	assert.InDelta(t, 6, scores[models.DistanceShort], 1e-9)
	assert.InDelta(t, 10*0.7+8*0.3, scores[models.DistanceMedium], 1e-9)
	assert.Equal(t, 0.0, scores[models.DistanceLong])
}

func TestDistancePerformanceSkipsUnusableRaces(t *testing.T) {
	e := withRaces(pos("3000", "1"), pos("abc", "1"), pos("2640", ""))
	for bucket, score := range DistancePerformance(e) {
		assert.Equal(t, 0.0, score, "bucket %s", bucket)
	}
}

func TestTrackPositionScore(t *testing.T) {
	stats := models.TrackStatistics{
		"Axevalla": {"autostart": {"hög": {
			{Gate: 1, WinRate: "14%"},
			{Gate: 2, WinRate: "0,5%"},
			{Gate: 3, WinRate: "okänt"},
			{Gate: 4, WinRate: "7.5"},
		}}},
	}
	path := DefaultTrackPath()

	tests := []struct {
		start int
		stats models.TrackStatistics
		want  float64
	}{
		{1, stats, 10},
		{2, stats, 1},
		{3, stats, NeutralTrackPositionScore},
		{4, stats, 7.5},
		{9, stats, NeutralTrackPositionScore},
		{1, nil, NeutralTrackPositionScore},
	}

	for _, tt := range tests {
		e := &models.Entrant{StartNumber: tt.start}
		assert.InDelta(t, tt.want, TrackPositionScore(e, tt.stats, path), 1e-9, "gate %d", tt.start)
	}

	other := TrackPath{Track: "Solvalla", Category: "autostart", Subcategory: "hög"}
	assert.Equal(t, NeutralTrackPositionScore, TrackPositionScore(&models.Entrant{StartNumber: 1}, stats, other))
}

func fiveEntrantRace() *models.Race {
	race := &models.Race{Number: 2}
	for i := 1; i <= 5; i++ {
		race.Entrants = append(race.Entrants, &models.Entrant{Name: "H", StartNumber: i})
	}
	return race
}

func TestAssignBettingPercentagesWithoutMarketKey(t *testing.T) {
	race := fiveEntrantRace()
	AssignBettingPercentages(race, models.MarketData{"V75-9": {Horses: []models.MarketShare{{Number: 1, Percentage: 90}}}})

	for _, e := range race.Entrants {
		assert.InDelta(t, 20.0, e.BettingPercentage, 1e-9)
	}
}

func TestAssignBettingPercentagesPartialMarket(t *testing.T) {
	race := fiveEntrantRace()
	AssignBettingPercentages(race, models.MarketData{"V75-2": {Horses: []models.MarketShare{
		{Number: 1, Percentage: 42.5},
		{Number: 3, Percentage: 0},
	}}})

	assert.Equal(t, 42.5, race.Entrants[0].BettingPercentage)
	assert.Equal(t, 20.0, race.Entrants[1].BettingPercentage)
	assert.Equal(t, 0.0, race.Entrants[2].BettingPercentage)
}

func TestWeightsValidate(t *testing.T) {
	assert.NoError(t, DefaultWeights().Validate())
	assert.InDelta(t, 1.0, DefaultWeights().Sum(), 1e-9)

	bad := DefaultWeights()
	bad.Form = 0.5
	assert.Error(t, bad.Validate())

	negative := DefaultWeights()
	negative.Form = -0.1
	negative.Career = 0.6
	assert.Error(t, negative.Validate())
}

func TestScorerScore(t *testing.T) {
	race := &models.Race{
		Number: 1,
		Entrants: []*models.Entrant{
			{Name: "Weak", StartNumber: 1, CareerResults: "10 0-0", PreviousRaces: []models.PreviousRace{pos("2140", "9")}},
			{Name: "Strong", StartNumber: 2, CareerResults: "10 5-2", Earnings: decimal.NewFromInt(900000),
				PreviousRaces: []models.PreviousRace{pos("2140", "1"), pos("1640", "1"), pos("2640", "2")}},
			{Name: "Empty", StartNumber: 3},
		},
	}

	ranked := NewScorer(DefaultOptions()).Score(race, nil)

	require.Len(t, ranked, 3)
	assert.Equal(t, "Strong", ranked[0].Name)
	for _, e := range ranked {
		assert.GreaterOrEqual(t, e.FormScore, 0.0)
		assert.LessOrEqual(t, e.FormScore, 10.0)
		assert.GreaterOrEqual(t, e.CareerScore, 0.0)
		assert.LessOrEqual(t, e.CareerScore, 10.0)
		assert.GreaterOrEqual(t, e.TrackPositionScore, 1.0)
		assert.LessOrEqual(t, e.TrackPositionScore, 10.0)
		for _, s := range e.DistanceScores {
			assert.GreaterOrEqual(t, s, 0.0)
			assert.LessOrEqual(t, s, 10.0)
		}
		assert.GreaterOrEqual(t, e.CompositeScore, 0.0)
		assert.LessOrEqual(t, e.CompositeScore, 10.0)
		assert.InDelta(t, 100.0/3, e.BettingPercentage, 1e-9)
	}
	for i := 1; i < len(ranked); i++ {
		assert.GreaterOrEqual(t, ranked[i-1].CompositeScore, ranked[i].CompositeScore)
	}
	assert.Equal(t, "Weak", race.Entrants[0].Name, "input order is preserved")
}

func TestScorerIsDeterministic(t *testing.T) {
	build := func() *models.Race {
		return &models.Race{Number: 1, Entrants: []*models.Entrant{
			{Name: "A", StartNumber: 1, PreviousRaces: []models.PreviousRace{pos("2140", "2")}},
			{Name: "B", StartNumber: 2, PreviousRaces: []models.PreviousRace{pos("2140", "2")}},
			{Name: "C", StartNumber: 3, CareerResults: "5 1-1"},
		}}
	}

	first := NewScorer(DefaultOptions()).Score(build(), nil)
	second := NewScorer(DefaultOptions()).Score(build(), nil)

	require.Len(t, second, len(first))
	for i := range first {
		assert.Equal(t, first[i].StartNumber, second[i].StartNumber)
		assert.Equal(t, first[i].CompositeScore, second[i].CompositeScore)
	}
	assert.Equal(t, 1, first[0].StartNumber, "ties keep input order")
	assert.Equal(t, 2, first[1].StartNumber)
}
