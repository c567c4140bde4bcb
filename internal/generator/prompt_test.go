package generator

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/v75-value/internal/models"
)

func scoredEntrants() []*models.Entrant {
	return []*models.Entrant{
		{
			Name:        "Ace Royal",
			StartNumber: 4,
			Earnings:    decimal.NewFromInt(1250000),
			DistanceScores: map[models.DistanceBucket]float64{
				models.DistanceShort:  6.666666,
				models.DistanceMedium: 10,
			},
			FormScore:          8.456,
			CareerScore:        3.254999,
			TrackPositionScore: 7.5,
			BettingPercentage:  31.4159,
			CompositeScore:     6.9,
		},
		{Name: "Bold Eagle", StartNumber: 7},
	}
}

func TestPromptEntrantsRounding(t *testing.T) {
	out := PromptEntrants(scoredEntrants())

	require.Len(t, out, 2)
	assert.Equal(t, 8.46, out[0].FormScore)
	assert.Equal(t, 3.25, out[0].CareerScore)
	assert.Equal(t, 6.67, out[0].Distance1640Score)
	assert.Equal(t, 10.0, out[0].Distance2140Score)
	assert.Equal(t, 0.0, out[0].Distance2640Score)
	assert.Equal(t, 31.42, out[0].BettingPercentage)
	assert.Equal(t, json.Number("1250000"), out[0].CareerEarnings)
	assert.Equal(t, json.Number("0"), out[1].CareerEarnings)
}

func TestBuildPrompt(t *testing.T) {
	prompt, err := BuildPrompt(scoredEntrants())
	require.NoError(t, err)

	assert.Contains(t, prompt, `"name": "Ace Royal"`)
	assert.Contains(t, prompt, `"career_earnings": 1250000`)
	assert.Contains(t, prompt, `"horses"`)
	assert.Contains(t, prompt, `"analysis_summary"`)
	assert.Contains(t, prompt, `"calculated_percentage"`)
	assert.Contains(t, prompt, "Include all 2 horses")
	assert.Less(t, strings.Index(prompt, "Ace Royal"), strings.Index(prompt, "Bold Eagle"))
}

func TestBuildPromptNoEntrants(t *testing.T) {
	_, err := BuildPrompt(nil)
	assert.True(t, errors.Is(err, ErrNoEntrants))
}

func TestBuildRequest(t *testing.T) {
	req, err := BuildRequest(scoredEntrants(), PromptOptions{Temperature: 0.7, MaxTokens: 300, JSONMode: true})
	require.NoError(t, err)

	assert.Equal(t, DefaultSystemPrompt, req.System)
	assert.Equal(t, 0.7, req.Temperature)
	assert.Equal(t, 300, req.MaxTokens)
	assert.True(t, req.JSONMode)

	req, err = BuildRequest(scoredEntrants(), PromptOptions{System: "custom"})
	require.NoError(t, err)
	assert.Equal(t, "custom", req.System)
}
