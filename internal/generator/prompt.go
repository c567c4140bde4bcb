package generator

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/yourusername/v75-value/internal/models"
)

// DefaultSystemPrompt frames the generator as a harness-racing analyst
const DefaultSystemPrompt = "You are an expert harness-racing analyst who makes nuanced quantitative assessments."

// PromptEntrant is the serialized form of a scored entrant sent to the generator
type PromptEntrant struct {
	Name               string      `json:"name"`
	StartNumber        int         `json:"start_number"`
	FormScore          float64     `json:"form_score"`
	CareerScore        float64     `json:"career_score"`
	CareerEarnings     json.Number `json:"career_earnings"`
	Distance1640Score  float64     `json:"distance_1640_score"`
	Distance2140Score  float64     `json:"distance_2140_score"`
	Distance2640Score  float64     `json:"distance_2640_score"`
	TrackPositionScore float64     `json:"track_position_score"`
	BettingPercentage  float64     `json:"betting_percentage"`
}

// PromptOptions tune the generated request
type PromptOptions struct {
	System      string
	Temperature float64
	MaxTokens   int
	JSONMode    bool
}

// PromptEntrants serializes ranked entrants with scores rounded to two decimals
func PromptEntrants(entrants []*models.Entrant) []PromptEntrant {
	out := make([]PromptEntrant, 0, len(entrants))
	for _, e := range entrants {
		out = append(out, PromptEntrant{
			Name:               e.Name,
			StartNumber:        e.StartNumber,
			FormScore:          round2(e.FormScore),
			CareerScore:        round2(e.CareerScore),
			CareerEarnings:     json.Number(e.Earnings.String()),
			Distance1640Score:  round2(e.DistanceScore(models.DistanceShort)),
			Distance2140Score:  round2(e.DistanceScore(models.DistanceMedium)),
			Distance2640Score:  round2(e.DistanceScore(models.DistanceLong)),
			TrackPositionScore: round2(e.TrackPositionScore),
			BettingPercentage:  round2(e.BettingPercentage),
		})
	}
	return out
}

// BuildPrompt renders the user prompt asking for a 100% allocation in the reply shape
// the recovery layer expects.
func BuildPrompt(entrants []*models.Entrant) (string, error) {
	if len(entrants) == 0 {
		return "", ErrNoEntrants
	}

	data, err := json.MarshalIndent(PromptEntrants(entrants), "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to serialize entrants: %w", err)
	}

	var b strings.Builder
	b.WriteString("Analyse the following horses and distribute exactly 100% between them.\n\n")
	b.WriteString("Horse data:\n")
	b.Write(data)
	b.WriteString("\n\nINSTRUCTIONS:\n")
	b.WriteString("1. Return EXACTLY this JSON format:\n")
	b.WriteString(`{
    "horses": [
        {
            "name": "Horse name",
            "start_number": number,
            "calculated_percentage": percentage (0-100, total 100)
        }
    ],
    "analysis_summary": "Explanation"
}`)
	b.WriteString("\n\n2. Weigh the allocation on:\n")
	b.WriteString("   - Form score\n   - Career results\n   - Distance performance\n   - Start position\n   - Current betting percentage\n")
	fmt.Fprintf(&b, "\n3. Include all %d horses; the percentages MUST total exactly 100\n", len(entrants))
	b.WriteString("4. Use decimals for precision")
	return b.String(), nil
}

// BuildRequest combines the prompt with the request options
func BuildRequest(entrants []*models.Entrant, opts PromptOptions) (Request, error) {
	prompt, err := BuildPrompt(entrants)
	if err != nil {
		return Request{}, err
	}
	system := opts.System
	if system == "" {
		system = DefaultSystemPrompt
	}
	return Request{
		System:      system,
		Prompt:      prompt,
		Temperature: opts.Temperature,
		MaxTokens:   opts.MaxTokens,
		JSONMode:    opts.JSONMode,
	}, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
