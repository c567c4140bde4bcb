package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// MarketShare is the public betting share of one start number
type MarketShare struct {
	Number     int     `json:"number" validate:"gt=0"`
	Percentage float64 `json:"percentage" validate:"gte=0,lte=100"`
}

// MarketRace holds the betting shares for one race
type MarketRace struct {
	Horses []MarketShare `json:"horses" validate:"dive"`
}

// MarketData is keyed by race key, e.g. "V75-3"
type MarketData map[string]MarketRace

// UnmarshalJSON accepts numbers or numeric strings for both fields, as exported by
// the different betting-share scrapers.
func (m *MarketShare) UnmarshalJSON(data []byte) error {
	var raw struct {
		Number     json.RawMessage `json:"number"`
		Percentage json.RawMessage `json:"percentage"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	number, err := flexFloat(raw.Number)
	if err != nil {
		return fmt.Errorf("market share number: %w", err)
	}
	percentage, err := flexFloat(raw.Percentage)
	if err != nil {
		return fmt.Errorf("market share percentage: %w", err)
	}

	m.Number = int(number)
	m.Percentage = percentage
	return nil
}

func flexFloat(raw json.RawMessage) (float64, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return 0, nil
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return f, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, fmt.Errorf("expected number or string, got %s", string(raw))
	}
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "%"))
	s = strings.ReplaceAll(s, ",", ".")
	return strconv.ParseFloat(s, 64)
}
