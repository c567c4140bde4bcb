package datasource

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/yourusername/v75-value/internal/models"
	"github.com/yourusername/v75-value/internal/scoring"
)

// TrackStatisticsKey is the top-level key of a track statistics export
const TrackStatisticsKey = "spårstatistik"

type rawGateStat struct {
	Gate    json.RawMessage `json:"spår"`
	WinRate struct {
		Value json.RawMessage `json:"värde"`
	} `json:"segerprocent"`
}

// LoadTrackFile reads gate statistics from a track export
func LoadTrackFile(path string) (models.TrackStatistics, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, NewDataSourceError(path, ErrCodeNotFound, "track file not found", fmt.Errorf("%w: %v", ErrNotFound, err))
		}
		return nil, NewDataSourceError(path, ErrCodeIO, "failed to open track file", err)
	}
	defer f.Close()

	return LoadTrackStatistics(f, path)
}

// LoadTrackStatistics decodes {"spårstatistik": {track: {category: {subcategory: [gate stats]}}}}.
// Only the statistics tree is read: sibling keys and values that are not objects at a level
// are skipped. Gate entries without a usable gate number are dropped; win rates are kept as text.
func LoadTrackStatistics(r io.Reader, source string) (models.TrackStatistics, error) {
	var top map[string]json.RawMessage
	if err := json.NewDecoder(r).Decode(&top); err != nil {
		return nil, NewDataSourceError(source, ErrCodeInvalidData, "failed to decode track JSON", fmt.Errorf("%w: %v", ErrInvalidData, err))
	}

	stats := make(models.TrackStatistics)
	for track, rawCategories := range objectMembers(top[TrackStatisticsKey]) {
		categories := objectMembers(rawCategories)
		if categories == nil {
			continue
		}
		stats[track] = make(map[string]map[string][]models.GateStat, len(categories))
		for category, rawSubcategories := range categories {
			subcategories := objectMembers(rawSubcategories)
			if subcategories == nil {
				continue
			}
			stats[track][category] = make(map[string][]models.GateStat, len(subcategories))
			for subcategory, rawGates := range subcategories {
				var gates []json.RawMessage
				if err := json.Unmarshal(rawGates, &gates); err != nil {
					continue
				}
				stats[track][category][subcategory] = gateStats(gates)
			}
		}
	}
	return stats, nil
}

// objectMembers returns the members of a JSON object, or nil when raw is not an object
func objectMembers(raw json.RawMessage) map[string]json.RawMessage {
	if len(raw) == 0 {
		return nil
	}
	var members map[string]json.RawMessage
	if err := json.Unmarshal(raw, &members); err != nil {
		return nil
	}
	return members
}

func gateStats(gates []json.RawMessage) []models.GateStat {
	converted := make([]models.GateStat, 0, len(gates))
	for _, raw := range gates {
		var g rawGateStat
		if err := json.Unmarshal(raw, &g); err != nil {
			continue
		}
		gate, ok := scoring.ParsePositiveInt(rawText(g.Gate))
		if !ok {
			continue
		}
		converted = append(converted, models.GateStat{Gate: gate, WinRate: rawText(g.WinRate.Value)})
	}
	return converted
}

// rawText renders a JSON string or number as plain text
func rawText(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return strings.TrimSpace(string(raw))
}
