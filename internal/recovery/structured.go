package recovery

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/yourusername/v75-value/internal/models"
)

const (
	entriesKey     = "horses"
	summaryKey     = "analysis_summary"
	nameKey        = "name"
	startNumberKey = "start_number"
	percentageKey  = "calculated_percentage"
)

var fencePattern = regexp.MustCompile("```[A-Za-z0-9_-]*")

// StripFences removes surrounding whitespace and every code-fence marker, including a language tag.
func StripFences(text string) string {
	return strings.TrimSpace(fencePattern.ReplaceAllString(strings.TrimSpace(text), ""))
}

// outermostObject trims text to the span between the first '{' and the last '}'
func outermostObject(text string) (string, bool) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return "", false
	}
	return text[start : end+1], true
}

// parseStructured decodes the reply as a JSON object carrying both an entry list and a summary,
// then keeps the entries whose required fields are present and well-typed. A repeated start
// number keeps its first occurrence.
func parseStructured(text string) (candidate, bool) {
	body, ok := outermostObject(StripFences(text))
	if !ok {
		return candidate{}, false
	}

	var top map[string]json.RawMessage
	if err := json.Unmarshal([]byte(body), &top); err != nil || top == nil {
		return candidate{}, false
	}
	rawEntries, hasEntries := top[entriesKey]
	rawSummary, hasSummary := top[summaryKey]
	if !hasEntries || !hasSummary {
		return candidate{}, false
	}

	var items []map[string]json.RawMessage
	if err := json.Unmarshal(rawEntries, &items); err != nil {
		return candidate{}, false
	}

	entries := make([]models.DistributionEntry, 0, len(items))
	seen := make(map[int]bool, len(items))
	for _, item := range items {
		entry, ok := decodeEntry(item)
		if !ok || seen[entry.StartNumber] {
			continue
		}
		seen[entry.StartNumber] = true
		entries = append(entries, entry)
	}
	if len(entries) == 0 {
		return candidate{}, false
	}

	return candidate{entries: entries, summary: decodeSummary(rawSummary)}, true
}

func decodeEntry(item map[string]json.RawMessage) (models.DistributionEntry, bool) {
	if item == nil {
		return models.DistributionEntry{}, false
	}
	var name string
	if err := json.Unmarshal(item[nameKey], &name); err != nil || strings.TrimSpace(name) == "" {
		return models.DistributionEntry{}, false
	}
	startNumber, ok := decodeNumber(item[startNumberKey])
	if !ok || startNumber <= 0 || startNumber != math.Trunc(startNumber) {
		return models.DistributionEntry{}, false
	}
	percentage, ok := decodeNumber(item[percentageKey])
	if !ok || percentage < 0 {
		return models.DistributionEntry{}, false
	}
	return models.DistributionEntry{
		Name:                 strings.TrimSpace(name),
		StartNumber:          int(startNumber),
		CalculatedPercentage: percentage,
	}, true
}

// decodeNumber accepts a JSON number or a numeric string such as "12.5" or "12,5%"
func decodeNumber(raw json.RawMessage) (float64, bool) {
	if len(raw) == 0 {
		return 0, false
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, false
		}
		s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "%"))
		s = strings.ReplaceAll(s, ",", ".")
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func decodeSummary(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return strings.TrimSpace(string(raw))
}
