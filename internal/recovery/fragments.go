package recovery

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/yourusername/v75-value/internal/models"
)

var (
	fragmentPattern = regexp.MustCompile(
		`\{\s*"name"\s*:\s*"([^"]+)"\s*,\s*"start_number"\s*:\s*(\d+)\s*,\s*"calculated_percentage"\s*:\s*(\d+(?:\.\d+)?)\s*\}`)
	summaryPattern = regexp.MustCompile(`"analysis_summary"\s*:\s*"((?:[^"\\]|\\.)*)"`)
)

// scanFragments pulls fixed-shape entry objects out of otherwise broken text.
// Entries are kept in the order they appear; a repeated start number keeps its first occurrence.
func scanFragments(text string) (candidate, bool) {
	matches := fragmentPattern.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return candidate{}, false
	}

	seen := make(map[int]bool, len(matches))
	entries := make([]models.DistributionEntry, 0, len(matches))
	for _, m := range matches {
		startNumber, err := strconv.Atoi(m[2])
		if err != nil || startNumber <= 0 || seen[startNumber] {
			continue
		}
		percentage, err := strconv.ParseFloat(m[3], 64)
		if err != nil {
			continue
		}
		seen[startNumber] = true
		entries = append(entries, models.DistributionEntry{
			Name:                 strings.TrimSpace(m[1]),
			StartNumber:          startNumber,
			CalculatedPercentage: percentage,
		})
	}
	if len(entries) == 0 {
		return candidate{}, false
	}

	return candidate{entries: entries, summary: scanSummary(text)}, true
}

func scanSummary(text string) string {
	m := summaryPattern.FindStringSubmatch(text)
	if m == nil {
		return FragmentSummary
	}
	if s, err := strconv.Unquote(`"` + m[1] + `"`); err == nil && strings.TrimSpace(s) != "" {
		return s
	}
	if strings.TrimSpace(m[1]) == "" {
		return FragmentSummary
	}
	return m[1]
}
