// Package scoring converts raw entrant history into bounded sub-scores and a weighted composite.
package scoring

import (
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/yourusername/v75-value/internal/models"
)

const (
	// DisqualifiedSentinel marks a disqualified finish in placement fields.
	DisqualifiedSentinel = "d"
	// DisqualifiedRank is the rank a disqualified finish is scored as.
	DisqualifiedRank = 10

	// DistanceTolerance is how far a distance may lie from a canonical value and still bucket to it.
	DistanceTolerance = 100
)

// CanonicalDistances maps each bucket to its canonical race length in meters.
var CanonicalDistances = map[models.DistanceBucket]int{
	models.DistanceShort:  1640,
	models.DistanceMedium: 2140,
	models.DistanceLong:   2640,
}

// missingMarkers are the textual forms a missing value takes in exported spreadsheets.
var missingMarkers = map[string]bool{
	"":     true,
	"nan":  true,
	"na":   true,
	"n/a":  true,
	"none": true,
	"null": true,
	"-":    true,
}

// IsMissing reports whether a raw field carries no value
func IsMissing(raw string) bool {
	return missingMarkers[strings.ToLower(strings.TrimSpace(raw))]
}

// ParsePlacement converts a raw finishing position to a rank.
// A disqualification is rank 10; missing, non-numeric or non-positive values are discarded.
func ParsePlacement(raw string) (int, bool) {
	if IsMissing(raw) {
		return 0, false
	}
	value := strings.ToLower(strings.TrimSpace(raw))
	if strings.Contains(value, DisqualifiedSentinel) {
		return DisqualifiedRank, true
	}
	rank, ok := parseWholeNumber(value)
	if !ok || rank <= 0 {
		return 0, false
	}
	return rank, true
}

// ParsePositiveInt reads a positive whole number such as a start number or a gate
func ParsePositiveInt(raw string) (int, bool) {
	if IsMissing(raw) {
		return 0, false
	}
	n, ok := parseWholeNumber(strings.TrimSpace(raw))
	if !ok || n <= 0 {
		return 0, false
	}
	return n, true
}

// ParseDistance converts a raw race distance in meters
func ParseDistance(raw string) (int, bool) {
	return ParsePositiveInt(raw)
}

// BucketDistance returns the canonical bucket within DistanceTolerance of the distance.
// Buckets are checked shortest first.
func BucketDistance(distance int) (models.DistanceBucket, bool) {
	for _, bucket := range models.DistanceBuckets {
		canonical := CanonicalDistances[bucket]
		if abs(distance-canonical) <= DistanceTolerance {
			return bucket, true
		}
	}
	return "", false
}

// ParseMoney parses an earnings amount. Unparsable or negative amounts are zero.
func ParseMoney(raw string) decimal.Decimal {
	if IsMissing(raw) {
		return decimal.Zero
	}
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\u00a0', '_', ',':
			return -1
		}
		return r
	}, strings.TrimSpace(raw))
	cleaned = strings.TrimSuffix(strings.TrimSuffix(strings.ToLower(cleaned), "kr"), ":-")

	amount, err := decimal.NewFromString(cleaned)
	if err != nil || amount.IsNegative() {
		return decimal.Zero
	}
	return amount
}

// ParsePercentString parses "12.5%", "12,5 %" or "12.5" into a float
func ParsePercentString(raw string) (float64, bool) {
	if IsMissing(raw) {
		return 0, false
	}
	value := strings.TrimSpace(raw)
	value = strings.TrimSpace(strings.TrimSuffix(value, "%"))
	value = strings.ReplaceAll(value, ",", ".")
	f, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// ParseCareer reads "<totalStarts> <wins>-<rest>" and returns starts and wins
func ParseCareer(raw string) (starts, wins int, ok bool) {
	if IsMissing(raw) {
		return 0, 0, false
	}
	parts := strings.Fields(raw)
	if len(parts) < 2 {
		return 0, 0, false
	}
	starts, ok = parseWholeNumber(parts[0])
	if !ok {
		return 0, 0, false
	}
	wins, ok = parseWholeNumber(strings.SplitN(parts[1], "-", 2)[0])
	if !ok {
		return 0, 0, false
	}
	return starts, wins, true
}

// parseWholeNumber accepts "7" and integral floats such as "7.0"
func parseWholeNumber(value string) (int, bool) {
	if n, err := strconv.Atoi(value); err == nil {
		return n, true
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	return int(f), true
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func clamp(value, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, value))
}
