package comparison

import (
	"fmt"
	"strings"

	"github.com/yourusername/v75-value/internal/models"
)

// GenerateConsoleReport formats a comparison report for terminal output
func GenerateConsoleReport(report *models.ComparisonReport) string {
	var builder strings.Builder
	builder.WriteString("Recovered Distribution vs Betting Share\n")
	builder.WriteString("=======================================\n")
	if report == nil {
		return builder.String()
	}

	for _, row := range report.Rows {
		builder.WriteString(fmt.Sprintf("\nStart %d:\n", row.StartNumber))
		builder.WriteString(fmt.Sprintf("  Name: %s\n", row.Name))
		builder.WriteString(fmt.Sprintf("  Recovered: %.1f%%\n", row.RecoveredPercentage))
		builder.WriteString(fmt.Sprintf("  Betting: %.1f%%\n", row.BettingPercentage))
		builder.WriteString(fmt.Sprintf("  Deviation: %.1f%%\n", row.Deviation))
		builder.WriteString(fmt.Sprintf("  Status: %s", row.Status))
		if row.MissingFromRecovered {
			builder.WriteString(" (not in recovered distribution)")
		}
		builder.WriteString("\n")
	}

	counts := report.CountByStatus()
	builder.WriteString(fmt.Sprintf("\nOverplayed: %d  Underplayed: %d  Normal: %d\n",
		counts[models.PlayStatusOverplayed], counts[models.PlayStatusUnderplayed], counts[models.PlayStatusNormal]))
	builder.WriteString("\nAnalysis summary:\n")
	builder.WriteString(report.Summary)
	builder.WriteString("\n")
	return builder.String()
}

// GenerateRankingReport formats the scored entrants in ranked order
func GenerateRankingReport(raceNumber int, entrants []*models.Entrant) string {
	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("Race %d Ranking\n", raceNumber))
	builder.WriteString("===============\n")
	builder.WriteString(fmt.Sprintf("%-4s %-4s %-24s %7s %6s %6s %6s %6s %6s %6s %8s\n",
		"Rank", "No", "Name", "Total", "Form", "Career", "1640", "2140", "2640", "Track", "Betting"))

	for i, e := range entrants {
		builder.WriteString(fmt.Sprintf("%-4d %-4d %-24s %7.2f %6.2f %6.2f %6.2f %6.2f %6.2f %6.2f %7.2f%%\n",
			i+1,
			e.StartNumber,
			truncate(e.Name, 24),
			e.CompositeScore,
			e.FormScore,
			e.CareerScore,
			e.DistanceScore(models.DistanceShort),
			e.DistanceScore(models.DistanceMedium),
			e.DistanceScore(models.DistanceLong),
			e.TrackPositionScore,
			e.BettingPercentage,
		))
	}
	return builder.String()
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}
