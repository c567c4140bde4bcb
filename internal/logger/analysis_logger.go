// Package logger provides race-analysis logging.
package logger

import (
	"time"

	"github.com/sirupsen/logrus"
)

// AnalysisLogger provides dedicated logging for the analysis pipeline.
type AnalysisLogger struct {
	*logrus.Entry
}

// NewAnalysisLogger creates a new analysis logger.
func NewAnalysisLogger(baseLogger *logrus.Logger) *AnalysisLogger {
	return &AnalysisLogger{
		Entry: baseLogger.WithField("component", "analysis"),
	}
}

// LogRaceScored logs a scored race with its top-ranked entrant.
func (al *AnalysisLogger) LogRaceScored(runID string, raceNumber, entrants int, topName string, topScore float64, duration time.Duration) {
	al.WithFields(logrus.Fields{
		"run_id":      runID,
		"race_number": raceNumber,
		"entrants":    entrants,
		"top_entrant": topName,
		"top_score":   topScore,
		"duration_ms": duration.Milliseconds(),
	}).Info("Race scored")
}

// LogGeneratorCall logs a text generator exchange.
func (al *AnalysisLogger) LogGeneratorCall(runID, model string, promptChars, replyChars int, duration time.Duration, err error) {
	entry := al.WithFields(logrus.Fields{
		"run_id":       runID,
		"model":        model,
		"prompt_chars": promptChars,
		"reply_chars":  replyChars,
		"duration_ms":  duration.Milliseconds(),
	})
	if err != nil {
		entry.WithError(err).Warn("Text generator call failed, falling back to uniform distribution")
		return
	}
	entry.Info("Text generator replied")
}

// LogGeneratorReply logs the raw generator reply at debug level.
func (al *AnalysisLogger) LogGeneratorReply(runID, reply string) {
	al.WithFields(logrus.Fields{
		"run_id": runID,
		"reply":  reply,
	}).Debug("Full generator reply")
}

// LogRecovery logs which recovery step produced the distribution.
func (al *AnalysisLogger) LogRecovery(runID, method string, entries int, normalized bool, missing []int) {
	entry := al.WithFields(logrus.Fields{
		"run_id":     runID,
		"method":     method,
		"entries":    entries,
		"normalized": normalized,
		"missing":    missing,
	})
	if method == "uniform_fallback" {
		entry.Warn("Distribution recovery fell back to uniform")
		return
	}
	entry.Info("Distribution recovered")
}

// LogComparison logs the comparison outcome counts.
func (al *AnalysisLogger) LogComparison(runID string, raceNumber, overplayed, underplayed, normal int) {
	al.WithFields(logrus.Fields{
		"run_id":      runID,
		"race_number": raceNumber,
		"overplayed":  overplayed,
		"underplayed": underplayed,
		"normal":      normal,
	}).Info("Comparison completed")
}

// LogAnalysisCompleted logs the end of a run.
func (al *AnalysisLogger) LogAnalysisCompleted(runID string, raceNumber int, outcome string, duration time.Duration) {
	al.WithFields(logrus.Fields{
		"run_id":      runID,
		"race_number": raceNumber,
		"outcome":     outcome,
		"duration_ms": duration.Milliseconds(),
	}).Info("Analysis completed")
}
