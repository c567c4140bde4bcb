// Package logger provides audit logging.
package logger

import (
	"github.com/sirupsen/logrus"
)

// AuditLogger provides dedicated audit trail logging.
type AuditLogger struct {
	*logrus.Entry
}

// NewAuditLogger creates a new audit logger.
func NewAuditLogger(baseLogger *logrus.Logger) *AuditLogger {
	return &AuditLogger{
		Entry: baseLogger.WithField("component", "audit"),
	}
}

// LogConfigLoaded logs the effective configuration source.
func (al *AuditLogger) LogConfigLoaded(path, environment string, usedDefaults bool) {
	al.WithFields(logrus.Fields{
		"config_path":   path,
		"environment":   environment,
		"used_defaults": usedDefaults,
	}).Info("Configuration loaded")
}

// LogSecretsLoaded logs where secrets came from, never their values.
func (al *AuditLogger) LogSecretsLoaded(source string, apiKeyPresent bool) {
	al.WithFields(logrus.Fields{
		"source":          source,
		"api_key_present": apiKeyPresent,
	}).Info("Secrets loaded")
}

// LogInputFiles logs the files an analysis reads.
func (al *AuditLogger) LogInputFiles(raceFile, marketFile, trackFile string) {
	al.WithFields(logrus.Fields{
		"race_file":   raceFile,
		"market_file": marketFile,
		"track_file":  trackFile,
	}).Info("Input files selected")
}

// LogReportWritten logs that a report was emitted.
func (al *AuditLogger) LogReportWritten(runID string, raceNumber, rows int, fallback bool) {
	al.WithFields(logrus.Fields{
		"run_id":      runID,
		"race_number": raceNumber,
		"rows":        rows,
		"fallback":    fallback,
	}).Info("Report written")
}

// LogScheduleEvent logs scheduler lifecycle changes.
func (al *AuditLogger) LogScheduleEvent(eventType, spec string) {
	al.WithFields(logrus.Fields{
		"event_type": eventType,
		"spec":       spec,
	}).Info("Schedule event recorded")
}
