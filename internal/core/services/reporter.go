package services

import (
	"github.com/custodia-labs/sceneload/internal/core/ports/driven"
	"github.com/custodia-labs/sceneload/internal/logger"
)

// Ensure LogReporter implements the interfaces.
var (
	_ driven.ErrorReporter    = (*LogReporter)(nil)
	_ driven.ProgressListener = (*LogReporter)(nil)
)

// LogReporter writes loader reports to the process logger.
// Warnings are visible only in verbose mode; errors are always printed.
type LogReporter struct{}

// NewLogReporter creates a reporter backed by the logger package.
func NewLogReporter() *LogReporter {
	return &LogReporter{}
}

// PartialReport logs transient progress.
func (r *LogReporter) PartialReport(msg string) {
	logger.Debug("%s", msg)
}

// MessageReport logs an informational message.
func (r *LogReporter) MessageReport(msg string) {
	logger.Info("%s", msg)
}

// WarningReport logs a recoverable problem.
func (r *LogReporter) WarningReport(msg string, err error) {
	if err != nil {
		logger.Warn("%s: %v", msg, err)
		return
	}
	logger.Warn("%s", msg)
}

// ErrorReport logs an unexpected failure.
func (r *LogReporter) ErrorReport(msg string, err error) {
	if err != nil {
		logger.Error("%s: %v", msg, err)
		return
	}
	logger.Error("%s", msg)
}

// FatalErrorReport logs a failure the caller cannot recover from.
func (r *LogReporter) FatalErrorReport(msg string, err error) {
	if err != nil {
		logger.Error("fatal: %s: %v", msg, err)
		return
	}
	logger.Error("fatal: %s", msg)
}

// DownloadStarted logs the start of a transport download.
func (r *LogReporter) DownloadStarted(url string) {
	logger.Debug("download started: %s", url)
}

// DownloadEnded logs the end of a transport download.
func (r *LogReporter) DownloadEnded(url string, err error) {
	if err != nil {
		logger.Debug("download failed: %s: %v", url, err)
		return
	}
	logger.Debug("download finished: %s", url)
}
