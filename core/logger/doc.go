// Package logger provides a structured logging facility based on Zap.
//
// It offers a configured logger instance that supports different environments
// (development vs production).
//
// # Run Scoping
//
// Synchronization runs are scoped with WithRun, which attaches the company
// selector and a run id to every entry so the output of concurrent runs for
// different companies can be correlated.
//
// # Configuration
//
// The package supports configuration for:
//   - Level: debug, info, warn, error
//   - Encoding: json (production) or console (development)
//
// # Usage
//
//	log, _ := logger.New(&logger.Config{Level: "info"})
//	log.Info("Scheduler started")
//
//	l := logger.WithRun(log, "TRN", runID)
//	l.Error("Fetch failed", zap.Error(err))
package logger
