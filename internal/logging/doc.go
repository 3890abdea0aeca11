// Package logging provides structured logging for the emberon tools.
//
// This package wraps zap with convenience functions for the logging
// patterns used throughout the CLI and the mock service. It provides both
// general logging functions and specialized functions for frame-level
// protocol logging.
//
// # Log Levels
//
// The package supports standard log levels:
//   - Debug: Detailed debugging info (frame hex dumps, request traces)
//   - Info: Normal operations (requests served, state changes)
//   - Warn: Non-fatal issues (rejected writes, retries)
//   - Error: Fatal issues (startup failures, critical errors)
//
// # Structured Logging
//
// All log functions use structured fields for queryability:
//
//	logging.Info("Fireplace state changed",
//	    zap.String("serial", "EF36-0042"),
//	    zap.String("mode", "on"),
//	)
//
// # Configuration
//
// Logging is silent by default so CLI output stays clean. It switches on
// via the EMBERON_LOG_LEVEL environment variable:
//
//	EMBERON_LOG_LEVEL=debug emberon-ctl status
//
// Commands initialize it at startup:
//
//	if err := logging.InitializeFromEnv(); err != nil {
//	    log.Fatal(err)
//	}
//	defer logging.Sync()
//
// # Thread Safety
//
// All logging functions are safe for concurrent use. The underlying zap
// logger handles synchronization automatically.
package logging
