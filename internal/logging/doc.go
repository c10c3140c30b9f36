// Package logging provides structured logging for the airq tools.
//
// This package wraps the zap logger with convenience functions for the
// logging patterns used throughout the toolkit. Logging is silent by
// default so that CLI output stays clean; set AIRQ_LOG_LEVEL to enable it.
//
// # Log Levels
//
//   - Debug: per-request details, decode stages, comparison results
//   - Info: normal operations (polls, discovery, exporter lifecycle)
//   - Warn: non-fatal issues (failed polls, decode failures)
//   - Error: fatal issues (startup failures)
//
// # Structured Logging
//
// All log functions use structured fields for queryability:
//
//	logging.Info("Device discovered",
//	    zap.String("device", "192.168.4.20"),
//	    zap.String("id", "a123f"),
//	)
//
// # Configuration
//
// Initialize logging at startup:
//
//	if err := logging.Initialize("debug"); err != nil {
//	    log.Fatal(err)
//	}
//	defer logging.Sync()
//
// The core protocol and telemetry packages never log; propagating errors
// is their only failure channel. Logging happens in the layers that own
// the network calls.
//
// # Thread Safety
//
// All logging functions are safe for concurrent use.
package logging
