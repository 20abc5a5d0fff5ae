// Package telemetry carries the simulation's logging and metrics
// ambient stack: a structured slog.Logger and a small set of
// Prometheus collectors, both configured once at startup and threaded
// through the rest of the program.
package telemetry

import (
	"log/slog"
	"os"
)

// NewLogger builds a slog.Logger writing to stderr, either as
// human-readable text or as JSON, at the given level.
func NewLogger(level slog.Level, json bool) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if json {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	return slog.New(handler)
}

// LevelFromVerbosity maps a -v/-q style verbosity count to a slog level:
// 0 is info, positive values step down to debug, negative values step up
// through warn to error.
func LevelFromVerbosity(v int) slog.Level {
	switch {
	case v > 0:
		return slog.LevelDebug
	case v < -1:
		return slog.LevelError
	case v < 0:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}
