// Package logger configures the process-wide slog logger and provides small
// attribute helpers safe to use without nil checks.
package logger

import (
	"log/slog"
	"os"
	"strings"
)

// New creates a JSON slog logger at the given level ("debug", "info", "warn",
// "error"; anything else means info).
func New(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}

// Error creates an attribute for a single error under the key "error".
// Returns an empty Attr for nil errors, so call sites need no nil checks.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// Component tags log records with the subsystem that emitted them.
func Component(name string) slog.Attr {
	return slog.String("component", name)
}
