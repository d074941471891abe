// Package logging configures the process-wide slog logger.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Init installs the default logger for command line use: warnings only,
// or debug output when verbose.
func Init(verbose bool, format string) {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	InitLevel(level, format)
}

// InitLevel installs a default logger writing to stderr at the given level.
// Format "json" selects the JSON handler; anything else is text.
func InitLevel(level slog.Level, format string) {
	slog.SetDefault(slog.New(newHandler(os.Stderr, level, format)))
}

func newHandler(w io.Writer, level slog.Level, format string) slog.Handler {
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(format, "json") {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}

// ParseLevel maps a config level name to a slog level, defaulting to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
