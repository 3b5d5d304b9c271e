// Package logging builds the process-wide *slog.Logger, grounded on
// nishisan-dev-n-backup/internal/logging/logger.go's NewLogger: a level
// parsed from a config string, a single handler writing structured text.
// SPEC_FULL.md's AMBIENT STACK section fixes the handler to stderr text,
// matching the teacher's CLI-tool texture rather than the JSON default
// that repo uses for its daemon.
package logging

import (
	"log/slog"
	"os"
	"strings"
)

// New builds a *slog.Logger at the level named by tracingLevel
// (spec §6 "tracing_level"): debug, info, warn, or error, defaulting to
// info for anything else.
func New(tracingLevel string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(tracingLevel)}
	handler := slog.NewTextHandler(os.Stderr, opts)
	return slog.New(handler)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
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
