// Package logging builds the structured loggers used by the host tools.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Config selects level, format and destination. Unknown values fall back to
// info, text and stderr.
type Config struct {
	Level  string // debug, info, warn, error
	Format string // text or json
	Output string // stdout or stderr
}

// Logger wraps slog.Logger with the fields every host tool logs.
type Logger struct {
	*slog.Logger
}

// New creates a logger for tool writing to the configured output.
func New(cfg Config, tool string) *Logger {
	var output io.Writer = os.Stderr
	if strings.ToLower(cfg.Output) == "stdout" {
		output = os.Stdout
	}
	return NewWithWriter(cfg, tool, output)
}

// NewWithWriter is New with an explicit destination.
func NewWithWriter(cfg Config, tool string, w io.Writer) *Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.Level)}

	var handler slog.Handler
	switch strings.ToLower(cfg.Format) {
	case "json":
		handler = slog.NewJSONHandler(w, opts)
	default:
		handler = slog.NewTextHandler(w, opts)
	}

	handler = handler.WithAttrs([]slog.Attr{
		slog.String("tool", tool),
	})
	return &Logger{Logger: slog.New(handler)}
}

// parseLevel converts a level name to slog.Level, defaulting to info.
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

// With returns a child logger carrying extra attributes.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{Logger: l.Logger.With(args...)}
}
