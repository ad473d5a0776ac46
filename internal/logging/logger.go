package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// New builds the application logger. format is "text" or "json"; level is one of
// debug, info, warn, error (unknown values fall back to info).
func New(appName, level, format string) *slog.Logger {
	return NewWithWriter(os.Stdout, appName, level, format)
}

func NewWithWriter(w io.Writer, appName, level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(level)}

	var handler slog.Handler
	if strings.EqualFold(format, "json") {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	return slog.New(handler).With(slog.String("app", appName))
}

func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Discard returns a logger that drops everything, for tests and quiet CLI runs.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
