// Package logging installs the process-wide slog logger.
package logging

import (
	"io"
	"log/slog"
	"strings"
)

// New returns a logger writing to w. format is "json" or "text".
func New(w io.Writer, format string, level slog.Level) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(format, "text") {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

// Setup installs New(w, format, level) as the default logger.
func Setup(w io.Writer, format string, level slog.Level) *slog.Logger {
	logger := New(w, format, level)
	slog.SetDefault(logger)
	return logger
}
