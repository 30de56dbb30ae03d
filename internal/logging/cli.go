// Package logging installs a compact slog handler for command-line output.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/fatih/color"
)

// CLIHandler is a custom slog.Handler for CLI output.
type CLIHandler struct {
	writer io.Writer
	level  slog.Level
	prefix string
	attrs  []slog.Attr
	colors map[slog.Level]*color.Color
}

// NewCLIHandler writes records at or above level to w, colorized when useColors is set.
func NewCLIHandler(w io.Writer, level slog.Level, useColors bool) *CLIHandler {
	h := &CLIHandler{writer: w, level: level}
	if useColors {
		h.colors = map[slog.Level]*color.Color{
			slog.LevelDebug: color.New(color.FgHiBlack),
			slog.LevelInfo:  color.New(color.FgGreen),
			slog.LevelWarn:  color.New(color.FgYellow),
			slog.LevelError: color.New(color.FgRed, color.Bold),
		}
		for _, c := range h.colors {
			c.EnableColor()
		}
	}
	return h
}

// Enabled reports whether records at level are written.
func (h *CLIHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

// Handle formats r as "[prefix] message: key=value ..." on a single line.
func (h *CLIHandler) Handle(_ context.Context, r slog.Record) error {
	msg := r.Message
	if h.prefix != "" {
		msg = "[" + h.prefix + "] " + msg
	}

	attrs := make([]string, 0, len(h.attrs)+r.NumAttrs())
	for _, a := range h.attrs {
		attrs = append(attrs, fmt.Sprintf("%s=%v", a.Key, a.Value))
	}
	r.Attrs(func(a slog.Attr) bool {
		attrs = append(attrs, fmt.Sprintf("%s=%v", a.Key, a.Value))
		return true
	})
	if len(attrs) > 0 {
		msg = msg + ": " + strings.Join(attrs, " ")
	}

	if c := h.colorFor(r.Level); c != nil {
		msg = c.Sprint(msg)
	}
	_, err := fmt.Fprintln(h.writer, msg)
	return err
}

func (h *CLIHandler) colorFor(level slog.Level) *color.Color {
	switch {
	case h.colors == nil:
		return nil
	case level >= slog.LevelError:
		return h.colors[slog.LevelError]
	case level >= slog.LevelWarn:
		return h.colors[slog.LevelWarn]
	case level >= slog.LevelInfo:
		return h.colors[slog.LevelInfo]
	default:
		return h.colors[slog.LevelDebug]
	}
}

// WithAttrs returns a handler that appends attrs to every record.
func (h *CLIHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.attrs = append(append([]slog.Attr{}, h.attrs...), attrs...)
	return &clone
}

// WithGroup returns a handler that prefixes every message with name.
func (h *CLIHandler) WithGroup(name string) slog.Handler {
	clone := *h
	clone.prefix = name
	return &clone
}

// NewCLILogger returns a logger writing to stderr.
func NewCLILogger(level string, useColors bool) *slog.Logger {
	return slog.New(NewCLIHandler(os.Stderr, ParseLogLevel(level), useColors))
}

// SetDefaultCLILogger installs a CLI logger as the slog default.
func SetDefaultCLILogger(level string, useColors bool) {
	slog.SetDefault(NewCLILogger(level, useColors))
}

// ParseLogLevel converts a string log level to slog.Level.
// Defaults to slog.LevelWarn for unrecognized strings.
func ParseLogLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}
