// Package logger provides structured logging configuration for the application.
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// LogFormat represents the output format for logs
type LogFormat string

const (
	// FormatJSON outputs logs in JSON format (production default)
	FormatJSON LogFormat = "json"
	// FormatText outputs logs in human-readable text format (development default)
	FormatText LogFormat = "text"
)

// New creates a new structured logger based on environment configuration.
// It reads LOG_LEVEL and LOG_FORMAT from environment variables.
//
// LOG_LEVEL options: debug, info, warn, error (default: info)
// LOG_FORMAT options: json, text (default: json)
func New() *slog.Logger {
	return NewWithWriter(os.Stdout, ParseLevel(os.Getenv("LOG_LEVEL")), ParseFormat(os.Getenv("LOG_FORMAT")))
}

// NewWithWriter builds a logger writing to w with an explicit level and format
func NewWithWriter(w io.Writer, level slog.Level, format LogFormat) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: level >= slog.LevelWarn,
	}

	var handler slog.Handler
	switch format {
	case FormatText:
		handler = slog.NewTextHandler(w, opts)
	default:
		handler = slog.NewJSONHandler(w, opts)
	}

	return slog.New(handler).With("service", "daily-diet-api")
}

// ParseLevel maps a LOG_LEVEL value to a slog.Level
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
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

// ParseFormat maps a LOG_FORMAT value to a LogFormat, JSON unless "text"
func ParseFormat(s string) LogFormat {
	if strings.ToLower(s) == "text" {
		return FormatText
	}
	return FormatJSON
}

// SetDefault sets the given logger as the default slog logger
func SetDefault(logger *slog.Logger) {
	slog.SetDefault(logger)
}
