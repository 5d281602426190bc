// Package logging builds the slog loggers used by the library and the CLI.
package logging

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// LogLevel represents logging verbosity
type LogLevel string

const (
	LevelDebug LogLevel = "DEBUG"
	LevelInfo  LogLevel = "INFO"
	LevelWarn  LogLevel = "WARN"
	LevelError LogLevel = "ERROR"
)

// Config holds logger configuration
type Config struct {
	Level      LogLevel
	OutputPath string // Empty for stderr, or file path
	Format     string // "json" or "text"
}

// New returns a logger for the given configuration together with a close
// function releasing the log file, if any.
func New(config Config) (*slog.Logger, func() error, error) {
	var writer io.Writer = os.Stderr
	closeFn := func() error { return nil }

	if config.OutputPath != "" {
		if err := os.MkdirAll(filepath.Dir(config.OutputPath), 0o750); err != nil {
			return nil, nil, err
		}
		file, err := os.OpenFile(config.OutputPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return nil, nil, err
		}
		writer = file
		closeFn = file.Close
	}

	return NewWithWriter(writer, config), closeFn, nil
}

// NewWithWriter returns a logger writing to w.
func NewWithWriter(w io.Writer, config Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(config.Level)}
	var handler slog.Handler
	if strings.EqualFold(config.Format, "json") {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}

// ParseLevel maps a LogLevel to its slog level. Unknown values yield INFO.
func ParseLevel(level LogLevel) slog.Level {
	switch LogLevel(strings.ToUpper(string(level))) {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
