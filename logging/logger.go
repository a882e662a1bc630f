// Package logging provides the structured logger shared by the engine systems.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Logger is the logging surface the engine depends on
type Logger interface {
	Info(msg string, keyValues ...any)
	Error(msg string, keyValues ...any)
	Debug(msg string, keyValues ...any)
	Warn(msg string, keyValues ...any)
}

// SlogAdapter implements Logger on top of a slog.Logger
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter wraps a slog logger
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	return &SlogAdapter{logger: logger}
}

func (a *SlogAdapter) Info(msg string, keyValues ...any) {
	a.logger.Info(msg, keyValues...)
}

func (a *SlogAdapter) Error(msg string, keyValues ...any) {
	a.logger.Error(msg, keyValues...)
}

func (a *SlogAdapter) Debug(msg string, keyValues ...any) {
	a.logger.Debug(msg, keyValues...)
}

func (a *SlogAdapter) Warn(msg string, keyValues ...any) {
	a.logger.Warn(msg, keyValues...)
}

// Config selects the level and output format of a logger
type Config struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// New builds a Logger writing to w. Format is "text" (default) or "json".
func New(cfg Config, w io.Writer) (*SlogAdapter, error) {
	if w == nil {
		w = os.Stderr
	}

	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	switch strings.ToLower(cfg.Format) {
	case "", "text":
		handler = slog.NewTextHandler(w, opts)
	case "json":
		handler = slog.NewJSONHandler(w, opts)
	default:
		return nil, fmt.Errorf("unknown log format %q", cfg.Format)
	}
	return NewSlogAdapter(slog.New(handler)), nil
}

// ParseLevel maps a level name to a slog level. Empty means info.
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", level)
}

// Discard returns a Logger that drops everything
func Discard() Logger {
	return NewSlogAdapter(slog.New(slog.NewTextHandler(io.Discard, nil)))
}
