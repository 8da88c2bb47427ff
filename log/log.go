// Package log wraps log/slog with the module conventions: a package-level
// default logger, and per-subsystem child loggers via Module.
package log

import (
	"log/slog"
	"os"
)

// Logger is a thin wrapper around *slog.Logger.
type Logger struct {
	inner *slog.Logger
}

var defaultLogger = New(slog.LevelInfo)

// New builds a JSON-to-stderr logger at the given level.
func New(level slog.Level) *Logger {
	h := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	return &Logger{inner: slog.New(h)}
}

// SetDefault replaces the package default logger.
func SetDefault(l *Logger) { defaultLogger = l }

// Default returns the package default logger.
func Default() *Logger { return defaultLogger }

// Module returns a child logger tagged with the given subsystem name, so
// log lines from the interpreter, state layer, and driver can be told apart.
func (l *Logger) Module(name string) *Logger {
	return &Logger{inner: l.inner.With("module", name)}
}

// With returns a child logger with the given key/value pairs attached.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{inner: l.inner.With(args...)}
}

func (l *Logger) Debug(msg string, args ...any) { l.inner.Debug(msg, args...) }
func (l *Logger) Info(msg string, args ...any)  { l.inner.Info(msg, args...) }
func (l *Logger) Warn(msg string, args ...any)  { l.inner.Warn(msg, args...) }
func (l *Logger) Error(msg string, args ...any) { l.inner.Error(msg, args...) }
