package observability

import (
	"log/slog"
	"os"
)

// Logger is a thin wrapper so callers don't depend on the slog API directly.
type Logger struct {
	inner *slog.Logger
}

func NewLogger() *Logger {
	return &Logger{inner: slog.New(slog.NewJSONHandler(os.Stdout, nil))}
}

func (l *Logger) Info(msg string, args ...any) {
	l.inner.Info(msg, args...)
}

func (l *Logger) Warn(msg string, args ...any) {
	l.inner.Warn(msg, args...)
}

func (l *Logger) Error(msg string, args ...any) {
	l.inner.Error(msg, args...)
}
