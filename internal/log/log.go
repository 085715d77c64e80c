// Package log provides structured logging for seeker.
// It wraps slog; the TUI owns stdout, so output goes to a file or nowhere.
package log

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

var (
	logger *slog.Logger
	once   sync.Once
)

// ParseLevel maps "debug", "info", "warn" and "error" to slog levels.
// Unknown names fall back to info.
func ParseLevel(level string) slog.Level {
	switch level {
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

// Init initializes the global logger writing text records to w.
// Only the first call has any effect.
func Init(level string, w io.Writer) {
	once.Do(func() {
		if w == nil {
			w = io.Discard
		}
		opts := &slog.HandlerOptions{Level: ParseLevel(level)}
		logger = slog.New(slog.NewTextHandler(w, opts))
		slog.SetDefault(logger)
	})
}

// OpenFile creates the log file (and its directory) for appending.
// An empty path yields io.Discard and a nil closer.
func OpenFile(path string) (io.Writer, io.Closer, error) {
	if path == "" {
		return io.Discard, nil, nil
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, nil, err
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, err
	}
	return f, f, nil
}

// L returns the global logger instance.
func L() *slog.Logger {
	if logger == nil {
		Init("info", io.Discard)
	}
	return logger
}

// Debug logs at debug level.
func Debug(msg string, args ...any) {
	L().Debug(msg, args...)
}

// Info logs at info level.
func Info(msg string, args ...any) {
	L().Info(msg, args...)
}

// Warn logs at warn level.
func Warn(msg string, args ...any) {
	L().Warn(msg, args...)
}

// Error logs at error level.
func Error(msg string, args ...any) {
	L().Error(msg, args...)
}

// With returns a logger with the given attributes.
func With(args ...any) *slog.Logger {
	return L().With(args...)
}
