// Package logger provides logging utilities for the publishing pipeline.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

// Logger provides structured logging functionality.
type Logger struct {
	internal *slog.Logger
}

// ParseLevel maps a level name to a slog level. Unknown names map to info.
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

// NewLogger creates a new console logger with the specified level.
func NewLogger(level string) *Logger {
	return NewWithWriter(level, os.Stderr)
}

// NewFileLogger creates a logger that writes every record to console and
// appends it to the file at path. The file is opened and closed per record.
func NewFileLogger(level, path string, console io.Writer) *Logger {
	if path == "" {
		return NewWithWriter(level, console)
	}

	return NewWithWriter(level, io.MultiWriter(console, &AppendFile{Path: path}))
}

// NewWithWriter creates a logger writing text records to w.
func NewWithWriter(level string, w io.Writer) *Logger {
	opts := &slog.HandlerOptions{
		Level: ParseLevel(level),
	}

	handler := slog.NewTextHandler(w, opts)

	return &Logger{
		internal: slog.New(handler),
	}
}

// Info logs an info level message.
func (l *Logger) Info(msg string, args ...any) {
	l.internal.Info(msg, args...)
}

// Error logs an error level message.
func (l *Logger) Error(msg string, args ...any) {
	l.internal.Error(msg, args...)
}

// Debug logs a debug level message.
func (l *Logger) Debug(msg string, args ...any) {
	l.internal.Debug(msg, args...)
}

// Warn logs a warning level message.
func (l *Logger) Warn(msg string, args ...any) {
	l.internal.Warn(msg, args...)
}

// With creates a child logger with the given attributes.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{
		internal: l.internal.With(args...),
	}
}

// AppendFile is an io.Writer that opens Path in append mode for every write
// and closes it again, so lines already written survive a crash mid-batch.
type AppendFile struct {
	Path string
	mu   sync.Mutex
}

// Write appends p to the file.
func (f *AppendFile) Write(p []byte) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	file, err := os.OpenFile(f.Path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return 0, fmt.Errorf("failed to open log file: %w", err)
	}

	n, err := file.Write(p)
	if closeErr := file.Close(); closeErr != nil && err == nil {
		err = fmt.Errorf("failed to close log file: %w", closeErr)
	}

	return n, err
}
