// Package log provides a structured logging interface for scitext pipeline stages.
//
// The interface is slog-compatible so any backend can sit behind it; the
// default backend is zerolog (see ZerologLogger). Attribute keys shared by
// all stages live in attributes.go.
//
// Example usage:
//
//	logger := log.GetLogger().With(
//	    log.ComponentKey, "feature_extraction",
//	)
//	logger.Info("Vocabulary built",
//	    log.OperationKey, log.OperationFit,
//	    log.SamplesKey, 1000,
//	    log.VocabularySizeKey, 412,
//	)
package log

import (
	"context"
	"os"
	"sync"
)

// Logger defines a structured logging interface compatible with Go's log/slog.
//
// Fields are alternating key/value pairs. An error value is rendered with
// its message; backends that understand cockroachdb stacks attach them.
type Logger interface {
	// Debug logs a debug-level message with optional structured fields.
	Debug(msg string, fields ...any)

	// Info logs an info-level message with optional structured fields.
	Info(msg string, fields ...any)

	// Warn logs a warning-level message with optional structured fields.
	Warn(msg string, fields ...any)

	// Error logs an error-level message with optional structured fields.
	//
	// Example:
	//   logger.Error("Model training failed",
	//       "error", err,
	//       log.OperationKey, log.OperationFit,
	//   )
	Error(msg string, fields ...any)

	// With returns a new Logger with the given fields pre-populated.
	With(fields ...any) Logger

	// Enabled reports whether the logger emits log records at the given level.
	// Use it to skip building expensive fields, e.g. a full vocabulary dump.
	Enabled(ctx context.Context, level Level) bool
}

// Level represents a logging level, compatible with slog.Level.
type Level int

// Standard logging levels, values are compatible with slog.Level.
const (
	LevelDebug Level = -4
	LevelInfo  Level = 0
	LevelWarn  Level = 4
	LevelError Level = 8
)

// String returns the string representation of the log level.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// LoggerProvider defines an interface for creating and configuring loggers.
type LoggerProvider interface {
	// GetLogger returns the default logger instance.
	GetLogger() Logger

	// GetLoggerWithName returns a logger tagged with a component name.
	GetLoggerWithName(name string) Logger

	// SetLevel sets the minimum log level for all loggers created by this provider.
	SetLevel(level Level)
}

var (
	defaultMu       sync.RWMutex
	defaultProvider LoggerProvider = NewZerologProvider(os.Stderr, LevelInfo)
)

// SetProvider replaces the package-wide logger provider.
func SetProvider(p LoggerProvider) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultProvider = p
}

// GetLogger returns the package-wide default logger.
func GetLogger() Logger {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultProvider.GetLogger()
}

// GetLoggerWithName returns the default logger tagged with component name.
func GetLoggerWithName(name string) Logger {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultProvider.GetLoggerWithName(name)
}
