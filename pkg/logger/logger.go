// Package logger provides the logging interface used across all mediahook
// components. The interface is pluggable so hosts can bridge it to slog, zap
// or any other structured logging library they already run.
package logger

import (
	"log/slog"
	"os"
)

// LogLevel represents the severity level of a log message.
type LogLevel int

const (
	// Silent suppresses all log output.
	Silent LogLevel = iota + 1
	// Error only logs error messages.
	Error
	// Warn logs warnings and errors.
	Warn
	// Info logs informational messages, warnings, and errors.
	Info
	// Debug logs all messages including debug information.
	Debug
)

// Logger is the interface that wraps the basic logging methods. Arguments are
// alternating key-value pairs in the slog style.
type Logger interface {
	// LogMode sets the log level and returns a new logger instance.
	LogMode(level LogLevel) Logger
	// Info logs an informational message with structured key-value pairs.
	Info(msg string, args ...any)
	// Warn logs a warning message with structured key-value pairs.
	Warn(msg string, args ...any)
	// Error logs an error message with structured key-value pairs.
	Error(msg string, args ...any)
	// Debug logs a debug message with structured key-value pairs.
	Debug(msg string, args ...any)
}

// SlogLogger adapts a *slog.Logger to the Logger interface.
type SlogLogger struct {
	logger *slog.Logger
	level  LogLevel
}

// NewSlogLogger wraps an existing slog logger at the given level.
func NewSlogLogger(logger *slog.Logger, level LogLevel) Logger {
	return &SlogLogger{logger: logger, level: level}
}

// New returns a default logger writing text output to stderr at Warn level.
func New() Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})
	return &SlogLogger{logger: slog.New(handler), level: Warn}
}

// LogMode sets the log level and returns a new logger instance.
func (l *SlogLogger) LogMode(level LogLevel) Logger {
	newLogger := *l
	newLogger.level = level
	return &newLogger
}

// Info logs an informational message.
func (l *SlogLogger) Info(msg string, args ...any) {
	if l.level >= Info {
		l.logger.Info(msg, args...)
	}
}

// Warn logs a warning message.
func (l *SlogLogger) Warn(msg string, args ...any) {
	if l.level >= Warn {
		l.logger.Warn(msg, args...)
	}
}

// Error logs an error message.
func (l *SlogLogger) Error(msg string, args ...any) {
	if l.level >= Error {
		l.logger.Error(msg, args...)
	}
}

// Debug logs a debug message.
func (l *SlogLogger) Debug(msg string, args ...any) {
	if l.level >= Debug {
		l.logger.Debug(msg, args...)
	}
}

// discardLogger is a logger that discards all output.
type discardLogger struct{}

// LogMode returns the discard logger itself.
func (d *discardLogger) LogMode(LogLevel) Logger { return d }

// Info does nothing.
func (d *discardLogger) Info(string, ...any) {}

// Warn does nothing.
func (d *discardLogger) Warn(string, ...any) {}

// Error does nothing.
func (d *discardLogger) Error(string, ...any) {}

// Debug does nothing.
func (d *discardLogger) Debug(string, ...any) {}

// Discard is a logger that discards all output.
var Discard Logger = &discardLogger{}
