// Package logging provides structured logging for the trigger engine.
package logging

import (
	"context"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// LogLevel represents the severity of a log message
type LogLevel int

const (
	// DebugLevel is the most verbose level
	DebugLevel LogLevel = iota
	// InfoLevel is for general informational messages
	InfoLevel
	// WarnLevel is for warning messages
	WarnLevel
	// ErrorLevel is for error messages
	ErrorLevel
)

// String returns the string representation of a log level
func (l LogLevel) String() string {
	switch l {
	case DebugLevel:
		return "DEBUG"
	case InfoLevel:
		return "INFO"
	case WarnLevel:
		return "WARN"
	case ErrorLevel:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel converts a string to a LogLevel, defaulting to InfoLevel
func ParseLevel(levelStr string) LogLevel {
	switch strings.ToUpper(levelStr) {
	case "DEBUG":
		return DebugLevel
	case "INFO":
		return InfoLevel
	case "WARN", "WARNING":
		return WarnLevel
	case "ERROR":
		return ErrorLevel
	default:
		return InfoLevel
	}
}

// Field represents a key-value pair for structured logging
type Field struct {
	Key   string
	Value interface{}
}

// Logger defines the interface for structured logging
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, err error, fields ...Field)
	WithFields(fields ...Field) Logger
	WithContext(ctx context.Context) Logger
}

// LogConfig holds logger configuration
type LogConfig struct {
	Level      LogLevel
	Output     io.Writer
	TimeFormat string
	Prefix     string
}

// DefaultLogConfig returns default logger configuration
func DefaultLogConfig() LogConfig {
	return LogConfig{
		Level:      ParseLevel(os.Getenv("LOG_LEVEL")),
		Output:     nil, // stdout
		TimeFormat: time.RFC3339,
	}
}

var (
	globalLogger Logger
	globalMu     sync.RWMutex
	initOnce     sync.Once
)

// SetGlobalLogger sets the global logger instance
func SetGlobalLogger(logger Logger) {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalLogger = logger
}

// GetGlobalLogger returns the global logger instance
func GetGlobalLogger() Logger {
	initOnce.Do(func() {
		if globalLogger == nil {
			globalLogger = NewDefaultLogger()
		}
	})
	globalMu.RLock()
	defer globalMu.RUnlock()
	return globalLogger
}

// NewDefaultLogger creates a logger with default configuration
func NewDefaultLogger() Logger {
	logger, err := NewZapLogger(DefaultLogConfig())
	if err != nil {
		panic("logging: failed to initialize default logger: " + err.Error())
	}
	return logger
}

// InitGlobalLogger initializes the global logger from the LOG_LEVEL and
// LOG_FILE environment variables. When LOG_FILE is unset log output goes to
// trigger-engine.log in the working directory.
func InitGlobalLogger() {
	level := ParseLevel(os.Getenv("LOG_LEVEL"))

	logFileName := os.Getenv("LOG_FILE")
	if logFileName == "" {
		logFileName = "trigger-engine.log"
	}

	file, err := os.OpenFile(logFileName, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		panic("logging: failed to open log file " + logFileName + ": " + err.Error())
	}

	logger, err := NewZapLogger(LogConfig{
		Level:      level,
		Output:     file,
		TimeFormat: time.RFC3339,
	})
	if err != nil {
		panic("logging: failed to initialize logger: " + err.Error())
	}

	SetGlobalLogger(logger)

	logger.Info("Logger initialized",
		Field{"level", level.String()},
		Field{"log_file", logFileName},
	)
}

// MustSync flushes buffered log entries. Call before application exit.
func MustSync() {
	if zl, ok := GetGlobalLogger().(*ZapAdapter); ok {
		_ = zl.Sync()
	}
}

// Debug logs a debug message using the global logger
func Debug(msg string, fields ...Field) {
	GetGlobalLogger().Debug(msg, fields...)
}

// Info logs an info message using the global logger
func Info(msg string, fields ...Field) {
	GetGlobalLogger().Info(msg, fields...)
}

// Warn logs a warning message using the global logger
func Warn(msg string, fields ...Field) {
	GetGlobalLogger().Warn(msg, fields...)
}

// Error logs an error message using the global logger
func Error(msg string, err error, fields ...Field) {
	GetGlobalLogger().Error(msg, err, fields...)
}

// WithFields returns the global logger with additional fields
func WithFields(fields ...Field) Logger {
	return GetGlobalLogger().WithFields(fields...)
}

// WithContext returns the global logger enriched from the context
func WithContext(ctx context.Context) Logger {
	return GetGlobalLogger().WithContext(ctx)
}
