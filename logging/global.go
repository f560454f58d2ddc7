// Package logging sets up slog for the service: human readable console output
// plus JSON lines in weekly rotating files.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Options configures InitLogger
type Options struct {
	Dir            string
	Level          string
	RetentionWeeks int
	MaxFileSize    int64
}

type LoggingService struct {
	Logger *slog.Logger
	file   *RotatingLogger
}

var DefaultLoggingService *LoggingService

// ParseLevel maps a LOG_LEVEL value to a slog level, defaulting to info
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
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

// NewLoggingService builds a console + rotating file logger. When the log
// directory cannot be used it falls back to the console only.
func NewLoggingService(opts Options) *LoggingService {
	level := ParseLevel(opts.Level)
	console := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})

	if opts.Dir == "" {
		return &LoggingService{Logger: slog.New(console)}
	}

	if err := os.MkdirAll(opts.Dir, 0755); err != nil {
		logger := slog.New(console)
		logger.Error("Failed to create logs directory", "dir", opts.Dir, "error", err)
		return &LoggingService{Logger: logger}
	}

	file := NewRotatingLogger(opts.Dir, opts.RetentionWeeks, opts.MaxFileSize)
	file.startCleanup()

	// the file keeps debug records regardless of the console level
	fileHandler := slog.NewJSONHandler(file, &slog.HandlerOptions{Level: slog.LevelDebug})

	return &LoggingService{
		Logger: slog.New(&multiHandler{handlers: []slog.Handler{console, fileHandler}}),
		file:   file,
	}
}

// Close releases the log file
func (s *LoggingService) Close() error {
	if s == nil || s.file == nil {
		return nil
	}
	return s.file.Close()
}

// InitLogger initializes the global logger instance
func InitLogger(opts Options) {
	DefaultLoggingService = NewLoggingService(opts)
	slog.SetDefault(DefaultLoggingService.Logger)
}

// InitDiscardLogger silences package-level logging; used by tests and the CLI
func InitDiscardLogger() {
	DefaultLoggingService = &LoggingService{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

// Close closes the global logger
func Close() error {
	return DefaultLoggingService.Close()
}

// Logger returns the global logger, or slog.Default before InitLogger runs
func Logger() *slog.Logger {
	return logger()
}

func logger() *slog.Logger {
	if DefaultLoggingService == nil || DefaultLoggingService.Logger == nil {
		return slog.Default()
	}
	return DefaultLoggingService.Logger
}

// Package-level functions for direct access

func Info(msg string, args ...any) {
	logger().Info(msg, args...)
}

func Error(msg string, args ...any) {
	logger().Error(msg, args...)
}

func Warn(msg string, args ...any) {
	logger().Warn(msg, args...)
}

func Debug(msg string, args ...any) {
	logger().Debug(msg, args...)
}
