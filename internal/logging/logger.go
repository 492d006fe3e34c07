// internal/logging/logger.go
package logging

import (
	"io"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/tamzrod/modbus-instrument/internal/config"
)

// Logger wraps slog.Logger with the instrument's default fields.
// Safe for concurrent use.
type Logger struct {
	*slog.Logger
	level slog.Level
}

// New creates a Logger from the logging section of the config file.
func New(cfg config.LoggingConfig, version string) *Logger {
	var output io.Writer
	switch strings.ToLower(cfg.Output) {
	case "stderr":
		output = os.Stderr
	default:
		output = os.Stdout
	}
	return newWithWriter(cfg, version, output)
}

func newWithWriter(cfg config.LoggingConfig, version string, output io.Writer) *Logger {
	level := parseLevel(cfg.Level)
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	switch strings.ToLower(cfg.Format) {
	case "text":
		handler = slog.NewTextHandler(output, opts)
	default:
		handler = slog.NewJSONHandler(output, opts)
	}

	handler = handler.WithAttrs([]slog.Attr{
		slog.String("service", "instrument"),
		slog.String("version", version),
	})

	return &Logger{Logger: slog.New(handler), level: level}
}

// parseLevel converts a string log level to slog.Level.
// Unrecognised values map to info.
func parseLevel(level string) slog.Level {
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

// With returns a Logger with additional default attributes.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{Logger: l.Logger.With(args...), level: l.level}
}

// Debugging reports whether debug records are emitted.
func (l *Logger) Debugging() bool {
	return l.level <= slog.LevelDebug
}

// StdLogger bridges to a *log.Logger at debug level, for libraries that
// take the standard logger (goburrow handlers). Returns nil unless
// debug logging is on, which keeps frame tracing off by default.
func (l *Logger) StdLogger() *log.Logger {
	if !l.Debugging() {
		return nil
	}
	return slog.NewLogLogger(l.Logger.Handler(), slog.LevelDebug)
}

// Default is used before configuration is loaded.
func Default() *Logger {
	return New(config.LoggingConfig{
		Level:  "info",
		Format: "json",
		Output: "stderr",
	}, "dev")
}

// Discard returns a Logger that drops everything. Used by tests.
func Discard() *Logger {
	return newWithWriter(config.LoggingConfig{Level: "error"}, "test", io.Discard)
}
