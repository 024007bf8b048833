package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

var zlog = zerolog.New(os.Stdout).With().Timestamp().Logger()

// InitStructured initializes the structured zerolog logger
func InitStructured(env, service string) {
	InitStructuredWriter(env, service, os.Stdout)
}

// InitStructuredWriter initializes the logger on an explicit writer
func InitStructuredWriter(env, service string, out io.Writer) {
	w := out
	if env == "development" || env == "dev" || env == "local" {
		// Pretty console output for development
		w = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	zlog = zerolog.New(w).With().
		Timestamp().
		Str("service", service).
		Logger()

	zerolog.TimeFieldFormat = time.RFC3339
}

// SetLevel parses and applies a global level; unknown names leave the level untouched
func SetLevel(level string) {
	if level == "" {
		return
	}
	if lvl, err := zerolog.ParseLevel(level); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
}

// GetLogger returns the global zerolog logger
func GetLogger() *zerolog.Logger {
	return &zlog
}

// WithRequestID returns a logger with request_id field
func WithRequestID(requestID string) zerolog.Logger {
	return zlog.With().Str("request_id", requestID).Logger()
}

// WithUserID returns a logger with user_id field
func WithUserID(userID string) zerolog.Logger {
	return zlog.With().Str("user_id", userID).Logger()
}

// Info logs a formatted message at info level
func Info(format string, args ...interface{}) {
	zlog.Info().Msgf(format, args...)
}

// Warn logs a formatted message at warn level
func Warn(format string, args ...interface{}) {
	zlog.Warn().Msgf(format, args...)
}

// Error logs a formatted message at error level
func Error(format string, args ...interface{}) {
	zlog.Error().Msgf(format, args...)
}
