// Package logging wraps the program logger with leveled printf helpers.
package logging

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Level gates debug output. 0 disables debug lines entirely.
var Level int

var logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
	With().Timestamp().Logger()

var logFile *os.File

// Setup directs log output to both the console and the program log file.
func Setup(path string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	logFile = f

	console := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}
	logger = zerolog.New(io.MultiWriter(console, f)).With().Timestamp().Logger()
	return nil
}

// Close releases the log file, if one was opened.
func Close() {
	if logFile != nil {
		logFile.Close()
	}
}

// D logs a debug message if the given verbosity is enabled.
func D(l int, format string, args ...any) {
	if Level >= l {
		logger.Debug().Msgf(format, args...)
	}
}

// I logs an informational message.
func I(format string, args ...any) {
	logger.Info().Msgf(format, args...)
}

// S logs a success message.
func S(format string, args ...any) {
	logger.Info().Str("result", "success").Msgf(format, args...)
}

// W logs a warning message.
func W(format string, args ...any) {
	logger.Warn().Msgf(format, args...)
}

// E logs an error message.
func E(format string, args ...any) {
	logger.Error().Msgf(format, args...)
}
