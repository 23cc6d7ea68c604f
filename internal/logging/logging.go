// Package logging builds the zerolog loggers used by the CLI and server.
package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
)

// DebugLogPath is the fixed path for debug logs.
const DebugLogPath = "agenda-debug.log"

// New returns a logger writing JSON lines to w at info level, or debug
// level when debug is set.
func New(debug bool, w io.Writer) zerolog.Logger {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}

// Console is New with human readable output.
func Console(debug bool, w io.Writer) zerolog.Logger {
	return New(debug, zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05"})
}

// OpenDebug creates DebugLogPath in the working directory and returns a
// debug logger on it. When enabled is false it returns a no-op logger.
// The returned close function is always safe to call.
func OpenDebug(enabled bool) (zerolog.Logger, func() error, error) {
	if !enabled {
		return zerolog.Nop(), func() error { return nil }, nil
	}

	f, err := os.Create(DebugLogPath)
	if err != nil {
		return zerolog.Nop(), func() error { return nil }, fmt.Errorf("creating debug log: %w", err)
	}

	logger := New(true, f)
	logger.Debug().Str("log_file", DebugLogPath).Msg("debug start")

	return logger, func() error {
		logger.Debug().Msg("debug end")
		return f.Close()
	}, nil
}
