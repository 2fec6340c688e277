package log

import (
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// NewLogger returns a console logger tagged with the given module name.
// Logs go to stderr so that stdout stays free for command output.
func NewLogger(module string) zerolog.Logger {
	out := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}
	return zerolog.New(out).With().Timestamp().Str("module", module).Logger()
}

// SetLevel sets the minimum level for every logger created by NewLogger.
func SetLevel(level zerolog.Level) {
	zerolog.SetGlobalLevel(level)
}

// LevelFromEnv reads LOG_LEVEL, falling back to info when it is unset or invalid.
func LevelFromEnv() zerolog.Level {
	level, err := zerolog.ParseLevel(strings.ToLower(os.Getenv("LOG_LEVEL")))
	if err != nil || level == zerolog.NoLevel {
		return zerolog.InfoLevel
	}

	return level
}
