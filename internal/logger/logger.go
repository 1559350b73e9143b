package logger

import (
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Logger is the process-wide root logger. It discards everything until
// Initialize runs, so components constructed in tests stay quiet.
var Logger = zerolog.Nop()

// Initialize configures the root logger with a console writer and the given
// level ("debug", "info", "warn", "error"; anything else means info).
func Initialize(logLevel string) {
	zerolog.TimeFieldFormat = time.RFC3339

	level, err := zerolog.ParseLevel(strings.ToLower(logLevel))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	Logger = zerolog.New(zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: "2006-01-02 15:04:05",
	}).With().Timestamp().Caller().Logger()

	// Route the package-level zerolog helpers through the same writer.
	log.Logger = Logger
}

// Get returns the root logger.
func Get() *zerolog.Logger {
	return &Logger
}

// GetForComponent returns a child logger tagged with a component field.
func GetForComponent(component string) zerolog.Logger {
	return Logger.With().Str("component", component).Logger()
}
