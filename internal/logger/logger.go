package logger

import (
	"context"
	"os"

	"github.com/rs/zerolog"
)

var log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

// InitLogging routes log output to the given file and the console.
// Falls back to console-only if the file cannot be opened.
func InitLogging(filePath string) {
	console := zerolog.ConsoleWriter{Out: os.Stderr}
	file, err := os.OpenFile(filePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		log = zerolog.New(console).With().Timestamp().Logger()
		log.Warn().Err(err).Str("path", filePath).Msg("log file unavailable, using console only")
		return
	}
	log = zerolog.New(zerolog.MultiLevelWriter(console, file)).With().Timestamp().Logger()
}

func InfoLog(ctx context.Context, msg string) {
	log.Info().Msg(msg)
}

func WarnLog(ctx context.Context, msg string) {
	log.Warn().Msg(msg)
}

func ErrorLog(ctx context.Context, msg string) {
	log.Error().Msg(msg)
}
