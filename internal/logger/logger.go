// Package logger configures the application's zerolog root logger.
package logger

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New builds a console logger at the given level. An unknown level falls
// back to info.
func New(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	out := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	return zerolog.New(out).Level(lvl).With().Timestamp().Logger()
}
