// Package logger configures the application's zerolog instance.
package logger

import (
	"os"
	"time"

	"github.com/rs/zerolog"

	"datarw/internal/config"
)

// New builds the root logger. Development mode gets a human-readable console
// writer; anything else emits JSON lines.
func New(cfg *config.Config) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339

	if cfg.Server.IsDevelopment() {
		out := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}
		return zerolog.New(out).With().Timestamp().Str("service", "datarw").Logger()
	}

	return zerolog.New(os.Stderr).With().Timestamp().Str("service", "datarw").Logger()
}
