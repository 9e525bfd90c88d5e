package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config holds logger configuration
type Config struct {
	Level      string
	Format     string // "console" or "json"
	TimeFormat string
	Output     io.Writer
}

// New builds a zerolog.Logger from cfg. A nil cfg yields an info-level
// console logger on stdout.
func New(cfg *Config) zerolog.Logger {
	if cfg == nil {
		cfg = &Config{}
	}
	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}
	timeFormat := cfg.TimeFormat
	if timeFormat == "" {
		timeFormat = time.RFC3339
	}

	var w io.Writer = out
	if !strings.EqualFold(cfg.Format, "json") {
		w = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: timeFormat,
		}
	}

	return zerolog.New(w).
		Level(ParseLevel(cfg.Level)).
		With().
		Timestamp().
		Logger()
}

// Setup replaces the global logger used through github.com/rs/zerolog/log.
func Setup(cfg *Config) {
	log.Logger = New(cfg)
}

// ParseLevel maps a level name to a zerolog level, defaulting to info.
func ParseLevel(level string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}
