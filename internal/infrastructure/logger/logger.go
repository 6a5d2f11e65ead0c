// Package logger builds the zerolog logger used by the CLI and services.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Config selects level, format and destination.
type Config struct {
	Level  string `yaml:"level"`  // trace, debug, info, warn, error
	Format string `yaml:"format"` // json or console
	Output string `yaml:"output"` // stdout or stderr
}

// New builds a logger from cfg. Empty fields fall back to info, console and
// stderr.
func New(cfg Config) (zerolog.Logger, error) {
	level := zerolog.InfoLevel
	if cfg.Level != "" {
		var err error
		level, err = zerolog.ParseLevel(strings.ToLower(cfg.Level))
		if err != nil {
			return zerolog.Nop(), fmt.Errorf("invalid log level '%s': %w", cfg.Level, err)
		}
	}

	var out io.Writer
	switch strings.ToLower(cfg.Output) {
	case "stdout":
		out = os.Stdout
	case "", "stderr":
		out = os.Stderr
	default:
		return zerolog.Nop(), fmt.Errorf("invalid log output '%s'", cfg.Output)
	}

	return NewWithWriter(out, cfg.Format, level), nil
}

// NewWithWriter builds a logger writing to w.
func NewWithWriter(w io.Writer, format string, level zerolog.Level) zerolog.Logger {
	if strings.ToLower(format) != "json" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339, NoColor: true}
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}
