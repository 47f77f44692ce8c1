// Package logging builds the zerolog logger shared by the server and worker.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/gardenlog/apiserver/config"
	"github.com/rs/zerolog"
)

// New returns a logger writing to w at the configured level. An unknown level
// falls back to info; format "console" selects human-readable output.
func New(cfg config.LogConfig, w io.Writer) zerolog.Logger {
	if w == nil {
		w = os.Stderr
	}

	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(cfg.Level)))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	if strings.EqualFold(cfg.Format, "console") {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}

	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}
