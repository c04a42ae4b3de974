// Package logging configures the zerolog logger shared by the CLI.
package logging

import (
	"io"
	"time"

	"github.com/rs/zerolog"
)

// New returns a console logger writing to w.
// Level is info by default, debug when debug is set, warn when quiet is set.
func New(w io.Writer, debug, quiet bool) zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	level := zerolog.InfoLevel
	switch {
	case debug:
		level = zerolog.DebugLevel
	case quiet:
		level = zerolog.WarnLevel
	}

	out := zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen, NoColor: true}
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}
