// Package log configures the package-level zerolog.Logger used across
// qrotsynth, adapted from itohio-EasyRobot's pkg/logger.
package log

import (
	"os"

	"github.com/rs/zerolog"
)

// New builds a console-writer logger at the given verbosity. verbose
// selects debug level; otherwise info level is used.
func New(verbose bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Logger()
}
