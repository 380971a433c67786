package commandinit

import (
	"os"

	"github.com/rs/zerolog"
)

// NewLogger returns the console logger commands attach to their context.
func NewLogger(command string, verbose bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}

	return zerolog.New(zerolog.NewConsoleWriter(func(w *zerolog.ConsoleWriter) {
		w.Out = os.Stderr
	})).
		Level(level).
		With().
		Timestamp().
		Str("command", command).
		Logger()
}
