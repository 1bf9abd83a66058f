// Package logging builds the zerolog loggers handed to every siblink
// component.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

// New returns a console logger writing to w. Verbose output enables debug
// level; otherwise only info and above is shown. Colors are used only when w
// is a terminal.
func New(w io.Writer, verbose bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}

	console := zerolog.ConsoleWriter{
		Out:          w,
		TimeFormat:   time.Kitchen,
		NoColor:      !isTerminal(w),
		PartsExclude: []string{zerolog.TimestampFieldName},
	}
	return zerolog.New(console).Level(level).With().Timestamp().Logger()
}

// Component returns l with a component field attached.
func Component(l zerolog.Logger, name string) zerolog.Logger {
	return l.With().Str("component", name).Logger()
}

// OperationStart logs the start of an operation at debug level and returns a
// function logging its completion and duration.
func OperationStart(l zerolog.Logger, operation string) func() {
	start := time.Now()
	l.Debug().Str("operation", operation).Msg("operation started")
	return func() {
		l.Debug().
			Str("operation", operation).
			Dur("duration", time.Since(start)).
			Msg("operation completed")
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
