// Package logging wraps zerolog for henkan. Terminals get a console writer,
// everything else gets newline-delimited JSON.
//
//	ctx := logging.WithReading(context.Background(), "とうきょう")
//	logging.FromContext(ctx).Debug().Int("candidates", 3).Msg("Reconciled")
package logging

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var defaultLogger = NewLoggerFromConfig(configFromEnv())

// Nop discards everything.
var Nop = zerolog.Nop()

// Default returns the process logger.
func Default() *zerolog.Logger {
	return &defaultLogger
}

// SetDefault replaces the process logger, including zerolog's global log.Logger.
func SetDefault(logger zerolog.Logger) {
	defaultLogger = logger
	log.Logger = logger
}

// New returns a JSON logger on w at the current global level.
func New(w io.Writer) zerolog.Logger {
	if w == nil {
		w = os.Stderr
	}
	return zerolog.New(w).Level(zerolog.GlobalLevel()).With().Timestamp().Logger()
}

// NewConsole returns a console logger on stderr.
func NewConsole() zerolog.Logger {
	return New((&Config{Format: "console", TimeFormat: "kitchen", NoColor: os.Getenv("NO_COLOR") != ""}).writer())
}

func With() zerolog.Context { return defaultLogger.With() }

func Debug() *zerolog.Event { return defaultLogger.Debug() }

func Info() *zerolog.Event { return defaultLogger.Info() }

func Warn() *zerolog.Event { return defaultLogger.Warn() }

func Error() *zerolog.Event { return defaultLogger.Error() }

// Err logs at error level when err is non-nil and at info otherwise.
func Err(err error) *zerolog.Event { return defaultLogger.Err(err) }
