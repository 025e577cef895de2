package log

import (
	"io"
	"os"
	"time"

	"github.com/go-logr/logr"
	"github.com/go-logr/zerologr"
	"github.com/rs/zerolog"
)

// New returns a console logger, or a JSON logger on stderr when running in CI
// or inside a cluster. Debug enables debug level output.
func New(debug bool) *zerolog.Logger {
	var output io.Writer
	if os.Getenv("KUBERNETES_SERVICE_HOST") != "" || os.Getenv("CI") != "" {
		output = os.Stderr
	} else {
		output = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "2006-01-02T15:04:05.999Z07:00"}
	}

	zerolog.TimeFieldFormat = time.RFC3339Nano

	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(output).Level(level).With().Timestamp().Logger()
	return &logger
}

// Logr bridges a zerolog logger to logr, the interface kgraph packages log
// through. logr verbosity 1 maps to zerolog debug.
func Logr(l *zerolog.Logger, name string) logr.Logger {
	zerologr.NameFieldName = "logger"
	zerologr.NameSeparator = "/"
	zerologr.SetMaxV(1)
	return zerologr.New(l).WithName(name)
}
