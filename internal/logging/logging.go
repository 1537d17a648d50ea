// Package logging builds the logrus loggers shared by the decoders and the CLI.
package logging

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Discard returns a logger that drops everything. Decoders use it when the
// caller does not supply one.
func Discard() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	l.SetLevel(logrus.PanicLevel)
	return l
}

// New returns the CLI logger writing to stderr.
// verbose enables debug output (skipped chunks, ignored scene lines),
// quiet restricts output to errors.
func New(verbose, quiet bool) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
	})

	switch {
	case quiet:
		l.SetLevel(logrus.ErrorLevel)
	case verbose:
		l.SetLevel(logrus.TraceLevel)
	default:
		l.SetLevel(logrus.InfoLevel)
	}
	return l
}
