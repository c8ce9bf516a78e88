// SPDX-License-Identifier: MPL-2.0

// Package logging builds the structured loggers used across sapm.
package logging

import (
	"io"

	"github.com/charmbracelet/log"
)

// Prefix is prepended to every log line.
const Prefix = "sapm"

// New returns a logger writing to w. Verbose loggers emit debug records
// (one per install state transition); others only warnings and errors.
func New(w io.Writer, verbose bool) *log.Logger {
	level := log.WarnLevel
	if verbose {
		level = log.DebugLevel
	}
	return log.NewWithOptions(w, log.Options{
		Prefix:          Prefix,
		Level:           level,
		ReportTimestamp: verbose,
	})
}

// Discard returns a logger that drops every record. Library types default to
// it so that nothing is printed unless a caller asks for it.
func Discard() *log.Logger {
	return log.New(io.Discard)
}

// Component derives a child logger tagged with the component name.
func Component(l *log.Logger, name string) *log.Logger {
	if l == nil {
		l = Discard()
	}
	return l.With("component", name)
}
