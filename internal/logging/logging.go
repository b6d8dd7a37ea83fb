// Package logging provides the named package loggers used across crafthull.
package logging

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
)

const componentKey = "component"

var root = &logrus.Logger{
	Out: os.Stderr,
	Formatter: &componentFormatter{
		TextFormatter: logrus.TextFormatter{
			DisableTimestamp: true,
		},
	},
	Hooks: make(logrus.LevelHooks),
	Level: logrus.InfoLevel,
}

// Named creates a named package logger. Messages are prefixed with
// "[name]" so log lines read the same way regardless of formatter.
func Named(name string) *logrus.Entry {
	return root.WithField(componentKey, name)
}

// SetLevel parses and applies a logrus level name ("debug", "warn", ...).
func SetLevel(level string) error {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	root.SetLevel(lvl)
	return nil
}

// Logger exposes the shared logger, mostly so tests can redirect output.
func Logger() *logrus.Logger {
	return root
}

type componentFormatter struct {
	logrus.TextFormatter
}

// Format renders a single log entry with its component prefix.
func (f *componentFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	if name, ok := entry.Data[componentKey]; ok {
		e := entry.Dup()
		e.Level = entry.Level
		e.Message = fmt.Sprintf("[%s] %s", name, entry.Message)
		delete(e.Data, componentKey)
		return f.TextFormatter.Format(e)
	}
	return f.TextFormatter.Format(entry)
}
