// Package logger wraps logrus with the small surface the rest of the
// application depends on.
package logger

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// LoggingConfig controls log level, format and destination.
type LoggingConfig struct {
	Level   string `yaml:"level" env:"LOG_LEVEL"`
	Format  string `yaml:"format" env:"LOG_FORMAT"` // json or text
	Output  string `yaml:"output" env:"LOG_OUTPUT"` // stdout or stderr
	Service string `yaml:"service"`
}

// Logger is a logrus entry carrying the service field. The embedded entry
// exposes the full logrus API (WithField, WithError, Infof, ...).
type Logger struct {
	*logrus.Entry
}

// New builds a logger from config. Unknown levels fall back to info.
func New(cfg LoggingConfig) *Logger {
	l := logrus.New()

	level, err := logrus.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil {
		level = logrus.InfoLevel
	}
	l.SetLevel(level)

	switch strings.ToLower(cfg.Format) {
	case "json":
		l.SetFormatter(&logrus.JSONFormatter{})
	default:
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	l.SetOutput(output(cfg.Output))

	entry := logrus.NewEntry(l)
	if cfg.Service != "" {
		entry = entry.WithField("service", cfg.Service)
	}
	return &Logger{Entry: entry}
}

// NewDefault returns an info-level text logger tagged with the service name.
func NewDefault(service string) *Logger {
	return New(LoggingConfig{Level: "info", Service: service})
}

// WithComponent derives a logger tagged with a component field.
func (l *Logger) WithComponent(name string) *Logger {
	return &Logger{Entry: l.Entry.WithField("component", name)}
}

func output(name string) io.Writer {
	switch strings.ToLower(name) {
	case "stderr":
		return os.Stderr
	default:
		return os.Stdout
	}
}
