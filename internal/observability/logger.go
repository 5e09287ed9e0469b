// Package observability wraps logrus behind a small factory: level,
// format, and output are configured once at startup. ExtendedLogger
// describes the logging surface; call sites in this module take the
// concrete *Logger.
package observability

import (
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// ExtendedLogger is the logging surface the rest of the module depends on.
type ExtendedLogger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	WithField(key string, value interface{}) *logrus.Entry
	WithFields(fields logrus.Fields) *logrus.Entry
}

// Logger is the concrete ExtendedLogger implementation.
type Logger struct {
	*logrus.Logger
	file *os.File
}

// Options configures CreateLogger.
type Options struct {
	Level       string // debug|info|warn|error
	Format      string // "json" or "text"
	LogFilePath string // optional; empty disables file output
	Stdout      bool   // also write to stdout
}

// CreateLogger builds a Logger per Options: level parse, formatter
// switch, multi-writer fan-out to file and/or stdout.
func CreateLogger(opts Options) (*Logger, error) {
	base := logrus.New()

	level, err := logrus.ParseLevel(orDefault(opts.Level, "info"))
	if err != nil {
		level = logrus.InfoLevel
	}
	base.SetLevel(level)

	if opts.Format == "json" {
		base.SetFormatter(&logrus.JSONFormatter{})
	} else {
		base.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	var file *os.File
	var writers []io.Writer
	if opts.LogFilePath != "" {
		if err := os.MkdirAll(filepath.Dir(opts.LogFilePath), 0o755); err != nil {
			return nil, err
		}
		f, err := os.OpenFile(opts.LogFilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, err
		}
		file = f
		writers = append(writers, f)
	}
	if opts.Stdout || len(writers) == 0 {
		writers = append(writers, os.Stdout)
	}
	base.SetOutput(io.MultiWriter(writers...))

	return &Logger{Logger: base, file: file}, nil
}

// CreateDefaultLogger returns a text-formatted, info-level, stdout logger.
func CreateDefaultLogger() *Logger {
	l, _ := CreateLogger(Options{Level: "info", Format: "text", Stdout: true})
	return l
}

// Close releases the underlying log file, if any.
func (l *Logger) Close() error {
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
