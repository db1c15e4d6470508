package observe

import (
	"io"
	"os"
	"time"

	"github.com/deeptimaan-k/radiantgo-sub000/config"
	"github.com/sirupsen/logrus"
)

// NewLogger builds the process logger from the log section of the config.
func NewLogger(cfg config.LogConfig) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stdout)

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	l.SetLevel(level)

	if cfg.Format == "json" {
		l.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339Nano})
	} else {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return l
}

// Discard returns a logger that drops everything, for tests and tools.
func Discard() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// Measure runs fn and logs how long it took under label. Failures are logged
// at warn level; the result and error are passed through unchanged.
func Measure[T any](log logrus.FieldLogger, label string, fn func() (T, error)) (T, error) {
	start := time.Now()
	out, err := fn()
	entry := log.WithFields(logrus.Fields{
		"op":          label,
		"duration_ms": float64(time.Since(start).Microseconds()) / 1000,
	})
	if err != nil {
		entry.WithError(err).Warn("operation failed")
	} else {
		entry.Debug("operation completed")
	}
	return out, err
}
