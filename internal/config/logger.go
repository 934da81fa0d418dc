package config

import (
	"context"
	"os"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
)

var logger = logrus.New()

// InitLogger configures the process-wide logger. LOG_LEVEL controls
// verbosity (default info), LOG_FORMAT=json switches to JSON output.
func InitLogger() {
	logger.SetOutput(os.Stdout)

	if strings.EqualFold(getEnv("LOG_FORMAT", "text"), "json") {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	level, err := logrus.ParseLevel(getEnv("LOG_LEVEL", "info"))
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
}

// Log returns the process-wide logger.
func Log() *logrus.Logger {
	return logger
}

// WithContext returns an entry tagged with the request id when the request
// passed through the chi RequestID middleware.
func WithContext(ctx context.Context) *logrus.Entry {
	if reqID := middleware.GetReqID(ctx); reqID != "" {
		return logger.WithField("request_id", reqID)
	}
	return logrus.NewEntry(logger)
}
