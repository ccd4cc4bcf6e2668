// Package logger builds the process-wide logrus logger from configuration.
package logger

import (
	"os"
	"strings"

	"Tasker/internal/config"

	"github.com/sirupsen/logrus"
)

// New returns a logger writing to stderr with the configured level and format.
// An unknown level falls back to info.
func New(cfg config.AppConfig) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stderr)

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	if strings.EqualFold(cfg.LogFormat, "text") {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		log.SetFormatter(&logrus.JSONFormatter{})
	}
	return log
}
