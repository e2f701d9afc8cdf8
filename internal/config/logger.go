package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/saravanapriyaa21/take-it-right/internal/domain"
)

// NewLogger builds the process logger from the logging configuration. An
// unparseable level falls back to info.
func NewLogger(config domain.LoggingConfig) (*logrus.Logger, error) {
	logger := logrus.New()

	switch config.Format {
	case "text":
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	case "json", "":
		logger.SetFormatter(&logrus.JSONFormatter{})
	default:
		return nil, fmt.Errorf("invalid log format: %s", config.Format)
	}

	switch strings.ToLower(config.Output) {
	case "stderr":
		logger.SetOutput(os.Stderr)
	case "stdout", "":
		logger.SetOutput(os.Stdout)
	default:
		return nil, fmt.Errorf("invalid log output: %s", config.Output)
	}

	level, err := logrus.ParseLevel(config.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	return logger, nil
}
