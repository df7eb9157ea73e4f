package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"
)

// configureLogging builds the command logger from the log section.
func configureLogging(config LogConfig, w io.Writer) (logrus.FieldLogger, error) {
	logger := logrus.New()
	logger.SetOutput(w)

	level, err := logrus.ParseLevel(config.Level)
	if err != nil {
		return nil, fmt.Errorf("error parsing level %q: %w", config.Level, err)
	}
	logger.SetLevel(level)

	switch config.Formatter {
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: time.RFC3339Nano,
		})
	case "text", "":
		logger.SetFormatter(&logrus.TextFormatter{
			TimestampFormat: time.RFC3339Nano,
		})
	default:
		return nil, fmt.Errorf("unsupported logging formatter: %q", config.Formatter)
	}

	if len(config.Fields) > 0 {
		return logger.WithFields(logrus.Fields(config.Fields)), nil
	}
	return logger, nil
}
