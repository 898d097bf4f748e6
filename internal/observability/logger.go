package observability

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Log output formats
const (
	FormatText = "text"
	FormatJSON = "json"
)

// LoggerConfig contains logger configuration
type LoggerConfig struct {
	Level   string
	Format  string
	Output  io.Writer
	Service string
	Version string
}

// NewLogger creates a logrus entry carrying the service and version fields.
// An empty level means info; an unknown level or format is an error.
func NewLogger(config LoggerConfig) (*logrus.Entry, error) {
	if config.Output == nil {
		config.Output = os.Stderr
	}

	level := logrus.InfoLevel
	if config.Level != "" {
		parsed, err := logrus.ParseLevel(config.Level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", config.Level, err)
		}
		level = parsed
	}

	logger := logrus.New()
	logger.SetOutput(config.Output)
	logger.SetLevel(level)

	switch strings.ToLower(config.Format) {
	case "", FormatText:
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
		})
	case FormatJSON:
		logger.SetFormatter(&logrus.JSONFormatter{})
	default:
		return nil, fmt.Errorf("invalid log format %q (want text or json)", config.Format)
	}

	fields := logrus.Fields{}
	if config.Service != "" {
		fields["service"] = config.Service
	}
	if config.Version != "" {
		fields["version"] = config.Version
	}
	return logger.WithFields(fields), nil
}

// Discard returns a logger that drops everything. Used by tests and quiet callers.
func Discard() *logrus.Entry {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logrus.NewEntry(logger)
}
