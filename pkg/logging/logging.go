package logging

import (
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/pseudomuto/dwh/pkg/consts"
	"github.com/sirupsen/logrus"
)

// New builds a logrus logger writing text with full timestamps to w at the given level.
// An empty level falls back to consts.DefaultLogLevel.
func New(w io.Writer, level string) (*logrus.Logger, error) {
	logger := logrus.New()
	logger.SetOutput(w)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	if err := SetLevel(logger, level); err != nil {
		return nil, err
	}

	return logger, nil
}

// SetLevel parses level and applies it to logger.
func SetLevel(logger *logrus.Logger, level string) error {
	level = strings.TrimSpace(level)
	if level == "" {
		level = consts.DefaultLogLevel
	}

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return errors.Wrapf(err, "invalid log level: %s", level)
	}

	logger.SetLevel(lvl)
	return nil
}

// Level returns the level configured through DWH_LOG_LEVEL, if any.
func Level() string {
	return os.Getenv(consts.EnvPrefix + "LOG_LEVEL")
}
