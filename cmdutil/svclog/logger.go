// Package svclog provides logging facilities for standard services.
package svclog

import (
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Config for logger.
type Config struct {
	AppName  string `env:"APP_NAME,default=hsts-example"`
	Deploy   string `env:"DEPLOY,default=local"`
	Dyno     string `env:"DYNO"`
	LogLevel string `env:"LOG_LEVEL,default=info"`

	// LogFormat is text or json.
	LogFormat string `env:"LOG_FORMAT,default=text"`
}

// NewLogger returns a new logger writing to stderr that includes app and
// deploy key/value pairs in each log line.
func NewLogger(cfg Config) (logrus.FieldLogger, error) {
	return newLogger(cfg, os.Stderr)
}

func newLogger(cfg Config, out io.Writer) (logrus.FieldLogger, error) {
	l := logrus.New()
	l.Out = out

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, errors.Wrap(err, "parsing LOG_LEVEL")
	}
	l.Level = level

	switch strings.ToLower(cfg.LogFormat) {
	case "", "text":
		l.Formatter = &logrus.TextFormatter{DisableColors: true, FullTimestamp: true}
	case "json":
		l.Formatter = &logrus.JSONFormatter{}
	default:
		return nil, errors.Errorf("unknown LOG_FORMAT %q", cfg.LogFormat)
	}

	logger := l.WithFields(logrus.Fields{
		"app":    cfg.AppName,
		"deploy": cfg.Deploy,
	})
	if cfg.Dyno != "" {
		logger = logger.WithField("dyno", cfg.Dyno)
	}
	return logger, nil
}
