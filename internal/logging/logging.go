// Package logging sets up logrus for the rttrainer binaries.
package logging

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/curbz/rt-trainer/internal/config"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Configure points l at out, and also at a rotating file when cfg.File is
// set. The returned Closer releases the file.
func Configure(l *logrus.Logger, cfg config.LogConfig, out io.Writer) (io.Closer, error) {
	level := cfg.Level
	if level == "" {
		level = "info"
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	l.SetLevel(lvl)
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	if cfg.File == "" {
		l.SetOutput(out)
		return nopCloser{}, nil
	}

	w := &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    cfg.MaxSizeMB, // MB
		MaxBackups: cfg.MaxBackups,
	}
	l.SetOutput(io.MultiWriter(out, w))
	return w, nil
}

// New returns a fresh logger configured by cfg.
func New(cfg config.LogConfig, out io.Writer) (*logrus.Logger, io.Closer, error) {
	l := logrus.New()
	c, err := Configure(l, cfg, out)
	if err != nil {
		return nil, nil, err
	}
	return l, c, nil
}
