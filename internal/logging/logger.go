// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package logging builds the logrus logger shared by all commands.
package logging

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// NewLogger returns a logger writing to w at the given level. Format is
// "text" (default) or "json".
func NewLogger(w io.Writer, level, format string) (*logrus.Logger, error) {
	logger := logrus.New()
	logger.SetOutput(w)
	logger.SetLevel(logrus.WarnLevel)

	switch strings.ToLower(format) {
	case "", "text":
		logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339Nano})
	default:
		return nil, fmt.Errorf("unsupported log format %q: use text or json", format)
	}

	if level == "" {
		return logger, nil
	}
	parsed, err := logrus.ParseLevel(strings.ToLower(level))
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	logger.SetLevel(parsed)
	return logger, nil
}

// Discard returns a logger that drops everything. Packages fall back to it
// when no logger is injected.
func Discard() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}
