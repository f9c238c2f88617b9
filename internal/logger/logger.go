// Package logger builds the goakt logger used by the binaries.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/tochemey/goakt/v3/log"
)

// ParseLevel maps a flag value to a log level. The empty string is info.
func ParseLevel(s string) (log.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return log.DebugLevel, nil
	case "", "info":
		return log.InfoLevel, nil
	case "warn", "warning":
		return log.WarningLevel, nil
	case "error":
		return log.ErrorLevel, nil
	}
	return log.InfoLevel, fmt.Errorf("unknown log level %q", s)
}

// New returns a logger writing to w at the given level, or log.DiscardLogger
// for "off". A nil w means stderr.
func New(level string, w io.Writer) (log.Logger, error) {
	if strings.EqualFold(level, "off") {
		return log.DiscardLogger, nil
	}
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}
	if w == nil {
		w = os.Stderr
	}
	return log.New(lvl, w), nil
}
