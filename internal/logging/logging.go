// Package logging configures the process-wide slog default.
package logging

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
)

// ParseLevel converts a level name to a slog.Level. The empty string
// means info.
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("unknown log level %q", level)
}

// Setup installs the default logger writing text records to stderr at
// the given level.
func Setup(level string) error {
	parsed, err := ParseLevel(level)
	if err != nil {
		return err
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: parsed})
	slog.SetDefault(slog.New(handler))
	return nil
}
