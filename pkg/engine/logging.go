package engine

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// NewLogger builds the slog logger described by cfg. Without a log file every
// record is discarded, since stdout belongs to the terminal UI. The returned
// closer releases the file.
func NewLogger(cfg Config) (*slog.Logger, io.Closer, error) {
	if cfg.LogFile == "" {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), nopCloser{}, nil
	}

	if dir := filepath.Dir(cfg.LogFile); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, nil, fmt.Errorf("engine: log dir: %w", err)
		}
	}

	f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600) //nolint:gosec // path comes from configuration
	if err != nil {
		return nil, nil, fmt.Errorf("engine: open log file: %w", err)
	}

	h := slog.NewTextHandler(f, &slog.HandlerOptions{Level: parseLevel(cfg.LogLevel)})

	return slog.New(h), f, nil
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
