package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// loggerHandle pairs a logger with the file it writes to, if any.
type loggerHandle struct {
	*slog.Logger
	file *os.File
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level: %s", s)
	}
}

func newLogger(w io.Writer, level string) (*loggerHandle, error) {
	lvl, err := parseLevel(level)
	if err != nil {
		return nil, err
	}
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})
	return &loggerHandle{Logger: slog.New(handler)}, nil
}

// openFileLogger logs to path so the alternate screen stays clean.
func openFileLogger(path, level string) (*loggerHandle, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	logger, err := newLogger(file, level)
	if err != nil {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close on setup failure.
			_ = cerr
		}
		return nil, err
	}
	logger.file = file
	return logger, nil
}

func (l *loggerHandle) close() {
	if l.file == nil {
		return
	}
	if cerr := l.file.Close(); cerr != nil {
		logErrf("failed to close log file: %v\n", cerr)
	}
}
