// Package logging builds structured loggers from tool configuration.
// Server modes (LSP, MCP) must log to stderr: stdout carries the protocol.
package logging

import (
	"io"
	"log/slog"
	"os"

	"github.com/jasonmyers/PythonAutoImport/internal/config"
)

// New constructs an slog.Logger from logging configuration. Unknown
// values fall back to an info-level text logger on stderr.
func New(cfg config.LoggingConfig) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.Level)}
	out := parseOutput(cfg.Output)

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(out, opts)
	} else {
		handler = slog.NewTextHandler(out, opts)
	}

	return slog.New(handler)
}

func parseLevel(level string) slog.Level {
	switch level {
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

func parseOutput(output string) io.Writer {
	if output == "stdout" {
		return os.Stdout
	}

	return os.Stderr
}
