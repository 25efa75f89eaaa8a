package config

import (
	"io"
	"log/slog"
	"strings"
)

// SlogLevel maps the configured log level onto slog
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
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

// NewLogger builds the process logger. Stdio mode owns stdout for MCP
// framing, so its logs are dropped unless debugging.
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	if c.IsStdioMode() && !c.IsDebug() {
		w = io.Discard
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: c.SlogLevel()}))
}
