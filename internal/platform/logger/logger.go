package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/phrazzld/slaypost-api/internal/config"
)

// Setup initializes and configures the application's logging system based on
// the provided configuration. It creates a structured logger writing to
// stdout with the appropriate level and format, and sets it as the default
// logger for the application.
func Setup(cfg config.ServerConfig) (*slog.Logger, error) {
	logger := New(os.Stdout, cfg.LogLevel, cfg.LogFormat)

	// Set this logger as the default for the application
	// This allows using the slog package functions directly (slog.Info, slog.Error, etc.)
	slog.SetDefault(logger)

	return logger, nil
}

// New builds a logger writing to w. Unknown levels fall back to info with a
// warning; any format other than "text" produces JSON.
func New(w io.Writer, level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: ParseLevel(level, w),
	}

	var handler slog.Handler
	if strings.EqualFold(format, "text") {
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}

	return slog.New(handler)
}

// ParseLevel parses a log level name case-insensitively. An invalid name
// yields slog.LevelInfo and a warning written to warnOut.
func ParseLevel(name string, warnOut io.Writer) slog.Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		if warnOut != nil {
			slog.New(slog.NewTextHandler(warnOut, nil)).Warn("invalid log level configured, using default level",
				"configured_level", name,
				"default_level", "info")
		}
		return slog.LevelInfo
	}
}
