package logger

import (
	"log/slog"
	"os"

	"github.com/reelcraft/resolve-mcp/pkg/config"
	"go.uber.org/fx"
)

// NewSlogLogger builds the process logger from configuration. Logs go to
// stderr so that stdio MCP transport and CLI JSON output own stdout.
func NewSlogLogger(cfg *config.ServerConfig) (*slog.Logger, *RingBuffer) {
	var level slog.Level
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	buffer := NewRingBuffer(1000)
	return slog.New(newBufferingHandler(handler, buffer)), buffer
}

var Module = fx.Module("logger",
	fx.Provide(NewSlogLogger),
)
