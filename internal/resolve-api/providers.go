package resolveApi

import (
	"log/slog"

	"github.com/reelcraft/resolve-mcp/internal/engine"
	"github.com/reelcraft/resolve-mcp/pkg/config"
	"go.uber.org/fx"
)

func NewClientFromConfig(cfg *config.ServerConfig, logger *slog.Logger) *Client {
	return NewClient(cfg.Bridge, cfg.Cache, logger)
}

var Module = fx.Module("resolve-api",
	fx.Provide(NewClientFromConfig),
	fx.Provide(func(client *Client) engine.Backend { return client }),
)
