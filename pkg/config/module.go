package config

import "go.uber.org/fx"

var Module = fx.Module("config",
	fx.Provide(func(cfg *ServerConfig) TransportConfig { return cfg.Transport }),
	fx.Provide(func(cfg *ServerConfig) BridgeConfig { return cfg.Bridge }),
	fx.Provide(func(cfg *ServerConfig) LLMConfig { return cfg.LLM }),
)
