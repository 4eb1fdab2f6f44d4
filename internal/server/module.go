package server

import (
	"go.uber.org/fx"
)

var Module = fx.Module("server",
	fx.Provide(
		NewMCPServerInstance,
		NewToolSet,
		NewResourceSet,
	),
	fx.Invoke(registerServerHooks),
)
