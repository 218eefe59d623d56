package config_fx

import (
	"go.uber.org/fx"

	"recovery/internal/config"
	"recovery/internal/infra"
)

var Module = fx.Provide(config.Load, infra.NewLogger)
