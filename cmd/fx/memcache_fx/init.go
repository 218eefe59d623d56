package memcache_fx

import (
	"go.uber.org/fx"

	"recovery/internal/config"
	mem "recovery/pkg/memcache"
)

var Module = fx.Provide(provideLimiterStore)

func provideLimiterStore(cfg *config.Config) mem.LimiterStore {
	rl := cfg.RateLimit
	return mem.NewLimiters(rl.RequestsPerSecond, rl.Burst, rl.IdleTTL)
}
