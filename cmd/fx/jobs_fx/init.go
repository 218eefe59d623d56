package jobs_fx

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"recovery/internal/config"
	"recovery/internal/jobs"
	"recovery/internal/services"
	mem "recovery/pkg/memcache"
)

var Module = fx.Options(
	fx.Provide(provideScheduler),
	fx.Invoke(runScheduler),
)

func provideScheduler(cfg *config.Config, subscriptions *services.SubscriptionService, limiters mem.LimiterStore, log *zap.Logger) (*jobs.Scheduler, error) {
	s := jobs.NewScheduler(subscriptions, limiters, log.Named("jobs"))
	if err := s.Register(cfg.SubscriptionSyncSchedule); err != nil {
		return nil, err
	}
	return s, nil
}

func runScheduler(lc fx.Lifecycle, s *jobs.Scheduler) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			s.Start()
			return nil
		},
		OnStop: s.Stop,
	})
}
