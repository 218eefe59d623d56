package billing_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"recovery/internal/config"
	"recovery/internal/repositories"
	"recovery/internal/services"
)

var Module = fx.Provide(
	provideBillingService,
	provideSubscriptionService,
	asSubscriptionService,
)

// The scheduler needs SyncAll, which the handler interface also carries;
// both resolve to the same instance.
func asSubscriptionService(s *services.SubscriptionService) services.ISubscriptionService {
	return s
}

func provideBillingService(cfg *config.Config, log *zap.Logger) services.BillingService {
	s := cfg.Stripe
	if s.SecretKey == "" {
		log.Warn("STRIPE_SECRET_KEY not set, checkout is unavailable")
	}
	return services.NewStripeBillingService(services.StripeBillingConfig{
		SecretKey:   s.SecretKey,
		PriceCents:  s.PriceCents,
		Currency:    s.Currency,
		Interval:    s.Interval,
		ProductName: s.ProductName,
		AppBaseURL:  cfg.AppBaseURL,
	}, log)
}

func provideSubscriptionService(db *gorm.DB, accountRepo repositories.AccountRepository, billing services.BillingService, mail services.IMailService, log *zap.Logger) *services.SubscriptionService {
	return services.NewSubscriptionService(db, accountRepo, billing, mail, log)
}
