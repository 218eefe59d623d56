package controllers_fx

import (
	"go.uber.org/fx"

	"recovery/internal/api"
	"recovery/internal/api/controllers"
	"recovery/internal/config"
	"recovery/internal/services"
	"recovery/pkg/utils"
)

var Module = fx.Options(
	fx.Provide(provideAccountController),
	fx.Provide(provideSubscriptionController),
	fx.Provide(controllers.NewJournalController),
	fx.Provide(controllers.NewCommunityController),
	fx.Provide(controllers.NewAdminController),
	fx.Provide(provideControllers))

func provideAccountController(accountService services.AccountServiceInterface, jwt *utils.JWTManager, cfg *config.Config) *controllers.AccountController {
	return controllers.NewAccountController(accountService, jwt, cfg.SecureCookies)
}

func provideSubscriptionController(subscriptionService services.ISubscriptionService, accountService services.AccountServiceInterface, cfg *config.Config) *controllers.SubscriptionController {
	return controllers.NewSubscriptionController(subscriptionService, accountService, controllers.PlanInfo{
		ProductName: cfg.Stripe.ProductName,
		PriceCents:  cfg.Stripe.PriceCents,
		Currency:    cfg.Stripe.Currency,
		Interval:    cfg.Stripe.Interval,
	})
}

func provideControllers(
	account *controllers.AccountController,
	subscription *controllers.SubscriptionController,
	journal *controllers.JournalController,
	community *controllers.CommunityController,
	admin *controllers.AdminController) api.Controllers {
	return api.Controllers{
		Account:      account,
		Subscription: subscription,
		Journal:      journal,
		Community:    community,
		Admin:        admin,
	}
}
