package community_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"recovery/internal/repositories"
	"recovery/internal/services"
)

var Module = fx.Provide(
	repositories.NewSubscriberRepository,
	repositories.NewContactRepository,
	repositories.NewSettingRepository,
	provideCommunityService,
	services.NewSettingService)

func provideCommunityService(db *gorm.DB, subscriberRepo repositories.SubscriberRepository, contactRepo repositories.ContactRepository, accountRepo repositories.AccountRepository, mail services.IMailService, log *zap.Logger) services.CommunityServiceInterface {
	return services.NewCommunityService(db, subscriberRepo, contactRepo, accountRepo, mail, log)
}
