package account_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"recovery/internal/config"
	"recovery/internal/repositories"
	"recovery/internal/services"
	"recovery/pkg/utils"
)

var Module = fx.Provide(
	provideAccountService, provideAccountRepo, provideJWTManager)

func provideAccountRepo(db *gorm.DB) repositories.AccountRepository {
	return repositories.NewAccountRepository(db)
}

func provideJWTManager(cfg *config.Config) *utils.JWTManager {
	return utils.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)
}

func provideAccountService(db *gorm.DB, accountRepo repositories.AccountRepository, mailService services.IMailService, jwt *utils.JWTManager, cfg *config.Config, log *zap.Logger) services.AccountServiceInterface {
	return services.NewAccountService(db, accountRepo, mailService, jwt, cfg.Owners(), log)
}
