package journal_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"recovery/internal/repositories"
	"recovery/internal/services"
)

var Module = fx.Provide(
	repositories.NewJournalRepository,
	repositories.NewAnnotationRepository,
	provideJournalService)

func provideJournalService(db *gorm.DB, accountRepo repositories.AccountRepository, journalRepo repositories.JournalRepository, annotationRepo repositories.AnnotationRepository, log *zap.Logger) services.JournalServiceInterface {
	return services.NewJournalService(db, accountRepo, journalRepo, annotationRepo, log)
}
