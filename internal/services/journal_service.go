package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"recovery/internal/metrics"
	"recovery/internal/models/db_models"
	"recovery/internal/progress"
	"recovery/internal/repositories"
	"recovery/pkg/utils"
)

type JournalServiceInterface interface {
	GetDay(ctx context.Context, accountID uuid.UUID, day int) (*JournalDay, error)
	SaveEntry(ctx context.Context, accountID uuid.UUID, day int, input progress.EntryInput) (*progress.SaveResult, error)
	Dashboard(ctx context.Context, accountID uuid.UUID) (*Dashboard, error)
	GetPage(ctx context.Context, accountID uuid.UUID, page int) (*db_models.PDFAnnotation, error)
	SaveAnnotation(ctx context.Context, accountID uuid.UUID, page int, notes string, drawing *string) (*db_models.PDFAnnotation, error)
}

type JournalDay struct {
	Account *db_models.Account
	Entry   *db_models.JournalEntry
}

type Dashboard struct {
	Account *db_models.Account
	Entries []db_models.JournalEntry
}

type JournalService struct {
	db             *gorm.DB
	accountRepo    repositories.AccountRepository
	journalRepo    repositories.JournalRepository
	annotationRepo repositories.AnnotationRepository
	log            *zap.Logger
	now            func() time.Time
}

func NewJournalService(db *gorm.DB, accountRepo repositories.AccountRepository, journalRepo repositories.JournalRepository, annotationRepo repositories.AnnotationRepository, log *zap.Logger) *JournalService {
	return &JournalService{
		db:             db,
		accountRepo:    accountRepo,
		journalRepo:    journalRepo,
		annotationRepo: annotationRepo,
		log:            log,
		now:            time.Now,
	}
}

// entitled loads the account through repo and applies the subscription gate.
// It never trusts a cached copy of the account.
func entitled(ctx context.Context, repo repositories.AccountRepository, accountID uuid.UUID) (*db_models.Account, error) {
	account, err := repo.FindById(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, utils.ErrAccountNotFound
	}
	if !account.HasActiveSubscription() {
		return nil, utils.ErrSubscriptionRequired
	}
	return account, nil
}

// domainErr passes sentinel errors through and hides everything else behind
// ErrDatabaseError.
func domainErr(log *zap.Logger, op string, err error) error {
	for _, known := range []error{
		utils.ErrAccountNotFound,
		utils.ErrSubscriptionRequired,
		utils.ErrInvalidDay,
		utils.ErrInvalidPage,
		utils.ErrForbidden,
		utils.ErrNotFound,
	} {
		if errors.Is(err, known) {
			return known
		}
	}
	log.Error(op, zap.Error(err))
	return utils.ErrDatabaseError
}

// GetDay opens the entry for day, falling back to the account's current day
// when day is out of range.
func (s *JournalService) GetDay(ctx context.Context, accountID uuid.UUID, day int) (*JournalDay, error) {
	account, err := entitled(ctx, s.accountRepo, accountID)
	if err != nil {
		return nil, domainErr(s.log, "journal get day", err)
	}

	entry, err := s.journalRepo.GetOrCreate(ctx, accountID, progress.ClampDay(day, account.CurrentDay))
	if err != nil {
		return nil, domainErr(s.log, "journal get day", err)
	}
	return &JournalDay{Account: account, Entry: entry}, nil
}

func (s *JournalService) SaveEntry(ctx context.Context, accountID uuid.UUID, day int, input progress.EntryInput) (*progress.SaveResult, error) {
	var result progress.SaveResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		accounts := s.accountRepo.WithTx(tx)
		entries := s.journalRepo.WithTx(tx)

		account, err := entitled(ctx, accounts, accountID)
		if err != nil {
			return err
		}
		if !progress.ValidDay(day) {
			return utils.ErrInvalidDay
		}

		prior, err := entries.GetOrCreate(ctx, accountID, day)
		if err != nil {
			return err
		}

		ptr := progress.Pointer{
			CurrentDay:    account.CurrentDay,
			DaysCompleted: account.DaysCompleted,
			LastActivity:  account.LastActivity,
		}
		result = progress.ApplySave(ptr, *prior, input, s.now())
		if err := entries.Save(ctx, &result.Entry); err != nil {
			return err
		}

		if !result.Recount {
			return nil
		}
		completed, err := entries.CountCompleted(ctx, accountID)
		if err != nil {
			return err
		}
		result.Pointer.DaysCompleted = int(completed)

		account.CurrentDay = result.Pointer.CurrentDay
		account.DaysCompleted = result.Pointer.DaysCompleted
		account.LastActivity = result.Pointer.LastActivity
		return accounts.UpdateProgress(ctx, account)
	})
	if err != nil {
		return nil, domainErr(s.log, "journal save entry", err)
	}

	metrics.EntriesSaved.WithLabelValues("entry").Inc()
	if result.Advanced {
		metrics.DaysAdvanced.Inc()
		s.log.Info("journal day completed",
			zap.String("account_id", accountID.String()),
			zap.Int("day", day),
			zap.Int("current_day", result.Pointer.CurrentDay))
	}
	return &result, nil
}

// Dashboard returns all thirty entries in day order, creating any that are
// missing. Rows a concurrent backfill created first are kept as they are.
func (s *JournalService) Dashboard(ctx context.Context, accountID uuid.UUID) (*Dashboard, error) {
	var out Dashboard
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		account, err := entitled(ctx, s.accountRepo.WithTx(tx), accountID)
		if err != nil {
			return err
		}
		entries := s.journalRepo.WithTx(tx)

		existing, err := entries.ExistingDays(ctx, accountID)
		if err != nil {
			return err
		}
		if err := entries.CreateEmpty(ctx, accountID, progress.MissingDays(existing)); err != nil {
			return err
		}

		list, err := entries.ListByAccount(ctx, accountID)
		if err != nil {
			return err
		}
		out = Dashboard{Account: account, Entries: list}
		return nil
	})
	if err != nil {
		return nil, domainErr(s.log, "journal dashboard", err)
	}
	return &out, nil
}

func (s *JournalService) GetPage(ctx context.Context, accountID uuid.UUID, page int) (*db_models.PDFAnnotation, error) {
	if _, err := entitled(ctx, s.accountRepo, accountID); err != nil {
		return nil, domainErr(s.log, "journal get page", err)
	}

	annotation, err := s.annotationRepo.GetOrCreate(ctx, accountID, progress.ClampPage(page, 1))
	if err != nil {
		return nil, domainErr(s.log, "journal get page", err)
	}
	return annotation, nil
}

// SaveAnnotation overwrites notes; a nil drawing keeps the stored one.
func (s *JournalService) SaveAnnotation(ctx context.Context, accountID uuid.UUID, page int, notes string, drawing *string) (*db_models.PDFAnnotation, error) {
	var annotation *db_models.PDFAnnotation
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := entitled(ctx, s.accountRepo.WithTx(tx), accountID); err != nil {
			return err
		}
		if !progress.ValidPage(page) {
			return utils.ErrInvalidPage
		}

		repo := s.annotationRepo.WithTx(tx)
		a, err := repo.GetOrCreate(ctx, accountID, page)
		if err != nil {
			return err
		}
		a.Notes = notes
		if drawing != nil {
			a.DrawingData = *drawing
		}
		a.UpdatedAt = s.now().Unix()
		annotation = a
		return repo.Save(ctx, a)
	})
	if err != nil {
		return nil, domainErr(s.log, "journal save annotation", err)
	}
	metrics.EntriesSaved.WithLabelValues("annotation").Inc()
	return annotation, nil
}
