package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"recovery/internal/entitlement"
	"recovery/internal/metrics"
	"recovery/internal/models/db_models"
	"recovery/internal/repositories"
	"recovery/pkg/utils"
)

type ISubscriptionService interface {
	InitiateCheckout(ctx context.Context, accountID uuid.UUID) (string, error)
	ConfirmPayment(ctx context.Context, sessionID string) (*db_models.Account, error)
	ManageURL(ctx context.Context, accountID uuid.UUID) (string, error)
	SyncStatus(ctx context.Context, accountID uuid.UUID) (*db_models.Account, error)
	CancelAtPeriodEnd(ctx context.Context, accountID uuid.UUID) (*db_models.Account, error)
	SyncAll(ctx context.Context) (SyncReport, error)
}

type SyncReport struct {
	Checked int
	Changed int
	Failed  int
}

type SubscriptionService struct {
	db          *gorm.DB
	accountRepo repositories.AccountRepository
	billing     BillingService
	mail        IMailService
	log         *zap.Logger
	now         func() time.Time
}

func NewSubscriptionService(db *gorm.DB, accountRepo repositories.AccountRepository, billing BillingService, mail IMailService, log *zap.Logger) *SubscriptionService {
	return &SubscriptionService{
		db:          db,
		accountRepo: accountRepo,
		billing:     billing,
		mail:        mail,
		log:         log,
		now:         time.Now,
	}
}

func (s *SubscriptionService) loadAccount(ctx context.Context, id uuid.UUID) (*db_models.Account, error) {
	account, err := s.accountRepo.FindById(ctx, id)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if account == nil {
		return nil, utils.ErrAccountNotFound
	}
	return account, nil
}

func (s *SubscriptionService) InitiateCheckout(ctx context.Context, accountID uuid.UUID) (string, error) {
	account, err := s.loadAccount(ctx, accountID)
	if err != nil {
		return "", err
	}

	url, err := s.billing.CreateCheckoutSession(ctx, account.Email, account.Name)
	metrics.CheckoutsStarted.WithLabelValues(metrics.Result(err)).Inc()
	if err != nil {
		if errors.Is(err, utils.ErrCheckoutUnavailable) {
			return "", err
		}
		return "", utils.ErrCheckoutUnavailable
	}
	return url, nil
}

// ConfirmPayment reconciles a checkout redirect with an account. The account
// is resolved only from metadata the provider returns, never from the
// request. Any failure leaves every account untouched.
func (s *SubscriptionService) ConfirmPayment(ctx context.Context, sessionID string) (*db_models.Account, error) {
	account, notify, err := s.confirmPayment(ctx, sessionID)
	metrics.PaymentsConfirmed.WithLabelValues(metrics.Result(err)).Inc()
	if err != nil {
		s.log.Warn("payment not confirmed", zap.String("session_id", sessionID), zap.Error(err))
		return nil, utils.ErrPaymentNotConfirmed
	}

	if notify {
		if err := s.mail.SendSubscriptionConfirmed(ctx, account.Email, account.Name); err != nil {
			s.log.Warn("subscription confirmation email failed", zap.String("email", account.Email), zap.Error(err))
		}
	}
	return account, nil
}

func (s *SubscriptionService) confirmPayment(ctx context.Context, sessionID string) (*db_models.Account, bool, error) {
	if sessionID == "" {
		return nil, false, utils.ErrPaymentNotConfirmed
	}
	session, err := s.billing.RetrieveSession(ctx, sessionID)
	if err != nil {
		return nil, false, err
	}
	email, err := entitlement.ReconciliationEmail(*session)
	if err != nil {
		return nil, false, err
	}

	var (
		account *db_models.Account
		notify  bool
	)
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.accountRepo.WithTx(tx)
		found, err := repo.FindByEmail(ctx, email)
		if err != nil {
			return err
		}

		var prior *entitlement.State
		if found != nil {
			st := found.EntitlementState()
			prior = &st
		}
		tr, err := entitlement.ConfirmPayment(prior, *session, s.now())
		if err != nil {
			return err
		}

		found.ApplyEntitlement(tr.Next)
		if tr.HasEffect(entitlement.EffectPersist) {
			if err := repo.UpdateEntitlement(ctx, found); err != nil {
				return err
			}
		}
		account = found
		notify = tr.HasEffect(entitlement.EffectNotifySubscribed)
		return nil
	})
	if err != nil {
		return nil, false, err
	}

	s.log.Info("subscription activated", zap.String("account_id", account.ID.String()), zap.String("session_id", sessionID))
	return account, notify, nil
}

func (s *SubscriptionService) ManageURL(ctx context.Context, accountID uuid.UUID) (string, error) {
	account, err := s.loadAccount(ctx, accountID)
	if err != nil {
		return "", err
	}
	customerID, err := entitlement.PortalCustomer(account.EntitlementState())
	if err != nil {
		return "", err
	}

	url, err := s.billing.CreatePortalSession(ctx, customerID)
	if err != nil {
		if errors.Is(err, utils.ErrPortalUnavailable) {
			return "", err
		}
		return "", utils.ErrPortalUnavailable
	}
	return url, nil
}

// SyncStatus pulls the provider's view of the subscription onto the account.
func (s *SubscriptionService) SyncStatus(ctx context.Context, accountID uuid.UUID) (*db_models.Account, error) {
	account, err := s.loadAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	customerID, err := entitlement.PortalCustomer(account.EntitlementState())
	if err != nil {
		return nil, err
	}

	status, err := s.billing.GetSubscriptionStatus(ctx, customerID)
	if err != nil {
		metrics.StatusSyncs.WithLabelValues("error").Inc()
		return nil, utils.ErrSubscriptionStatus
	}
	account, _, err = s.applyStatus(ctx, accountID, status)
	metrics.StatusSyncs.WithLabelValues(metrics.Result(err)).Inc()
	return account, err
}

func (s *SubscriptionService) CancelAtPeriodEnd(ctx context.Context, accountID uuid.UUID) (*db_models.Account, error) {
	account, err := s.loadAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	customerID, err := entitlement.PortalCustomer(account.EntitlementState())
	if err != nil {
		return nil, err
	}

	status, err := s.billing.CancelAtPeriodEnd(ctx, customerID)
	if err != nil {
		if errors.Is(err, utils.ErrNoBillingIdentity) {
			return nil, err
		}
		return nil, utils.ErrSubscriptionStatus
	}
	account, _, err = s.applyStatus(ctx, accountID, status)
	return account, err
}

// applyStatus re-reads the account inside the transaction so a concurrent
// journal save on the same row is not overwritten.
func (s *SubscriptionService) applyStatus(ctx context.Context, accountID uuid.UUID, status *entitlement.BillingStatus) (*db_models.Account, bool, error) {
	var (
		account *db_models.Account
		changed bool
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.accountRepo.WithTx(tx)
		found, err := repo.FindById(ctx, accountID)
		if err != nil {
			return err
		}
		if found == nil {
			return utils.ErrAccountNotFound
		}

		tr := entitlement.ApplyBillingStatus(found.EntitlementState(), status)
		found.ApplyEntitlement(tr.Next)

		cancelFlag := status != nil && status.CancelAtPeriodEnd
		changed = tr.HasEffect(entitlement.EffectPersist) || found.CancelAtPeriodEnd != cancelFlag
		account = found
		if !changed {
			return nil
		}

		found.CancelAtPeriodEnd = cancelFlag
		if status != nil {
			if raw, err := json.Marshal(status); err == nil {
				found.BillingSnapshot = datatypes.JSON(raw)
			}
		}
		return repo.UpdateEntitlement(ctx, found)
	})
	if err != nil {
		if errors.Is(err, utils.ErrAccountNotFound) {
			return nil, false, err
		}
		return nil, false, utils.ErrDatabaseError
	}
	return account, changed, nil
}

// SyncAll reconciles every account that has a billing customer. One failing
// account does not stop the sweep.
func (s *SubscriptionService) SyncAll(ctx context.Context) (SyncReport, error) {
	var report SyncReport

	accounts, err := s.accountRepo.ListWithBillingCustomer(ctx)
	if err != nil {
		return report, utils.ErrDatabaseError
	}

	for _, acc := range accounts {
		if ctx.Err() != nil {
			return report, ctx.Err()
		}
		report.Checked++

		status, err := s.billing.GetSubscriptionStatus(ctx, *acc.BillingCustomerID)
		if err != nil {
			report.Failed++
			metrics.StatusSyncs.WithLabelValues("error").Inc()
			s.log.Warn("subscription sync failed", zap.String("account_id", acc.ID.String()), zap.Error(err))
			continue
		}
		_, changed, err := s.applyStatus(ctx, acc.ID, status)
		metrics.StatusSyncs.WithLabelValues(metrics.Result(err)).Inc()
		if err != nil {
			report.Failed++
			s.log.Warn("subscription sync persist failed", zap.String("account_id", acc.ID.String()), zap.Error(err))
			continue
		}
		if changed {
			report.Changed++
		}
	}
	return report, nil
}
