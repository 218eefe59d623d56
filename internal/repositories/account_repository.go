package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"recovery/internal/models/db_models"
)

type AccountRepository interface {
	WithTx(tx *gorm.DB) AccountRepository
	Insert(ctx context.Context, account *db_models.Account) error
	Save(ctx context.Context, account *db_models.Account) error
	FindById(ctx context.Context, id uuid.UUID) (*db_models.Account, error)
	FindByEmail(ctx context.Context, email string) (*db_models.Account, error)
	ListWithBillingCustomer(ctx context.Context) ([]db_models.Account, error)
	// UpdateEntitlement and UpdateProgress write only their own columns so a
	// payment confirmation and a journal save do not clobber each other.
	UpdateEntitlement(ctx context.Context, account *db_models.Account) error
	UpdateProgress(ctx context.Context, account *db_models.Account) error
}

type accountRepository struct {
	db *gorm.DB
}

func NewAccountRepository(db *gorm.DB) AccountRepository {
	return &accountRepository{
		db: db,
	}
}

func (a *accountRepository) WithTx(tx *gorm.DB) AccountRepository {
	return &accountRepository{db: tx}
}

func (a *accountRepository) FindByEmail(ctx context.Context, email string) (*db_models.Account, error) {

	var account db_models.Account
	err := a.db.WithContext(ctx).First(&account, "email = ?", email).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &account, nil
}

func (a *accountRepository) Insert(ctx context.Context, account *db_models.Account) error {
	return a.db.WithContext(ctx).Create(account).Error
}

func (a *accountRepository) Save(ctx context.Context, account *db_models.Account) error {
	return a.db.WithContext(ctx).Save(account).Error
}

func (a *accountRepository) FindById(ctx context.Context, id uuid.UUID) (*db_models.Account, error) {
	var account db_models.Account
	err := a.db.WithContext(ctx).First(&account, "id = ?", id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &account, nil
}

func (a *accountRepository) ListWithBillingCustomer(ctx context.Context) ([]db_models.Account, error) {
	var accounts []db_models.Account
	err := a.db.WithContext(ctx).
		Where("billing_customer_id IS NOT NULL AND billing_customer_id <> ''").
		Order("created_at ASC").
		Find(&accounts).Error
	return accounts, err
}

func (a *accountRepository) UpdateEntitlement(ctx context.Context, account *db_models.Account) error {
	return a.db.WithContext(ctx).
		Model(account).
		Select("billing_customer_id", "subscription_status", "subscription_start", "subscription_end",
			"cancel_at_period_end", "billing_snapshot").
		Updates(account).Error
}

func (a *accountRepository) UpdateProgress(ctx context.Context, account *db_models.Account) error {
	return a.db.WithContext(ctx).
		Model(account).
		Select("current_day", "days_completed", "last_activity").
		Updates(account).Error
}
