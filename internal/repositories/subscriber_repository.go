package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"recovery/internal/models/db_models"
)

type SubscriberRepository interface {
	WithTx(tx *gorm.DB) SubscriberRepository
	FindByEmail(ctx context.Context, email string) (*db_models.EmailSubscriber, error)
	Create(ctx context.Context, s *db_models.EmailSubscriber) error
	Save(ctx context.Context, s *db_models.EmailSubscriber) error
	CountActive(ctx context.Context) (int64, error)
}

type subscriberRepository struct {
	db *gorm.DB
}

func NewSubscriberRepository(db *gorm.DB) SubscriberRepository {
	return &subscriberRepository{db: db}
}

func (r *subscriberRepository) WithTx(tx *gorm.DB) SubscriberRepository {
	return &subscriberRepository{db: tx}
}

func (r *subscriberRepository) FindByEmail(ctx context.Context, email string) (*db_models.EmailSubscriber, error) {
	var s db_models.EmailSubscriber
	err := r.db.WithContext(ctx).First(&s, "email = ?", email).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

func (r *subscriberRepository) Create(ctx context.Context, s *db_models.EmailSubscriber) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *subscriberRepository) Save(ctx context.Context, s *db_models.EmailSubscriber) error {
	return r.db.WithContext(ctx).Save(s).Error
}

func (r *subscriberRepository) CountActive(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&db_models.EmailSubscriber{}).Where("is_active = ?", true).Count(&n).Error
	return n, err
}
