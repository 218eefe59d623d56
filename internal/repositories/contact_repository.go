package repositories

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"recovery/internal/models/db_models"
)

type ContactRepository interface {
	Create(ctx context.Context, msg *db_models.ContactMessage) error
	List(ctx context.Context, page, pageSize int, unreadOnly bool) ([]db_models.ContactMessage, error)
	Count(ctx context.Context, unreadOnly bool) (int64, error)
	MarkRead(ctx context.Context, id uuid.UUID) (bool, error)
}

type contactRepository struct {
	db *gorm.DB
}

func NewContactRepository(db *gorm.DB) ContactRepository {
	return &contactRepository{db: db}
}

func (r *contactRepository) Create(ctx context.Context, msg *db_models.ContactMessage) error {
	return r.db.WithContext(ctx).Create(msg).Error
}

func (r *contactRepository) List(ctx context.Context, page, pageSize int, unreadOnly bool) ([]db_models.ContactMessage, error) {
	var msgs []db_models.ContactMessage
	q := r.db.WithContext(ctx)
	if unreadOnly {
		q = q.Where("is_read = ?", false)
	}
	err := q.
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Order("submitted_date DESC").
		Find(&msgs).Error
	return msgs, err
}

func (r *contactRepository) Count(ctx context.Context, unreadOnly bool) (int64, error) {
	var n int64
	q := r.db.WithContext(ctx).Model(&db_models.ContactMessage{})
	if unreadOnly {
		q = q.Where("is_read = ?", false)
	}
	err := q.Count(&n).Error
	return n, err
}

func (r *contactRepository) MarkRead(ctx context.Context, id uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&db_models.ContactMessage{}).
		Where("id = ?", id).
		Update("is_read", true)
	return res.RowsAffected > 0, res.Error
}
