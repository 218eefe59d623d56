package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"recovery/internal/models/db_models"
)

type AnnotationRepository interface {
	WithTx(tx *gorm.DB) AnnotationRepository
	GetOrCreate(ctx context.Context, accountID uuid.UUID, page int) (*db_models.PDFAnnotation, error)
	Save(ctx context.Context, annotation *db_models.PDFAnnotation) error
	ListByAccount(ctx context.Context, accountID uuid.UUID) ([]db_models.PDFAnnotation, error)
}

type annotationRepository struct {
	db *gorm.DB
}

func NewAnnotationRepository(db *gorm.DB) AnnotationRepository {
	return &annotationRepository{db: db}
}

func (r *annotationRepository) WithTx(tx *gorm.DB) AnnotationRepository {
	return &annotationRepository{db: tx}
}

func (r *annotationRepository) find(ctx context.Context, accountID uuid.UUID, page int) (*db_models.PDFAnnotation, error) {
	var a db_models.PDFAnnotation
	err := r.db.WithContext(ctx).
		Where("account_id = ? AND page_number = ?", accountID, page).
		First(&a).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

func (r *annotationRepository) GetOrCreate(ctx context.Context, accountID uuid.UUID, page int) (*db_models.PDFAnnotation, error) {
	a, err := r.find(ctx, accountID, page)
	if err != nil || a != nil {
		return a, err
	}

	a = &db_models.PDFAnnotation{AccountID: accountID, PageNumber: page}
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(a)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return r.find(ctx, accountID, page)
	}
	return a, nil
}

func (r *annotationRepository) Save(ctx context.Context, annotation *db_models.PDFAnnotation) error {
	return r.db.WithContext(ctx).Save(annotation).Error
}

func (r *annotationRepository) ListByAccount(ctx context.Context, accountID uuid.UUID) ([]db_models.PDFAnnotation, error) {
	var out []db_models.PDFAnnotation
	err := r.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("page_number ASC").
		Find(&out).Error
	return out, err
}
