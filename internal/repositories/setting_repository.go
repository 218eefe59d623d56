package repositories

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"recovery/internal/models/db_models"
)

type SettingRepository interface {
	List(ctx context.Context) ([]db_models.SiteSetting, error)
	Upsert(ctx context.Context, name, value string) error
}

type settingRepository struct {
	db *gorm.DB
}

func NewSettingRepository(db *gorm.DB) SettingRepository {
	return &settingRepository{db: db}
}

func (r *settingRepository) List(ctx context.Context) ([]db_models.SiteSetting, error) {
	var out []db_models.SiteSetting
	err := r.db.WithContext(ctx).Order("setting_name ASC").Find(&out).Error
	return out, err
}

func (r *settingRepository) Upsert(ctx context.Context, name, value string) error {
	s := &db_models.SiteSetting{SettingName: name, SettingValue: value}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "setting_name"}},
			DoUpdates: clause.AssignmentColumns([]string{"setting_value", "updated_at"}),
		}).
		Create(s).Error
}
