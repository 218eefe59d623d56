package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"recovery/internal/repositories"
	"recovery/pkg/utils"
)

// DefaultSettings theme the dashboard until the owner overrides them.
var DefaultSettings = map[string]string{
	"dashboard_theme":   "light",
	"primary_color":     "#4a90e2",
	"accent_color":      "#27ae60",
	"dashboard_welcome": "Recovery is a journey, not a destination. One day at a time.",
}

type SettingServiceInterface interface {
	GetAll(ctx context.Context) (map[string]string, error)
	Update(ctx context.Context, accountID uuid.UUID, name, value string) error
}

type SettingService struct {
	settingRepo repositories.SettingRepository
	accountRepo repositories.AccountRepository
	log         *zap.Logger
}

func NewSettingService(settingRepo repositories.SettingRepository, accountRepo repositories.AccountRepository, log *zap.Logger) SettingServiceInterface {
	return &SettingService{settingRepo: settingRepo, accountRepo: accountRepo, log: log}
}

func (s *SettingService) GetAll(ctx context.Context) (map[string]string, error) {
	rows, err := s.settingRepo.List(ctx)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}

	out := make(map[string]string, len(DefaultSettings)+len(rows))
	for k, v := range DefaultSettings {
		out[k] = v
	}
	for _, r := range rows {
		out[r.SettingName] = r.SettingValue
	}
	return out, nil
}

// Update is reserved to the owner identity.
func (s *SettingService) Update(ctx context.Context, accountID uuid.UUID, name, value string) error {
	if err := requireOwner(ctx, s.accountRepo, accountID); err != nil {
		return err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return utils.ErrInvalidInput
	}

	if err := s.settingRepo.Upsert(ctx, name, value); err != nil {
		s.log.Error("update setting", zap.String("name", name), zap.Error(err))
		return utils.ErrDatabaseError
	}
	s.log.Info("setting updated", zap.String("name", name), zap.String("by", accountID.String()))
	return nil
}
