package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"recovery/internal/entitlement"
	"recovery/internal/metrics"
	"recovery/internal/models/db_models"
	"recovery/internal/models/request_models"
	"recovery/internal/repositories"
	"recovery/pkg/utils"
)

type AccountServiceInterface interface {
	Register(ctx context.Context, request request_models.SignUpRequest) (*db_models.Account, error)
	Login(ctx context.Context, request request_models.LoginRequest) (string, *db_models.Account, error)
	GetProfile(ctx context.Context, accountID uuid.UUID) (*db_models.Account, error)
}

type AccountService struct {
	db          *gorm.DB
	accountRepo repositories.AccountRepository
	mail        IMailService
	jwt         *utils.JWTManager
	log         *zap.Logger
	owners      map[string]bool
}

// NewAccountService grants the owner role at registration to any email in
// ownerEmails.
func NewAccountService(db *gorm.DB, accountRepo repositories.AccountRepository, mail IMailService, jwt *utils.JWTManager, ownerEmails []string, log *zap.Logger) AccountServiceInterface {
	owners := make(map[string]bool, len(ownerEmails))
	for _, e := range ownerEmails {
		owners[normalizeEmail(e)] = true
	}
	return &AccountService{
		db:          db,
		accountRepo: accountRepo,
		mail:        mail,
		jwt:         jwt,
		log:         log,
		owners:      owners,
	}
}

// normalizeEmail only trims; addresses are unique and matched exactly as
// stored, including letter case.
func normalizeEmail(email string) string {
	return strings.TrimSpace(email)
}

func (a *AccountService) Register(ctx context.Context, request request_models.SignUpRequest) (*db_models.Account, error) {
	email := normalizeEmail(request.Email)

	hashedPassword, err := utils.HashPassword(request.Password)
	if err != nil {
		return nil, err
	}

	var newAccount *db_models.Account
	err = a.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := a.accountRepo.WithTx(tx)
		existing, err := repo.FindByEmail(ctx, email)
		if err != nil {
			return err
		}

		tr, err := entitlement.Register(existing != nil)
		if err != nil {
			return err
		}

		role := tr.Next.Role
		if a.owners[email] {
			role = entitlement.RoleOwner
		}
		newAccount = &db_models.Account{
			Name:               strings.TrimSpace(request.Name),
			Email:              email,
			PasswordHash:       hashedPassword,
			Role:               role,
			SubscriptionStatus: tr.Next.Status,
			CurrentDay:         1,
		}
		return repo.Insert(ctx, newAccount)
	})
	if err != nil {
		// the unique index catches a racing registration the lookup missed
		if errors.Is(err, utils.ErrDuplicateIdentity) || errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, utils.ErrDuplicateIdentity
		}
		a.log.Error("register account", zap.String("email", email), zap.Error(err))
		return nil, utils.ErrDatabaseError
	}

	metrics.Registrations.Inc()
	if err := a.mail.SendAccountCreated(ctx, newAccount.Email, newAccount.Name); err != nil {
		a.log.Warn("account created email failed", zap.String("email", newAccount.Email), zap.Error(err))
	}
	return newAccount, nil
}

// Login answers ErrInvalidCredentials for both an unknown email and a wrong
// password.
func (a *AccountService) Login(ctx context.Context, request request_models.LoginRequest) (string, *db_models.Account, error) {
	account, err := a.accountRepo.FindByEmail(ctx, normalizeEmail(request.Email))
	if err != nil {
		return "", nil, utils.ErrDatabaseError
	}
	if account == nil {
		return "", nil, utils.ErrInvalidCredentials
	}

	if err := utils.ComparePasswords(account.PasswordHash, request.Password); err != nil {
		return "", nil, utils.ErrInvalidCredentials
	}

	token, err := a.jwt.CreateToken(account.ID, string(account.Role))
	if err != nil {
		return "", nil, err
	}
	return token, account, nil
}

func (a *AccountService) GetProfile(ctx context.Context, accountID uuid.UUID) (*db_models.Account, error) {
	account, err := a.accountRepo.FindById(ctx, accountID)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if account == nil {
		return nil, utils.ErrAccountNotFound
	}
	return account, nil
}
