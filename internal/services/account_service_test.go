package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recovery/internal/entitlement"
	"recovery/internal/models/db_models"
	"recovery/internal/models/request_models"
	"recovery/pkg/utils"
)

func newAccountService(f *fixture, owners ...string) AccountServiceInterface {
	return NewAccountService(f.db, f.accounts, f.mail, utils.NewJWTManager("test-secret", time.Hour), owners, f.log)
}

func TestAccountService_RegisterCreatesInactiveSubscriber(t *testing.T) {
	f := newFixture(t)
	svc := newAccountService(f)

	acc, err := svc.Register(context.Background(), request_models.SignUpRequest{Name: "Ann", Email: "A@X.com ", Password: "secret1"})
	require.NoError(t, err)

	got := f.reload(t, acc)
	assert.Equal(t, "A@X.com", got.Email)
	assert.Equal(t, entitlement.StatusInactive, got.SubscriptionStatus)
	assert.Equal(t, entitlement.RoleSubscriber, got.Role)
	assert.Equal(t, 1, got.CurrentDay)
	assert.False(t, got.HasActiveSubscription())
	assert.NotEqual(t, "secret1", got.PasswordHash)
	assert.Equal(t, 1, f.sender.count())
}

func TestAccountService_RegisterDuplicateCreatesNoRow(t *testing.T) {
	f := newFixture(t)
	svc := newAccountService(f)
	ctx := context.Background()

	_, err := svc.Register(ctx, request_models.SignUpRequest{Name: "Ann", Email: "a@x.com", Password: "secret1"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, request_models.SignUpRequest{Name: "Other", Email: "a@x.com", Password: "secret2"})
	assert.ErrorIs(t, err, utils.ErrDuplicateIdentity)

	var n int64
	require.NoError(t, f.db.Model(&db_models.Account{}).Count(&n).Error)
	assert.Equal(t, int64(1), n)
}

func TestAccountService_RegisterOwnerEmail(t *testing.T) {
	f := newFixture(t)
	svc := newAccountService(f, " owner@site.com")
	ctx := context.Background()

	acc, err := svc.Register(ctx, request_models.SignUpRequest{Name: "Owner", Email: "owner@site.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, entitlement.RoleOwner, acc.Role)
	assert.True(t, acc.HasActiveSubscription())

	other, err := svc.Register(ctx, request_models.SignUpRequest{Name: "Not owner", Email: "Owner@Site.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, entitlement.RoleSubscriber, other.Role)
}

func TestAccountService_EmailsDifferingInCaseAreDistinct(t *testing.T) {
	f := newFixture(t)
	svc := newAccountService(f)
	ctx := context.Background()

	upper, err := svc.Register(ctx, request_models.SignUpRequest{Name: "Ann", Email: "A@x.com", Password: "secret1"})
	require.NoError(t, err)
	lower, err := svc.Register(ctx, request_models.SignUpRequest{Name: "Ann", Email: "a@x.com", Password: "secret2"})
	require.NoError(t, err)
	assert.NotEqual(t, upper.ID, lower.ID)
	assert.Equal(t, "A@x.com", f.reload(t, upper).Email)
	assert.Equal(t, "a@x.com", f.reload(t, lower).Email)

	_, got, err := svc.Login(ctx, request_models.LoginRequest{Email: "A@x.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, upper.ID, got.ID)

	_, _, err = svc.Login(ctx, request_models.LoginRequest{Email: "A@x.com", Password: "secret2"})
	assert.ErrorIs(t, err, utils.ErrInvalidCredentials)
}

func TestAccountService_RegisterSurvivesNotificationFailure(t *testing.T) {
	f := newFixture(t)
	f.sender.err = errors.New("smtp down")
	svc := newAccountService(f)

	acc, err := svc.Register(context.Background(), request_models.SignUpRequest{Name: "Ann", Email: "a@x.com", Password: "secret1"})
	require.NoError(t, err)
	assert.NotNil(t, f.reload(t, acc))
}

func TestAccountService_LoginIsGeneric(t *testing.T) {
	f := newFixture(t)
	svc := newAccountService(f)
	ctx := context.Background()

	_, err := svc.Register(ctx, request_models.SignUpRequest{Name: "Ann", Email: "a@x.com", Password: "secret1"})
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, request_models.LoginRequest{Email: "a@x.com", Password: "wrong"})
	assert.ErrorIs(t, err, utils.ErrInvalidCredentials)

	_, _, err = svc.Login(ctx, request_models.LoginRequest{Email: "nobody@x.com", Password: "secret1"})
	assert.ErrorIs(t, err, utils.ErrInvalidCredentials)

	_, _, err = svc.Login(ctx, request_models.LoginRequest{Email: "A@x.com", Password: "secret1"})
	assert.ErrorIs(t, err, utils.ErrInvalidCredentials)

	token, acc, err := svc.Login(ctx, request_models.LoginRequest{Email: " a@x.com ", Password: "secret1"})
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, "a@x.com", acc.Email)
}

func TestAccountService_GetProfile(t *testing.T) {
	f := newFixture(t)
	svc := newAccountService(f)
	acc := f.seed(t, "p@x.com", entitlement.RoleSubscriber, entitlement.StatusActive)

	got, err := svc.GetProfile(context.Background(), acc.ID)
	require.NoError(t, err)
	assert.True(t, got.HasActiveSubscription())

	_, err = svc.GetProfile(context.Background(), uuid.New())
	assert.ErrorIs(t, err, utils.ErrAccountNotFound)
}
