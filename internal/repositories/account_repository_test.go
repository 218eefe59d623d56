package repositories

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"recovery/internal/testutil"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

func TestAccountRepository_FindByEmail_NotFoundIsNil(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(`SELECT \* FROM "accounts"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email"}))

	acc, err := NewAccountRepository(db).FindByEmail(context.Background(), "nobody@x.com")
	assert.NoError(t, err)
	assert.Nil(t, acc)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepository_FindByEmail_DatabaseError(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(`SELECT \* FROM "accounts"`).
		WillReturnError(sqlmock.ErrCancelled)

	acc, err := NewAccountRepository(db).FindByEmail(context.Background(), "a@x.com")
	assert.Error(t, err)
	assert.Nil(t, acc)
}

func TestAccountRepository_RoundTrip(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	repo := NewAccountRepository(db)

	acc := seedAccount(t, repo, "a@x.com")

	found, err := repo.FindByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, acc.ID, found.ID)

	// emails are matched exactly as stored
	upper, err := repo.FindByEmail(ctx, "A@X.COM")
	require.NoError(t, err)
	assert.Nil(t, upper)

	cus := "cus_1"
	found.BillingCustomerID = &cus
	require.NoError(t, repo.Save(ctx, found))

	billed, err := repo.ListWithBillingCustomer(ctx)
	require.NoError(t, err)
	require.Len(t, billed, 1)
	assert.Equal(t, "cus_1", *billed[0].BillingCustomerID)

	byID, err := repo.FindById(ctx, acc.ID)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", byID.Email)
}
