package repositories

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"recovery/internal/entitlement"
	"recovery/internal/models/db_models"
	"recovery/internal/testutil"
)

func seedAccount(t *testing.T, repo AccountRepository, email string) *db_models.Account {
	t.Helper()
	acc := &db_models.Account{
		Name:               "Test",
		Email:              email,
		PasswordHash:       "x",
		Role:               entitlement.RoleSubscriber,
		SubscriptionStatus: entitlement.StatusInactive,
		CurrentDay:         1,
	}
	require.NoError(t, repo.Insert(context.Background(), acc))
	return acc
}

func TestJournalRepository_GetOrCreateIsIdempotent(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	acc := seedAccount(t, NewAccountRepository(db), "a@x.com")
	repo := NewJournalRepository(db)

	for day := 1; day <= 30; day++ {
		first, err := repo.GetOrCreate(ctx, acc.ID, day)
		require.NoError(t, err)
		second, err := repo.GetOrCreate(ctx, acc.ID, day)
		require.NoError(t, err)
		assert.Equal(t, first.ID, second.ID)
	}

	entries, err := repo.ListByAccount(ctx, acc.ID)
	require.NoError(t, err)
	assert.Len(t, entries, 30)
}

func TestJournalRepository_UniqueAccountDay(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	acc := seedAccount(t, NewAccountRepository(db), "a@x.com")
	repo := NewJournalRepository(db)

	require.NoError(t, repo.CreateEmpty(ctx, acc.ID, []int{1}))
	require.NoError(t, repo.CreateEmpty(ctx, acc.ID, []int{1, 2}))

	days, err := repo.ExistingDays(ctx, acc.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []int{1, 2}, days)

	err = db.Create(&db_models.JournalEntry{AccountID: acc.ID, DayNumber: 1}).Error
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

// rivalInsert makes a concurrent writer win: right before the next insert into
// table, rival is created through the same connection. It returns the SQL of
// every insert into table.
func rivalInsert(t *testing.T, db *gorm.DB, table string, rival any) *[]string {
	t.Helper()
	var (
		fired      bool
		statements []string
	)
	require.NoError(t, db.Callback().Create().Before("gorm:create").Register("test:rival_insert", func(tx *gorm.DB) {
		if fired || tx.Statement.Table != table {
			return
		}
		fired = true
		if err := tx.Session(&gorm.Session{NewDB: true}).Create(rival).Error; err != nil {
			_ = tx.AddError(err)
		}
	}))
	require.NoError(t, db.Callback().Create().After("gorm:create").Register("test:record_sql", func(tx *gorm.DB) {
		if tx.Statement.Table == table {
			statements = append(statements, tx.Statement.SQL.String())
		}
	}))
	return &statements
}

func TestJournalRepository_GetOrCreateLosingRaceKeepsTransaction(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	acc := seedAccount(t, NewAccountRepository(db), "a@x.com")
	winner := &db_models.JournalEntry{AccountID: acc.ID, DayNumber: 4, Wins: "saved by the other tab"}
	statements := rivalInsert(t, db, "journal_entries", winner)

	var got *db_models.JournalEntry
	err := db.Transaction(func(tx *gorm.DB) error {
		repo := NewJournalRepository(tx)
		entry, err := repo.GetOrCreate(ctx, acc.ID, 4)
		if err != nil {
			return err
		}
		got = entry
		// the transaction must still accept statements after the conflict
		_, err = repo.CountCompleted(ctx, acc.ID)
		return err
	})
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, winner.ID, got.ID)
	assert.Equal(t, "saved by the other tab", got.Wins)

	require.Len(t, *statements, 2)
	assert.Contains(t, (*statements)[1], "DO NOTHING")
}

func TestAnnotationRepository_GetOrCreateLosingRace(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	acc := seedAccount(t, NewAccountRepository(db), "a@x.com")
	winner := &db_models.PDFAnnotation{AccountID: acc.ID, PageNumber: 12, Notes: "first"}
	statements := rivalInsert(t, db, "pdf_annotations", winner)

	var got *db_models.PDFAnnotation
	err := db.Transaction(func(tx *gorm.DB) error {
		a, err := NewAnnotationRepository(tx).GetOrCreate(ctx, acc.ID, 12)
		got = a
		return err
	})
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, winner.ID, got.ID)
	assert.Contains(t, (*statements)[1], "DO NOTHING")
}

func TestJournalRepository_BackfillAndCount(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	acc := seedAccount(t, NewAccountRepository(db), "a@x.com")
	other := seedAccount(t, NewAccountRepository(db), "b@x.com")
	repo := NewJournalRepository(db)

	require.NoError(t, repo.CreateEmpty(ctx, acc.ID, []int{3, 1, 2}))
	require.NoError(t, repo.CreateEmpty(ctx, other.ID, []int{1}))

	days, err := repo.ExistingDays(ctx, acc.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []int{1, 2, 3}, days)

	entries, err := repo.ListByAccount(ctx, acc.ID)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, 1, entries[0].DayNumber)
	assert.Equal(t, 3, entries[2].DayNumber)

	entries[1].Completed = true
	require.NoError(t, repo.Save(ctx, &entries[1]))

	n, err := repo.CountCompleted(ctx, acc.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = repo.CountCompleted(ctx, other.ID)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestJournalRepository_FindMissing(t *testing.T) {
	db := testutil.NewDB(t)
	entry, err := NewJournalRepository(db).Find(context.Background(), uuid.New(), 1)
	require.NoError(t, err)
	assert.Nil(t, entry)
}

func TestAnnotationRepository_GetOrCreate(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	acc := seedAccount(t, NewAccountRepository(db), "a@x.com")
	repo := NewAnnotationRepository(db)

	a, err := repo.GetOrCreate(ctx, acc.ID, 79)
	require.NoError(t, err)
	a.Notes = "page notes"
	require.NoError(t, repo.Save(ctx, a))

	again, err := repo.GetOrCreate(ctx, acc.ID, 79)
	require.NoError(t, err)
	assert.Equal(t, a.ID, again.ID)
	assert.Equal(t, "page notes", again.Notes)

	all, err := repo.ListByAccount(ctx, acc.ID)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}
