package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"recovery/internal/models/db_models"
)

type JournalRepository interface {
	WithTx(tx *gorm.DB) JournalRepository
	GetOrCreate(ctx context.Context, accountID uuid.UUID, day int) (*db_models.JournalEntry, error)
	Find(ctx context.Context, accountID uuid.UUID, day int) (*db_models.JournalEntry, error)
	ListByAccount(ctx context.Context, accountID uuid.UUID) ([]db_models.JournalEntry, error)
	ExistingDays(ctx context.Context, accountID uuid.UUID) ([]int, error)
	CreateEmpty(ctx context.Context, accountID uuid.UUID, days []int) error
	Save(ctx context.Context, entry *db_models.JournalEntry) error
	CountCompleted(ctx context.Context, accountID uuid.UUID) (int64, error)
}

type journalRepository struct {
	db *gorm.DB
}

func NewJournalRepository(db *gorm.DB) JournalRepository {
	return &journalRepository{db: db}
}

func (r *journalRepository) WithTx(tx *gorm.DB) JournalRepository {
	return &journalRepository{db: tx}
}

// GetOrCreate relies on the (account_id, day_number) unique index. The insert
// skips conflicts instead of failing, so a caller's transaction stays usable
// when a concurrent request created the row first; the winner is read back.
func (r *journalRepository) GetOrCreate(ctx context.Context, accountID uuid.UUID, day int) (*db_models.JournalEntry, error) {
	entry, err := r.Find(ctx, accountID, day)
	if err != nil || entry != nil {
		return entry, err
	}

	entry = &db_models.JournalEntry{AccountID: accountID, DayNumber: day}
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(entry)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return r.Find(ctx, accountID, day)
	}
	return entry, nil
}

func (r *journalRepository) Find(ctx context.Context, accountID uuid.UUID, day int) (*db_models.JournalEntry, error) {
	var entry db_models.JournalEntry
	err := r.db.WithContext(ctx).
		Where("account_id = ? AND day_number = ?", accountID, day).
		First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &entry, nil
}

func (r *journalRepository) ListByAccount(ctx context.Context, accountID uuid.UUID) ([]db_models.JournalEntry, error) {
	var entries []db_models.JournalEntry
	err := r.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("day_number ASC").
		Find(&entries).Error
	return entries, err
}

func (r *journalRepository) ExistingDays(ctx context.Context, accountID uuid.UUID) ([]int, error) {
	var days []int
	err := r.db.WithContext(ctx).
		Model(&db_models.JournalEntry{}).
		Where("account_id = ?", accountID).
		Pluck("day_number", &days).Error
	return days, err
}

func (r *journalRepository) CreateEmpty(ctx context.Context, accountID uuid.UUID, days []int) error {
	if len(days) == 0 {
		return nil
	}
	entries := make([]db_models.JournalEntry, 0, len(days))
	for _, d := range days {
		entries = append(entries, db_models.JournalEntry{AccountID: accountID, DayNumber: d})
	}
	// days created concurrently by another backfill are skipped
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&entries).Error
}

func (r *journalRepository) Save(ctx context.Context, entry *db_models.JournalEntry) error {
	return r.db.WithContext(ctx).Save(entry).Error
}

func (r *journalRepository) CountCompleted(ctx context.Context, accountID uuid.UUID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&db_models.JournalEntry{}).
		Where("account_id = ? AND completed = ?", accountID, true).
		Count(&n).Error
	return n, err
}
