package db_models

import "github.com/google/uuid"

// JournalEntry is one of the thirty daily pages of a user's journal.
type JournalEntry struct {
	BaseModel
	AccountID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_journal_account_day"`
	DayNumber int       `gorm:"not null;uniqueIndex:idx_journal_account_day"`

	DailyReflection    string `gorm:"type:text"`
	GratitudeList      string `gorm:"type:text"`
	Challenges         string `gorm:"type:text"`
	Wins               string `gorm:"type:text"`
	Goals              string `gorm:"type:text"`
	TriggerNotes       string `gorm:"type:text"`
	CopingStrategies   string `gorm:"type:text"`
	SupportConnections string `gorm:"type:text"`

	MoodRating   *int
	EnergyRating *int
	SleepRating  *int

	DrawingData string `gorm:"type:text"`
	Completed   bool   `gorm:"not null;default:false;index"`
}
