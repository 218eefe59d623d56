package db_models

type EmailSubscriber struct {
	BaseModel
	Email          string  `gorm:"size:120;uniqueIndex;not null"`
	Name           *string `gorm:"size:100"`
	SubscribedDate int64   `gorm:"not null"`
	IsActive       bool    `gorm:"not null;default:true"`
	// where the signup came from, e.g. "website"
	Source string `gorm:"size:50;default:'website'"`
}
