package db_models

type ContactMessage struct {
	BaseModel
	Name          string `gorm:"size:100;not null"`
	Email         string `gorm:"size:120;not null"`
	Subject       string `gorm:"size:200;not null"`
	Message       string `gorm:"type:text;not null"`
	SubmittedDate int64  `gorm:"not null;index"`
	IsRead        bool   `gorm:"not null;default:false"`
}
