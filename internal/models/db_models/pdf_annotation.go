package db_models

import "github.com/google/uuid"

type PDFAnnotation struct {
	BaseModel
	AccountID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_annotation_account_page"`
	PageNumber  int       `gorm:"not null;uniqueIndex:idx_annotation_account_page"`
	Notes       string    `gorm:"type:text"`
	DrawingData string    `gorm:"type:text"`
}
