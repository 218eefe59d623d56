package db_models

type SiteSetting struct {
	BaseModel
	SettingName  string `gorm:"size:100;uniqueIndex;not null"`
	SettingValue string `gorm:"type:text"`
}
