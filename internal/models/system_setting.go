package models

import (
	"time"

	"gorm.io/datatypes"
)

// SystemSetting stores runtime switches such as feature.inbox_import.
type SystemSetting struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"`

	Key string `gorm:"type:varchar(120);not null;uniqueIndex"`

	// JSON value; switches hold true or false.
	Value datatypes.JSON `gorm:"type:jsonb;not null"`

	Description string `gorm:"type:text"`
	// UpdatedBy is the caller that last changed the value.
	UpdatedBy string `gorm:"type:varchar(64)"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime"`
	UpdatedAt time.Time `gorm:"type:timestamptz;autoUpdateTime;index"`
}

func (SystemSetting) TableName() string {
	return "system_settings"
}
