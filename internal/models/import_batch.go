package models

import (
	"time"

	"gorm.io/datatypes"
)

// ImportBatch records one upload of a history/positions pair.
type ImportBatch struct {
	ID string `gorm:"primaryKey;type:varchar(36)"`

	UserID       string `gorm:"type:varchar(64);not null;index"`
	TradeAccount string `gorm:"type:varchar(100);not null;index"`
	Source       string `gorm:"type:varchar(20);not null"`
	Status       string `gorm:"type:varchar(20);not null;index"`

	HistoryRows   int `gorm:"not null;default:0"`
	PositionRows  int `gorm:"not null;default:0"`
	SkippedRows   int `gorm:"not null;default:0"`
	TradesFound   int `gorm:"not null;default:0"`
	TradesSaved   int `gorm:"not null;default:0"`
	Duplicates    int `gorm:"not null;default:0"`
	OpenPositions int `gorm:"not null;default:0"`
	Failures      int `gorm:"not null;default:0"`

	// Diagnostics holds row errors, reconciliation and sink failures.
	Diagnostics datatypes.JSON `gorm:"type:jsonb"`

	StartedAt  time.Time `gorm:"type:timestamptz;not null"`
	FinishedAt time.Time `gorm:"type:timestamptz;not null"`
	CreatedAt  time.Time `gorm:"type:timestamptz;autoCreateTime;index"`
}

func (ImportBatch) TableName() string {
	return "import_batches"
}
