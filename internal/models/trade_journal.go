package models

import (
	"time"

	"gorm.io/datatypes"
)

// TradeJournal is the free-form review note attached to a trade, at most one
// per trade.
type TradeJournal struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"`

	TradeID      uint64 `gorm:"not null;uniqueIndex"`
	UserID       string `gorm:"type:varchar(64);not null;index"`
	TradeAccount string `gorm:"type:varchar(100);not null;index"`

	Content string         `gorm:"type:text;not null"`
	Tags    datatypes.JSON `gorm:"type:jsonb"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime;index"`
	UpdatedAt time.Time `gorm:"type:timestamptz;autoUpdateTime"`
}

func (TradeJournal) TableName() string {
	return "trade_journals"
}
