package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Trade is one reconstructed round trip owned by a user and trade account.
// The composite unique index is the natural key that makes re-importing the
// same export a no-op.
type Trade struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"`

	UserID       string `gorm:"type:varchar(64);not null;uniqueIndex:uq_trades_natural,priority:1;index"`
	TradeAccount string `gorm:"type:varchar(100);not null;uniqueIndex:uq_trades_natural,priority:2;index"`
	Symbol       string `gorm:"type:varchar(50);not null;uniqueIndex:uq_trades_natural,priority:3;index"`
	Side         string `gorm:"type:varchar(10);not null;uniqueIndex:uq_trades_natural,priority:4"`

	TimeOfFirstEntry time.Time       `gorm:"type:timestamptz;not null;uniqueIndex:uq_trades_natural,priority:5;index"`
	AvgEntryPrice    decimal.Decimal `gorm:"type:numeric(30,10);not null"`
	TotalEntryQty    decimal.Decimal `gorm:"type:numeric(30,10);not null"`
	TimeOfLastExit   time.Time       `gorm:"type:timestamptz;not null;uniqueIndex:uq_trades_natural,priority:6"`
	AvgExitPrice     decimal.Decimal `gorm:"type:numeric(30,10);not null"`
	TotalExitQty     decimal.Decimal `gorm:"type:numeric(30,10);not null"`

	TotalBuy  decimal.Decimal `gorm:"type:numeric(30,10);not null"`
	TotalSell decimal.Decimal `gorm:"type:numeric(30,10);not null"`
	PnL       decimal.Decimal `gorm:"column:pnl;type:numeric(30,10);not null"`
	Outcome   string          `gorm:"type:varchar(10);not null;index"`

	NumEntries     int `gorm:"not null;default:0"`
	NumExits       int `gorm:"not null;default:0"`
	UnpricedOrders int `gorm:"not null;default:0"`

	StopLoss    *decimal.Decimal `gorm:"type:numeric(30,10)"`
	PriceTarget *decimal.Decimal `gorm:"type:numeric(30,10)"`
	Notes       *string          `gorm:"type:text"`

	ImportBatchID *string `gorm:"type:varchar(36);index"`

	Journal *TradeJournal `gorm:"foreignKey:TradeID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime;index"`
	UpdatedAt time.Time `gorm:"type:timestamptz;autoUpdateTime"`
}

func (Trade) TableName() string {
	return "trades"
}
