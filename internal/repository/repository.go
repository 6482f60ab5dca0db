package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"tradejournal/internal/models"
)

// Repository is the storage surface used by the journal services.
type Repository interface {
	InTx(ctx context.Context, fn func(tx *gorm.DB) error) error
	Ping(ctx context.Context) error

	// Trades. InsertTrade reports false when the natural key already exists.
	InsertTrade(ctx context.Context, item *models.Trade) (bool, error)
	GetTradeByID(ctx context.Context, userID string, id uint64) (*models.Trade, error)
	ListTrades(ctx context.Context, params ListTradesParams) ([]models.Trade, error)
	CountTrades(ctx context.Context, params ListTradesParams) (int64, error)
	UpdateTrade(ctx context.Context, item *models.Trade) error
	DeleteTradeTx(ctx context.Context, tx *gorm.DB, userID string, id uint64) (int64, error)
	TradeStats(ctx context.Context, params ListTradesParams) (TradeStatsRow, error)

	// Journals
	UpsertTradeJournal(ctx context.Context, item *models.TradeJournal) error
	GetTradeJournalByTradeID(ctx context.Context, userID string, tradeID uint64) (*models.TradeJournal, error)
	ListTradeJournals(ctx context.Context, params ListTradeJournalParams) ([]models.TradeJournal, error)
	CountTradeJournals(ctx context.Context, params ListTradeJournalParams) (int64, error)
	DeleteTradeJournalTx(ctx context.Context, tx *gorm.DB, userID string, tradeID uint64) (int64, error)

	// Import batches
	InsertImportBatch(ctx context.Context, item *models.ImportBatch) error
	GetImportBatch(ctx context.Context, userID string, id string) (*models.ImportBatch, error)
	ListImportBatches(ctx context.Context, params ListImportBatchesParams) ([]models.ImportBatch, error)
	CountImportBatches(ctx context.Context, params ListImportBatchesParams) (int64, error)

	// System settings
	UpsertSystemSetting(ctx context.Context, item *models.SystemSetting) error
	GetSystemSettingByKey(ctx context.Context, key string) (*models.SystemSetting, error)
	ListSystemSettings(ctx context.Context, params ListSystemSettingsParams) ([]models.SystemSetting, error)
	CountSystemSettings(ctx context.Context, params ListSystemSettingsParams) (int64, error)
}

type ListTradesParams struct {
	Limit        int
	Offset       int
	UserID       string
	TradeAccount *string
	Symbol       *string
	Side         *string
	Outcome      *string
	Since        *time.Time
	Until        *time.Time
	OrderBy      string
	Asc          *bool
}

// TradeStatsRow is the aggregate over the trades matching a filter.
// GrossLoss is reported as a positive amount.
type TradeStatsRow struct {
	Trades      int64           `gorm:"column:trades"`
	Wins        int64           `gorm:"column:wins"`
	Losses      int64           `gorm:"column:losses"`
	TotalPnL    decimal.Decimal `gorm:"column:total_pnl"`
	GrossProfit decimal.Decimal `gorm:"column:gross_profit"`
	GrossLoss   decimal.Decimal `gorm:"column:gross_loss"`
	// RTrades counts trades with a usable stop loss; AvgR is their mean R
	// multiple.
	RTrades int64               `gorm:"column:r_trades"`
	AvgR    decimal.NullDecimal `gorm:"column:avg_r"`
}

type ListTradeJournalParams struct {
	Limit        int
	Offset       int
	UserID       string
	TradeAccount *string
	Since        *time.Time
	Until        *time.Time
	Tags         []string
	OrderBy      string
	Asc          *bool
}

type ListImportBatchesParams struct {
	Limit        int
	Offset       int
	UserID       string
	TradeAccount *string
	Status       *string
	OrderBy      string
	Asc          *bool
}

type ListSystemSettingsParams struct {
	Limit   int
	Offset  int
	Prefix  *string
	OrderBy string
	Asc     *bool
}
