package handler

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"tradejournal/internal/models"
)

// TradeDTO is a stored trade rendered for clients. Times are shifted into the
// display zone.
type TradeDTO struct {
	ID           uint64 `json:"id"`
	TradeAccount string `json:"trade_account"`
	Symbol       string `json:"symbol"`
	Side         string `json:"side"`

	TimeOfFirstEntry time.Time       `json:"time_of_first_entry"`
	AvgEntryPrice    decimal.Decimal `json:"avg_entry_price"`
	TotalEntryQty    decimal.Decimal `json:"total_entry_qty"`
	TimeOfLastExit   time.Time       `json:"time_of_last_exit"`
	AvgExitPrice     decimal.Decimal `json:"avg_exit_price"`
	TotalExitQty     decimal.Decimal `json:"total_exit_qty"`

	TotalBuy  decimal.Decimal `json:"total_buy"`
	TotalSell decimal.Decimal `json:"total_sell"`
	PnL       decimal.Decimal `json:"pnl"`
	Outcome   string          `json:"outcome"`

	NumEntries     int `json:"num_entries"`
	NumExits       int `json:"num_exits"`
	UnpricedOrders int `json:"unpriced_orders"`

	StopLoss    *decimal.Decimal `json:"stop_loss"`
	PriceTarget *decimal.Decimal `json:"price_target"`
	Notes       *string          `json:"notes"`

	ImportBatchID *string   `json:"import_batch_id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func tradeDTO(t models.Trade, zone *time.Location) TradeDTO {
	return TradeDTO{
		ID:               t.ID,
		TradeAccount:     t.TradeAccount,
		Symbol:           t.Symbol,
		Side:             t.Side,
		TimeOfFirstEntry: t.TimeOfFirstEntry.In(zone),
		AvgEntryPrice:    t.AvgEntryPrice,
		TotalEntryQty:    t.TotalEntryQty,
		TimeOfLastExit:   t.TimeOfLastExit.In(zone),
		AvgExitPrice:     t.AvgExitPrice,
		TotalExitQty:     t.TotalExitQty,
		TotalBuy:         t.TotalBuy,
		TotalSell:        t.TotalSell,
		PnL:              t.PnL,
		Outcome:          t.Outcome,
		NumEntries:       t.NumEntries,
		NumExits:         t.NumExits,
		UnpricedOrders:   t.UnpricedOrders,
		StopLoss:         t.StopLoss,
		PriceTarget:      t.PriceTarget,
		Notes:            t.Notes,
		ImportBatchID:    t.ImportBatchID,
		CreatedAt:        t.CreatedAt.In(zone),
		UpdatedAt:        t.UpdatedAt.In(zone),
	}
}

type JournalDTO struct {
	ID           uint64    `json:"id"`
	TradeID      uint64    `json:"trade_id"`
	TradeAccount string    `json:"trade_account"`
	Content      string    `json:"content"`
	Tags         []string  `json:"tags"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func journalDTO(j models.TradeJournal, zone *time.Location) JournalDTO {
	return JournalDTO{
		ID:           j.ID,
		TradeID:      j.TradeID,
		TradeAccount: j.TradeAccount,
		Content:      j.Content,
		Tags:         decodeTags(j.Tags),
		CreatedAt:    j.CreatedAt.In(zone),
		UpdatedAt:    j.UpdatedAt.In(zone),
	}
}

// decodeTags reads the stored tag list. A column that is not a JSON string
// array renders as no tags.
func decodeTags(raw []byte) []string {
	if len(raw) == 0 {
		return []string{}
	}
	var tags []string
	if err := json.Unmarshal(raw, &tags); err != nil || tags == nil {
		return []string{}
	}
	return tags
}

type ImportBatchDTO struct {
	ID            string          `json:"id"`
	TradeAccount  string          `json:"trade_account"`
	Source        string          `json:"source"`
	Status        string          `json:"status"`
	HistoryRows   int             `json:"history_rows"`
	PositionRows  int             `json:"position_rows"`
	SkippedRows   int             `json:"skipped_rows"`
	TradesFound   int             `json:"trades_found"`
	TradesSaved   int             `json:"trades_saved"`
	Duplicates    int             `json:"duplicates"`
	OpenPositions int             `json:"open_positions"`
	Failures      int             `json:"failures"`
	Diagnostics   json.RawMessage `json:"diagnostics,omitempty"`
	StartedAt     time.Time       `json:"started_at"`
	FinishedAt    time.Time       `json:"finished_at"`
}

func importBatchDTO(b models.ImportBatch, zone *time.Location) ImportBatchDTO {
	out := ImportBatchDTO{
		ID:            b.ID,
		TradeAccount:  b.TradeAccount,
		Source:        b.Source,
		Status:        b.Status,
		HistoryRows:   b.HistoryRows,
		PositionRows:  b.PositionRows,
		SkippedRows:   b.SkippedRows,
		TradesFound:   b.TradesFound,
		TradesSaved:   b.TradesSaved,
		Duplicates:    b.Duplicates,
		OpenPositions: b.OpenPositions,
		Failures:      b.Failures,
		StartedAt:     b.StartedAt.In(zone),
		FinishedAt:    b.FinishedAt.In(zone),
	}
	if len(b.Diagnostics) > 0 {
		out.Diagnostics = json.RawMessage(b.Diagnostics)
	}
	return out
}
