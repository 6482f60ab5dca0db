package service

import (
	"context"
	"strings"

	"tradejournal/internal/models"
	"tradejournal/internal/reconstruct"
	"tradejournal/internal/repository"
)

// TradeSink receives reconstructed trades one at a time.
type TradeSink interface {
	PersistTrade(ctx context.Context, trade reconstruct.Trade, userID, tradeAccount string) (uint64, error)
}

// RepositorySink persists trades through the repository, tagging them with
// the import batch that produced them.
type RepositorySink struct {
	Repo    repository.Repository
	BatchID string
}

func (s *RepositorySink) PersistTrade(ctx context.Context, trade reconstruct.Trade, userID, tradeAccount string) (uint64, error) {
	if s == nil || s.Repo == nil {
		return 0, ErrInvalidArgument
	}
	item := TradeModel(trade, userID, tradeAccount)
	if s.BatchID != "" {
		batch := s.BatchID
		item.ImportBatchID = &batch
	}
	inserted, err := s.Repo.InsertTrade(ctx, item)
	if err != nil {
		return 0, err
	}
	if !inserted {
		return 0, ErrDuplicateTrade
	}
	return item.ID, nil
}

// TradeModel maps a reconstructed trade onto its stored form. Times are
// stored as UTC instants; the display zone is applied when rendering.
func TradeModel(t reconstruct.Trade, userID, tradeAccount string) *models.Trade {
	return &models.Trade{
		UserID:           strings.TrimSpace(userID),
		TradeAccount:     strings.TrimSpace(tradeAccount),
		Symbol:           t.Symbol,
		Side:             string(t.Side),
		TimeOfFirstEntry: t.TimeOfFirstEntry.UTC(),
		AvgEntryPrice:    t.AvgEntryPrice,
		TotalEntryQty:    t.TotalEntryQty,
		TimeOfLastExit:   t.TimeOfLastExit.UTC(),
		AvgExitPrice:     t.AvgExitPrice,
		TotalExitQty:     t.TotalExitQty,
		TotalBuy:         t.TotalBuy,
		TotalSell:        t.TotalSell,
		PnL:              t.PnL,
		Outcome:          string(t.Outcome),
		NumEntries:       t.NumEntries,
		NumExits:         t.NumExits,
		UnpricedOrders:   t.UnpricedOrders,
		StopLoss:         t.StopLoss,
		PriceTarget:      t.PriceTarget,
	}
}
