package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"tradejournal/internal/models"
	"tradejournal/internal/orderhistory"
	"tradejournal/internal/reconstruct"
	"tradejournal/internal/repository"
)

type TradeService struct {
	Repo   repository.Repository
	Logger *zap.Logger
}

// TradeUpdate carries the user-editable fields of a trade. Nil fields are
// left unchanged; the Clear flags remove a stop or target.
type TradeUpdate struct {
	Notes            *string
	AvgEntryPrice    *decimal.Decimal
	AvgExitPrice     *decimal.Decimal
	TotalEntryQty    *decimal.Decimal
	TotalExitQty     *decimal.Decimal
	StopLoss         *decimal.Decimal
	PriceTarget      *decimal.Decimal
	ClearStopLoss    bool
	ClearPriceTarget bool
}

func (u TradeUpdate) repriced() bool {
	return u.AvgEntryPrice != nil || u.AvgExitPrice != nil || u.TotalEntryQty != nil || u.TotalExitQty != nil
}

type TradeStats struct {
	Trades       int64            `json:"trades"`
	Wins         int64            `json:"wins"`
	Losses       int64            `json:"losses"`
	WinRate      decimal.Decimal  `json:"win_rate"`
	TotalPnL     decimal.Decimal  `json:"total_pnl"`
	AvgWin       decimal.Decimal  `json:"avg_win"`
	AvgLoss      decimal.Decimal  `json:"avg_loss"`
	ProfitFactor *decimal.Decimal `json:"profit_factor"`
	RTrades      int64            `json:"r_trades"`
	AvgR         *decimal.Decimal `json:"avg_r"`
}

func (s *TradeService) Get(ctx context.Context, userID string, id uint64) (*models.Trade, error) {
	if s == nil || s.Repo == nil {
		return nil, ErrTradeNotFound
	}
	item, err := s.Repo.GetTradeByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrTradeNotFound
	}
	return item, nil
}

func (s *TradeService) List(ctx context.Context, params repository.ListTradesParams) ([]models.Trade, int64, error) {
	if s == nil || s.Repo == nil {
		return nil, 0, nil
	}
	items, err := s.Repo.ListTrades(ctx, params)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.Repo.CountTrades(ctx, params)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// Update applies user corrections. Edits to prices or quantities recompute
// notionals, pnl and outcome with the same formula the import uses.
func (s *TradeService) Update(ctx context.Context, userID string, id uint64, upd TradeUpdate) (*models.Trade, error) {
	item, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	for name, v := range map[string]*decimal.Decimal{
		"avg_entry_price": upd.AvgEntryPrice,
		"avg_exit_price":  upd.AvgExitPrice,
		"total_entry_qty": upd.TotalEntryQty,
		"total_exit_qty":  upd.TotalExitQty,
		"stop_loss":       upd.StopLoss,
		"price_target":    upd.PriceTarget,
	} {
		if v != nil && !v.IsPositive() {
			return nil, fmt.Errorf("%w: %s must be greater than zero", ErrInvalidArgument, name)
		}
	}

	if upd.Notes != nil {
		notes := strings.TrimSpace(*upd.Notes)
		if notes == "" {
			item.Notes = nil
		} else {
			item.Notes = &notes
		}
	}
	if upd.AvgEntryPrice != nil {
		item.AvgEntryPrice = *upd.AvgEntryPrice
	}
	if upd.AvgExitPrice != nil {
		item.AvgExitPrice = *upd.AvgExitPrice
	}
	if upd.TotalEntryQty != nil {
		item.TotalEntryQty = *upd.TotalEntryQty
	}
	if upd.TotalExitQty != nil {
		item.TotalExitQty = *upd.TotalExitQty
	}
	switch {
	case upd.ClearStopLoss:
		item.StopLoss = nil
	case upd.StopLoss != nil:
		item.StopLoss = upd.StopLoss
	}
	switch {
	case upd.ClearPriceTarget:
		item.PriceTarget = nil
	case upd.PriceTarget != nil:
		item.PriceTarget = upd.PriceTarget
	}

	// Stored averages are rounded, so the settlement from import is kept
	// unless a price or quantity was edited.
	if upd.repriced() {
		settled := reconstruct.Settle(orderhistory.Side(item.Side),
			item.TotalEntryQty, item.AvgEntryPrice, item.TotalExitQty, item.AvgExitPrice)
		item.TotalBuy = settled.TotalBuy
		item.TotalSell = settled.TotalSell
		item.PnL = settled.PnL
		item.Outcome = string(settled.Outcome)
	}

	if err := s.Repo.UpdateTrade(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// Delete removes a trade together with its journal entry.
func (s *TradeService) Delete(ctx context.Context, userID string, id uint64) error {
	if s == nil || s.Repo == nil {
		return ErrTradeNotFound
	}
	var deleted int64
	err := s.Repo.InTx(ctx, func(tx *gorm.DB) error {
		if _, err := s.Repo.DeleteTradeJournalTx(ctx, tx, userID, id); err != nil {
			return err
		}
		n, err := s.Repo.DeleteTradeTx(ctx, tx, userID, id)
		if err != nil {
			return err
		}
		deleted = n
		if n == 0 {
			return ErrTradeNotFound
		}
		return nil
	})
	if err != nil {
		return err
	}
	if s.Logger != nil {
		s.Logger.Info("trade deleted", zap.String("user_id", userID), zap.Uint64("trade_id", id), zap.Int64("rows", deleted))
	}
	return nil
}

func (s *TradeService) Stats(ctx context.Context, params repository.ListTradesParams) (TradeStats, error) {
	if s == nil || s.Repo == nil {
		return TradeStats{}, nil
	}
	row, err := s.Repo.TradeStats(ctx, params)
	if err != nil {
		return TradeStats{}, err
	}
	return summarizeStats(row), nil
}

func summarizeStats(row repository.TradeStatsRow) TradeStats {
	out := TradeStats{
		Trades:   row.Trades,
		Wins:     row.Wins,
		Losses:   row.Losses,
		TotalPnL: row.TotalPnL,
		WinRate:  decimal.Zero,
		AvgWin:   decimal.Zero,
		AvgLoss:  decimal.Zero,
		RTrades:  row.RTrades,
	}
	if row.Trades > 0 {
		out.WinRate = decimal.NewFromInt(row.Wins).Div(decimal.NewFromInt(row.Trades))
	}
	if row.Wins > 0 {
		out.AvgWin = row.GrossProfit.Div(decimal.NewFromInt(row.Wins))
	}
	if row.Losses > 0 {
		out.AvgLoss = row.GrossLoss.Div(decimal.NewFromInt(row.Losses))
	}
	if row.GrossLoss.IsPositive() {
		pf := row.GrossProfit.Div(row.GrossLoss)
		out.ProfitFactor = &pf
	}
	if row.AvgR.Valid {
		r := row.AvgR.Decimal
		out.AvgR = &r
	}
	return out
}
