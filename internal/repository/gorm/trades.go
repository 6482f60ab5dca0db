package gormrepository

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"tradejournal/internal/models"
	"tradejournal/internal/repository"
)

var tradeOrderColumns = columns(
	"time_of_first_entry",
	"time_of_last_exit",
	"symbol",
	"pnl",
	"created_at",
)

func (s *Store) InsertTrade(ctx context.Context, item *models.Trade) (bool, error) {
	if s == nil || s.db == nil || item == nil {
		return false, nil
	}
	res := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(item)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (s *Store) GetTradeByID(ctx context.Context, userID string, id uint64) (*models.Trade, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	if id == 0 || strings.TrimSpace(userID) == "" {
		return nil, nil
	}
	var item models.Trade
	err := s.db.WithContext(ctx).
		Model(&models.Trade{}).
		Where("id = ? AND user_id = ?", id, userID).
		First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) tradeQuery(ctx context.Context, params repository.ListTradesParams) *gorm.DB {
	query := s.db.WithContext(ctx).Model(&models.Trade{}).Where("user_id = ?", params.UserID)
	if v, ok := trimmed(params.TradeAccount); ok {
		query = query.Where("trade_account = ?", v)
	}
	if v, ok := trimmed(params.Symbol); ok {
		query = query.Where("symbol = ?", v)
	}
	if v, ok := trimmed(params.Side); ok {
		query = query.Where("side = ?", v)
	}
	if v, ok := trimmed(params.Outcome); ok {
		query = query.Where("outcome = ?", v)
	}
	if params.Since != nil && !params.Since.IsZero() {
		query = query.Where("time_of_first_entry >= ?", params.Since.UTC())
	}
	if params.Until != nil && !params.Until.IsZero() {
		query = query.Where("time_of_last_exit <= ?", params.Until.UTC())
	}
	return query
}

func (s *Store) ListTrades(ctx context.Context, params repository.ListTradesParams) ([]models.Trade, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	query := applyOrder(s.tradeQuery(ctx, params), params.OrderBy, params.Asc, "time_of_first_entry", tradeOrderColumns)
	limit := normalizeLimit(params.Limit, 200)
	offset := normalizeOffset(params.Offset)
	var items []models.Trade
	if err := query.Limit(limit).Offset(offset).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) CountTrades(ctx context.Context, params repository.ListTradesParams) (int64, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	var total int64
	if err := s.tradeQuery(ctx, params).Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

func (s *Store) UpdateTrade(ctx context.Context, item *models.Trade) error {
	if s == nil || s.db == nil || item == nil || item.ID == 0 {
		return nil
	}
	updates := map[string]any{
		"avg_entry_price": item.AvgEntryPrice,
		"total_entry_qty": item.TotalEntryQty,
		"avg_exit_price":  item.AvgExitPrice,
		"total_exit_qty":  item.TotalExitQty,
		"total_buy":       item.TotalBuy,
		"total_sell":      item.TotalSell,
		"pnl":             item.PnL,
		"outcome":         item.Outcome,
		"stop_loss":       item.StopLoss,
		"price_target":    item.PriceTarget,
		"notes":           item.Notes,
		"updated_at":      time.Now().UTC(),
	}
	return s.db.WithContext(ctx).
		Model(&models.Trade{}).
		Where("id = ? AND user_id = ?", item.ID, item.UserID).
		Updates(updates).Error
}

func (s *Store) DeleteTradeTx(ctx context.Context, tx *gorm.DB, userID string, id uint64) (int64, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	res := s.conn(ctx, tx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.Trade{})
	return res.RowsAffected, res.Error
}

func (s *Store) TradeStats(ctx context.Context, params repository.ListTradesParams) (repository.TradeStatsRow, error) {
	var row repository.TradeStatsRow
	if s == nil || s.db == nil {
		return row, nil
	}
	err := s.tradeQuery(ctx, params).Select(`
		COUNT(*) AS trades,
		COUNT(*) FILTER (WHERE outcome = 'Profit') AS wins,
		COUNT(*) FILTER (WHERE outcome <> 'Profit') AS losses,
		COALESCE(SUM(pnl), 0) AS total_pnl,
		COALESCE(SUM(pnl) FILTER (WHERE pnl > 0), 0) AS gross_profit,
		COALESCE(-SUM(pnl) FILTER (WHERE pnl < 0), 0) AS gross_loss,
		COUNT(*) FILTER (WHERE stop_loss IS NOT NULL AND stop_loss <> avg_entry_price) AS r_trades,
		AVG(pnl / (ABS(avg_entry_price - stop_loss) * total_entry_qty))
			FILTER (WHERE stop_loss IS NOT NULL AND stop_loss <> avg_entry_price AND total_entry_qty > 0) AS avg_r
	`).Scan(&row).Error
	if err != nil {
		return repository.TradeStatsRow{}, err
	}
	return row, nil
}
