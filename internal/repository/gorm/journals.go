package gormrepository

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"tradejournal/internal/models"
	"tradejournal/internal/repository"
)

var journalOrderColumns = columns("created_at", "updated_at", "trade_id")

func (s *Store) UpsertTradeJournal(ctx context.Context, item *models.TradeJournal) error {
	if s == nil || s.db == nil || item == nil || item.TradeID == 0 {
		return nil
	}
	item.Content = strings.TrimSpace(item.Content)
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "trade_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"content",
			"tags",
			"updated_at",
		}),
	}).Create(item).Error
}

func (s *Store) GetTradeJournalByTradeID(ctx context.Context, userID string, tradeID uint64) (*models.TradeJournal, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	if tradeID == 0 {
		return nil, nil
	}
	var item models.TradeJournal
	err := s.db.WithContext(ctx).
		Model(&models.TradeJournal{}).
		Where("trade_id = ? AND user_id = ?", tradeID, userID).
		First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) journalQuery(ctx context.Context, params repository.ListTradeJournalParams) *gorm.DB {
	query := s.db.WithContext(ctx).Model(&models.TradeJournal{}).Where("user_id = ?", params.UserID)
	if v, ok := trimmed(params.TradeAccount); ok {
		query = query.Where("trade_account = ?", v)
	}
	if params.Since != nil && !params.Since.IsZero() {
		query = query.Where("created_at >= ?", params.Since.UTC())
	}
	if params.Until != nil && !params.Until.IsZero() {
		query = query.Where("created_at <= ?", params.Until.UTC())
	}
	for _, tag := range cleanStrings(params.Tags) {
		like := "%" + tag + "%"
		query = query.Where("CAST(tags AS TEXT) LIKE ?", like)
	}
	return query
}

func (s *Store) ListTradeJournals(ctx context.Context, params repository.ListTradeJournalParams) ([]models.TradeJournal, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	query := applyOrder(s.journalQuery(ctx, params), params.OrderBy, params.Asc, "created_at", journalOrderColumns)
	limit := normalizeLimit(params.Limit, 200)
	offset := normalizeOffset(params.Offset)
	var items []models.TradeJournal
	if err := query.Limit(limit).Offset(offset).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) CountTradeJournals(ctx context.Context, params repository.ListTradeJournalParams) (int64, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	var total int64
	if err := s.journalQuery(ctx, params).Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

func (s *Store) DeleteTradeJournalTx(ctx context.Context, tx *gorm.DB, userID string, tradeID uint64) (int64, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	res := s.conn(ctx, tx).
		Where("trade_id = ? AND user_id = ?", tradeID, userID).
		Delete(&models.TradeJournal{})
	return res.RowsAffected, res.Error
}
