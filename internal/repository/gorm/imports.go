package gormrepository

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"tradejournal/internal/models"
	"tradejournal/internal/repository"
)

var importOrderColumns = columns("created_at", "started_at", "trades_saved")

func (s *Store) InsertImportBatch(ctx context.Context, item *models.ImportBatch) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Create(item).Error
}

func (s *Store) GetImportBatch(ctx context.Context, userID string, id string) (*models.ImportBatch, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, nil
	}
	var item models.ImportBatch
	err := s.db.WithContext(ctx).
		Model(&models.ImportBatch{}).
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

func (s *Store) importQuery(ctx context.Context, params repository.ListImportBatchesParams) *gorm.DB {
	query := s.db.WithContext(ctx).Model(&models.ImportBatch{}).Where("user_id = ?", params.UserID)
	if v, ok := trimmed(params.TradeAccount); ok {
		query = query.Where("trade_account = ?", v)
	}
	if v, ok := trimmed(params.Status); ok {
		query = query.Where("status = ?", v)
	}
	return query
}

func (s *Store) ListImportBatches(ctx context.Context, params repository.ListImportBatchesParams) ([]models.ImportBatch, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	query := s.importQuery(ctx, params)
	column := strings.ToLower(strings.TrimSpace(params.OrderBy))
	if _, ok := importOrderColumns[column]; !ok {
		column = "created_at"
	}
	direction := "desc"
	if params.Asc != nil && *params.Asc {
		direction = "asc"
	}
	limit := normalizeLimit(params.Limit, 50)
	offset := normalizeOffset(params.Offset)
	var items []models.ImportBatch
	if err := query.Order(column + " " + direction).Limit(limit).Offset(offset).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) CountImportBatches(ctx context.Context, params repository.ListImportBatchesParams) (int64, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	var total int64
	if err := s.importQuery(ctx, params).Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}
