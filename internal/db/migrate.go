package db

import (
	"tradejournal/internal/models"
)

func AutoMigrate(db *DB) error {
	if db == nil || db.Gorm == nil || db.SQL == nil {
		return nil
	}

	if err := db.Gorm.AutoMigrate(
		&models.ImportBatch{},
		&models.Trade{},
		&models.TradeJournal{},
		&models.SystemSetting{},
	); err != nil {
		return err
	}
	return nil
}
