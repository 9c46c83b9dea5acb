package cmd

import (
	"fmt"

	"image_media/internal/models"
	"image_media/internal/storage"
	"image_media/pkg/config"
)

// openDatabase 開啟資料庫並確保 images 資料表存在
func openDatabase(cfg config.DBConfig) (*storage.Database, error) {
	db, err := storage.NewDatabase(cfg.Driver, cfg.DSN())
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(&models.Image{}); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to auto migrate database: %w", err)
	}
	return db, nil
}
