package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"image_media/internal/models"
	"image_media/internal/storage"
)

// ErrStaleRecord 表示條件更新時 url_original 已被其他請求改變
var ErrStaleRecord = errors.New("image record changed concurrently")

type ImageRepository interface {
	Create(ctx context.Context, image *models.Image) error
	FindByID(ctx context.Context, id string) (*models.Image, error)
	UpdateFields(ctx context.Context, id string, fields map[string]interface{}) error
	// UpdateIfOriginal 只在 url_original 仍等於 expected 時更新欄位
	UpdateIfOriginal(ctx context.Context, id, expected string, fields map[string]interface{}) error
}

type imageRepository struct {
	db *storage.Database
}

func NewImageRepository(db *storage.Database) ImageRepository {
	return &imageRepository{db: db}
}

func (r *imageRepository) Create(ctx context.Context, image *models.Image) error {
	return r.db.WithContext(ctx).Create(image).Error
}

// FindByID 找不到時回傳 gorm.ErrRecordNotFound
func (r *imageRepository) FindByID(ctx context.Context, id string) (*models.Image, error) {
	var image models.Image
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&image).Error
	if err != nil {
		return nil, err
	}
	return &image, nil
}

func (r *imageRepository) UpdateFields(ctx context.Context, id string, fields map[string]interface{}) error {
	result := r.db.WithContext(ctx).Model(&models.Image{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *imageRepository) UpdateIfOriginal(ctx context.Context, id, expected string, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Image{}).
			Where("id = ? AND url_original = ?", id, expected).
			Updates(fields)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected > 0 {
			return nil
		}

		// 區分資料列已被刪除與 url_original 已被改寫
		var count int64
		if err := tx.Model(&models.Image{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return gorm.ErrRecordNotFound
		}
		return ErrStaleRecord
	})
}
