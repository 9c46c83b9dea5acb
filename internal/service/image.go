package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"image_media/internal/cache"
	"image_media/internal/media"
	"image_media/internal/models"
	"image_media/internal/qr"
	"image_media/internal/repository"
)

// DefaultAngle 是未指定角度時的旋轉度數
const DefaultAngle = 45

var (
	ErrImageNotFound = errors.New("image not found")
	ErrRemoteService = media.ErrRemote
	ErrEncoding      = errors.New("qr encoding failure")
	ErrStaleRecord   = repository.ErrStaleRecord
)

// RotateResult 是旋轉操作的結果
type RotateResult struct {
	ImageID  string
	Angle    int
	URL      string
	PublicID string
}

// QRResult 是產生並上傳 QR code 的結果
type QRResult struct {
	ImageID  string
	URL      string
	PublicID string
}

type ImageService struct {
	imageRepo repository.ImageRepository
	media     media.Service
	renderer  *qr.Renderer
	cache     cache.QRCache
}

func NewImageService(imageRepo repository.ImageRepository, mediaService media.Service, qrCache cache.QRCache) *ImageService {
	if qrCache == nil {
		qrCache = cache.Disabled{}
	}
	return &ImageService{
		imageRepo: imageRepo,
		media:     mediaService,
		renderer:  qr.NewRenderer(),
		cache:     qrCache,
	}
}

// Rotate 請遠端服務建立旋轉後的圖片並寫入 url_transformed
func (s *ImageService) Rotate(ctx context.Context, imageID string, angle int) (*RotateResult, error) {
	image, err := s.findImage(ctx, imageID)
	if err != nil {
		return nil, err
	}

	publicID := media.TransformPublicID(sourcePublicID(image))
	asset, err := s.media.Transform(ctx, image.URLOriginal, publicID, angle)
	if err != nil {
		return nil, fmt.Errorf("transform image %s: %w", imageID, err)
	}

	err = s.persist(ctx, image, map[string]interface{}{
		"url_transformed":       asset.SecureURL,
		"transformed_public_id": asset.PublicID,
	})
	if err != nil {
		return nil, err
	}

	slog.Info("image transformed",
		"image_id", imageID,
		"angle", angle,
		"url_original", image.URLOriginal,
		"url_transformed", asset.SecureURL)

	return &RotateResult{ImageID: imageID, Angle: angle, URL: asset.SecureURL, PublicID: asset.PublicID}, nil
}

// GenerateQR 將 url_original 編碼為 QR code，上傳後寫入 url_original_qr
func (s *ImageService) GenerateQR(ctx context.Context, imageID string) (*QRResult, error) {
	image, err := s.findImage(ctx, imageID)
	if err != nil {
		return nil, err
	}

	png, err := s.render(image.URLOriginal)
	if err != nil {
		return nil, err
	}

	publicID := media.QRPublicID(sourcePublicID(image))
	asset, err := s.media.UploadPNG(ctx, png, publicID)
	if err != nil {
		return nil, fmt.Errorf("upload qr code for image %s: %w", imageID, err)
	}

	err = s.persist(ctx, image, map[string]interface{}{
		"url_original_qr": asset.SecureURL,
		"qr_public_id":    asset.PublicID,
	})
	if err != nil {
		return nil, err
	}

	slog.Info("qr code generated",
		"image_id", imageID,
		"url_original", image.URLOriginal,
		"url_original_qr", asset.SecureURL)

	return &QRResult{ImageID: imageID, URL: asset.SecureURL, PublicID: asset.PublicID}, nil
}

// RenderQR 回傳指定來源網址的 QR code PNG，不寫入資料庫
func (s *ImageService) RenderQR(ctx context.Context, imageID string, source models.ImageSource) ([]byte, error) {
	image, err := s.findImage(ctx, imageID)
	if err != nil {
		return nil, err
	}

	locator := image.Locator(source)
	if locator == "" {
		return nil, fmt.Errorf("%w: image %s has no %s url", ErrImageNotFound, imageID, source)
	}

	if png, ok, err := s.cache.Get(ctx, locator); err != nil {
		slog.Warn("qr cache read failed", "image_id", imageID, "error", err)
	} else if ok {
		return png, nil
	}

	png, err := s.render(locator)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, locator, png); err != nil {
		slog.Warn("qr cache write failed", "image_id", imageID, "error", err)
	}
	return png, nil
}

func (s *ImageService) findImage(ctx context.Context, imageID string) (*models.Image, error) {
	image, err := s.imageRepo.FindByID(ctx, imageID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrImageNotFound, imageID)
	}
	if err != nil {
		return nil, fmt.Errorf("find image %s: %w", imageID, err)
	}
	return image, nil
}

func (s *ImageService) render(locator string) ([]byte, error) {
	sym, err := qr.Encode(locator)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncoding, err)
	}
	png, err := s.renderer.PNG(sym)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncoding, err)
	}
	return png, nil
}

// persist 只在 url_original 未被改動時寫入，避免保存不屬於目前原圖的資源
func (s *ImageService) persist(ctx context.Context, image *models.Image, fields map[string]interface{}) error {
	err := s.imageRepo.UpdateIfOriginal(ctx, image.ID, image.URLOriginal, fields)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %s", ErrImageNotFound, image.ID)
	}
	if err != nil {
		return fmt.Errorf("update image %s: %w", image.ID, err)
	}
	return nil
}

// sourcePublicID 優先使用已儲存的識別碼，否則由網址推導
func sourcePublicID(image *models.Image) string {
	if image.PublicID != nil && *image.PublicID != "" {
		return *image.PublicID
	}
	if id := media.DerivePublicID(image.URLOriginal); id != "" {
		return id
	}
	return image.ID
}
