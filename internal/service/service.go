package service

import (
	"image_media/internal/cache"
	"image_media/internal/media"
	"image_media/internal/repository"
)

type Services struct {
	Image *ImageService
}

func NewServices(repos *repository.Repositories, mediaService media.Service, qrCache cache.QRCache) *Services {
	return &Services{
		Image: NewImageService(repos.Image, mediaService, qrCache),
	}
}
