package repository

import "image_media/internal/storage"

type Repositories struct {
	Image ImageRepository
}

func NewRepositories(db *storage.Database) *Repositories {
	return &Repositories{
		Image: NewImageRepository(db),
	}
}
