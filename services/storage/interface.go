package storage

import (
	"context"

	"homestay/models"
)

// ImageStore holds the images attached to content records and rooms.
type ImageStore interface {
	Upload(ctx context.Context, img models.Image, folder string) (*models.StoredImage, error)
	Delete(ctx context.Context, publicID string) error
}
