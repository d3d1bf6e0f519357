package service

import (
	"context"
	"fmt"

	"eatup/internal/domain"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const photoPrefix = "photos"

// PhotoStore persists uploaded image bytes and returns a reference to them
type PhotoStore interface {
	Put(ctx context.Context, key string, body []byte, contentType string) (string, error)
}

// PhotoService stores food photos ahead of food creation
type PhotoService interface {
	Upload(ctx context.Context, image []byte, contentType string) (string, error)
}

type photoService struct {
	store  PhotoStore
	logger *zap.Logger
}

// NewPhotoService creates a new instance of PhotoService
func NewPhotoService(store PhotoStore, logger *zap.Logger) PhotoService {
	return &photoService{store: store, logger: logger}
}

// Upload stores the image under a fresh key and returns the photo path to put on the food
func (s *photoService) Upload(ctx context.Context, image []byte, contentType string) (string, error) {
	ext, ok := domain.ImageExtension(contentType)
	if !ok {
		return "", domain.ErrUnsupportedImage
	}
	if len(image) == 0 {
		return "", fmt.Errorf("%w: image is empty", domain.ErrValidation)
	}

	key := fmt.Sprintf("%s/%s%s", photoPrefix, uuid.NewString(), ext)

	path, err := s.store.Put(ctx, key, image, contentType)
	if err != nil {
		return "", storageError(s.logger, "upload photo", err)
	}

	s.logger.Info("Photo uploaded", zap.String("key", key), zap.Int("bytes", len(image)))
	return path, nil
}
