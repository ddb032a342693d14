package repository

import (
	"context"
	"errors"

	"hoppyhub/image-service/internal/app/image/entity"
)

var ErrImageNotFound = errors.New("image not found")

// ImageRepository - метаданные блобов
type ImageRepository interface {
	Upsert(ctx context.Context, record *entity.ImageRecord) error
	GetByPath(ctx context.Context, path string) (*entity.ImageRecord, error)
	ListByPrefix(ctx context.Context, prefix string) ([]entity.ImageRecord, error)
	DeleteByPath(ctx context.Context, path string) error
	DeleteByPrefix(ctx context.Context, prefix string) (int64, error)
}
