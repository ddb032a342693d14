package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"hoppyhub/image-service/internal/app/image/entity"
	"hoppyhub/image-service/internal/app/image/repository"
	"hoppyhub/pkg/events"
	"hoppyhub/pkg/logger"
	"hoppyhub/pkg/metrics"
)

var (
	ErrImageNotFound = errors.New("image not found")
	ErrInvalidPath   = errors.New("invalid blob path")
)

// Максимальная длина пути блоба, согласована с валидацией событий
const maxPathLength = 256

// ImageService обрабатывает загрузку и удаление блобов
// Каждая успешная мутация подтверждается событием IMAGE_* в Kafka:
// сервисы-владельцы картинок фиксируют URI по этим подтверждениям
type ImageService struct {
	store     BlobStore
	imageRepo repository.ImageRepository
	publisher EventPublisher
	baseURL   string
}

// NewImageService создает новый сервис блобов
func NewImageService(store BlobStore, imageRepo repository.ImageRepository, publisher EventPublisher, baseURL string) *ImageService {
	return &ImageService{
		store:     store,
		imageRepo: imageRepo,
		publisher: publisher,
		baseURL:   strings.TrimRight(baseURL, "/"),
	}
}

// Upload сохраняет блоб по иерархическому пути и публикует IMAGE_UPLOADED
// Повторная загрузка по тому же пути перезаписывает блоб и метаданные
func (s *ImageService) Upload(ctx context.Context, blobPath, contentType string, content io.Reader) (*entity.ImageRecord, error) {
	if err := validatePath(blobPath); err != nil {
		return nil, err
	}

	size, err := s.store.Save(blobPath, content)
	if err != nil {
		metrics.BlobUploads.WithLabelValues("failed").Inc()
		return nil, fmt.Errorf("failed to save blob: %w", err)
	}

	record := &entity.ImageRecord{
		Path:        blobPath,
		URI:         s.blobURI(blobPath),
		Size:        size,
		ContentType: contentType,
	}

	if err := s.imageRepo.Upsert(ctx, record); err != nil {
		metrics.BlobUploads.WithLabelValues("failed").Inc()
		return nil, fmt.Errorf("failed to save image record: %w", err)
	}

	if err := s.publisher.PublishEvent(ctx, events.NewImageUploaded(record.URI, record.Path)); err != nil {
		metrics.BlobUploads.WithLabelValues("failed").Inc()
		return nil, fmt.Errorf("failed to publish upload event: %w", err)
	}

	metrics.BlobUploads.WithLabelValues("success").Inc()
	return record, nil
}

// DeleteByPath удаляет один блоб и публикует IMAGE_DELETED
func (s *ImageService) DeleteByPath(ctx context.Context, blobPath string) error {
	if err := validatePath(blobPath); err != nil {
		return err
	}

	record, err := s.imageRepo.GetByPath(ctx, blobPath)
	if err != nil {
		if errors.Is(err, repository.ErrImageNotFound) {
			return ErrImageNotFound
		}
		return fmt.Errorf("failed to get image record: %w", err)
	}

	if err := s.store.Delete(blobPath); err != nil {
		return fmt.Errorf("failed to delete blob: %w", err)
	}

	if err := s.imageRepo.DeleteByPath(ctx, blobPath); err != nil && !errors.Is(err, repository.ErrImageNotFound) {
		return fmt.Errorf("failed to delete image record: %w", err)
	}

	if err := s.publisher.PublishEvent(ctx, events.NewImageDeleted(record.URI)); err != nil {
		return fmt.Errorf("failed to publish delete event: %w", err)
	}

	metrics.BlobDeletes.WithLabelValues("path").Inc()
	return nil
}

// DeleteByPrefix удаляет все блобы под префиксом и публикует IMAGES_DELETED
// со списком затронутых путей. Ноль совпадений - норма, события нет
func (s *ImageService) DeleteByPrefix(ctx context.Context, prefix string) (int64, error) {
	if err := validatePath(prefix); err != nil {
		return 0, err
	}

	records, err := s.imageRepo.ListByPrefix(ctx, prefix)
	if err != nil {
		return 0, fmt.Errorf("failed to list image records: %w", err)
	}
	if len(records) == 0 {
		return 0, nil
	}

	paths := make([]string, 0, len(records))
	for _, record := range records {
		if err := s.store.Delete(record.Path); err != nil {
			return 0, fmt.Errorf("failed to delete blob %s: %w", record.Path, err)
		}
		paths = append(paths, record.Path)
	}

	deleted, err := s.imageRepo.DeleteByPrefix(ctx, prefix)
	if err != nil {
		return 0, fmt.Errorf("failed to delete image records: %w", err)
	}

	if err := s.publisher.PublishEvent(ctx, events.NewImagesDeleted(prefix, paths)); err != nil {
		return 0, fmt.Errorf("failed to publish delete event: %w", err)
	}

	logger.Info().
		Str("prefix", prefix).
		Int64("deleted", deleted).
		Msg("Deleted blobs by prefix")

	metrics.BlobDeletes.WithLabelValues("prefix").Inc()
	return deleted, nil
}

// blobURI собирает публичный URI блоба
func (s *ImageService) blobURI(blobPath string) string {
	return s.baseURL + "/blobs/" + blobPath
}

// validatePath отклоняет пустые, абсолютные и выходящие за корень пути
func validatePath(blobPath string) error {
	if blobPath == "" || len(blobPath) > maxPathLength {
		return ErrInvalidPath
	}
	if strings.HasPrefix(blobPath, "/") || strings.Contains(blobPath, "..") {
		return ErrInvalidPath
	}
	if path.Clean(blobPath) != blobPath {
		return ErrInvalidPath
	}
	return nil
}
