package processor

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"hoppyhub/beer-service/internal/app/beer/repository"
	"hoppyhub/pkg/events"
	"hoppyhub/pkg/logger"

	"github.com/google/uuid"
)

// EventProcessor применяет события opinion/favorite/image сервисов к пиву
// Обработчики идемпотентны: события несут абсолютные значения, перезапись
// защищена версией, отсутствие строки - нормальный исход
type EventProcessor struct {
	beerRepo     repository.BeerRepository
	imageRepo    repository.BeerImageRepository
	tempImageURI string
}

// NewEventProcessor создает новый обработчик событий beer-service
func NewEventProcessor(beerRepo repository.BeerRepository, imageRepo repository.BeerImageRepository, tempImageURI string) *EventProcessor {
	return &EventProcessor{
		beerRepo:     beerRepo,
		imageRepo:    imageRepo,
		tempImageURI: tempImageURI,
	}
}

// HandleOpinionEvent применяет BEER_OPINION_CHANGED
// Значения абсолютные: перезапись, никогда инкремент. Устаревшая версия
// или удаленное пиво - событие пропускается без ошибки
func (p *EventProcessor) HandleOpinionEvent(ctx context.Context, event events.Event) error {
	e, ok := event.(events.BeerOpinionChanged)
	if !ok {
		logger.Warn().Str("event_type", event.Type()).Msg("Unexpected event on opinion topic, skipping")
		return nil
	}

	applied, err := p.beerRepo.ApplyOpinionStats(ctx, e.BeerID, e.OpinionsCount, e.NewBeerRating, e.Version)
	if err != nil {
		return fmt.Errorf("failed to apply opinion stats: %w", err)
	}
	if !applied {
		logger.Debug().
			Str("beer_id", e.BeerID.String()).
			Int64("version", e.Version).
			Msg("Opinion stats not applied: stale version or missing beer")
	}

	return nil
}

// HandleFavoriteEvent применяет BEER_FAVORITES_COUNT_CHANGED, см. HandleOpinionEvent
func (p *EventProcessor) HandleFavoriteEvent(ctx context.Context, event events.Event) error {
	e, ok := event.(events.BeerFavoritesCountChanged)
	if !ok {
		logger.Warn().Str("event_type", event.Type()).Msg("Unexpected event on favorite topic, skipping")
		return nil
	}

	applied, err := p.beerRepo.ApplyFavoritesCount(ctx, e.BeerID, e.FavoritesCount, e.Version)
	if err != nil {
		return fmt.Errorf("failed to apply favorites count: %w", err)
	}
	if !applied {
		logger.Debug().
			Str("beer_id", e.BeerID.String()).
			Int64("version", e.Version).
			Msg("Favorites count not applied: stale version or missing beer")
	}

	return nil
}

// HandleImageEvent применяет подтверждения image-service
// IMAGE_UPLOADED фиксирует URI картинки, IMAGE_DELETED и IMAGES_DELETED
// сбрасывают затронутые картинки на заглушку
func (p *EventProcessor) HandleImageEvent(ctx context.Context, event events.Event) error {
	switch e := event.(type) {
	case events.ImageUploaded:
		beerID, ok := beerIDFromBlobPath(e.Path)
		if !ok {
			// Блоб другого сервиса (например картинка мнения)
			return nil
		}
		return p.applyUploadedImage(ctx, beerID, e.URI)

	case events.ImageDeleted:
		if err := p.imageRepo.ResetByURI(ctx, e.URI, p.tempImageURI); err != nil {
			return fmt.Errorf("failed to reset image by uri: %w", err)
		}
		return nil

	case events.ImagesDeleted:
		for _, blobPath := range e.Paths {
			beerID, ok := beerIDFromBlobPath(blobPath)
			if !ok {
				continue
			}
			if err := p.imageRepo.ResetToTemp(ctx, beerID, p.tempImageURI); err != nil {
				return fmt.Errorf("failed to reset image for beer %s: %w", beerID, err)
			}
		}
		return nil

	default:
		logger.Warn().Str("event_type", event.Type()).Msg("Unexpected event on image topic, skipping")
		return nil
	}
}

func (p *EventProcessor) applyUploadedImage(ctx context.Context, beerID uuid.UUID, uri string) error {
	image, err := p.imageRepo.GetByBeerID(ctx, beerID)
	if err != nil {
		if errors.Is(err, repository.ErrImageNotFound) {
			// Пиво уже удалено, подтверждение запоздало
			return nil
		}
		return fmt.Errorf("failed to get beer image: %w", err)
	}

	if image.URI == uri && !image.TempImage {
		return nil
	}

	image.URI = uri
	image.TempImage = false
	if err := p.imageRepo.Upsert(ctx, image); err != nil {
		return fmt.Errorf("failed to save beer image: %w", err)
	}

	return nil
}

// beerIDFromBlobPath извлекает ID пива из пути Beers/{breweryId}/{beerId}{ext}
func beerIDFromBlobPath(blobPath string) (uuid.UUID, bool) {
	parts := strings.Split(blobPath, "/")
	if len(parts) != 3 || parts[0] != "Beers" {
		return uuid.Nil, false
	}

	name := strings.TrimSuffix(parts[2], path.Ext(parts[2]))
	beerID, err := uuid.Parse(name)
	if err != nil {
		return uuid.Nil, false
	}

	return beerID, true
}
