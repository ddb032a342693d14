package processor

import (
	"context"
	"fmt"

	"hoppyhub/pkg/events"
	"hoppyhub/pkg/logger"

	"github.com/google/uuid"
)

// BlobCleaner - часть ImageService, нужная обработчику событий
type BlobCleaner interface {
	DeleteByPrefix(ctx context.Context, prefix string) (int64, error)
}

// EventProcessor - backstop-очистка блобов по событиям beer-service
// Основная очистка идет синхронно в транзакциях beer/opinion сервисов;
// подписка подбирает блобы, осиротевшие из-за отказов image-service
// в момент удаления. Повторное удаление пустого префикса безвредно
type EventProcessor struct {
	imageService BlobCleaner
}

// NewEventProcessor создает новый обработчик событий image-service
func NewEventProcessor(imageService BlobCleaner) *EventProcessor {
	return &EventProcessor{imageService: imageService}
}

// HandleBeerEvent чистит блобы удаленного пива или пивоварни
func (p *EventProcessor) HandleBeerEvent(ctx context.Context, event events.Event) error {
	switch e := event.(type) {
	case events.BeerDeleted:
		return p.deletePrefixes(ctx,
			fmt.Sprintf("Beers/%s/%s", e.BreweryID, e.ID),
			fmt.Sprintf("Opinions/%s/%s", e.BreweryID, e.ID),
		)

	case events.BreweryDeleted:
		return p.deletePrefixes(ctx, beerPrefix(e.ID), opinionPrefix(e.ID))

	default:
		// Создания и обновления пива блобов не затрагивают
		return nil
	}
}

func (p *EventProcessor) deletePrefixes(ctx context.Context, prefixes ...string) error {
	for _, prefix := range prefixes {
		deleted, err := p.imageService.DeleteByPrefix(ctx, prefix)
		if err != nil {
			return fmt.Errorf("failed to delete blobs under %s: %w", prefix, err)
		}
		if deleted > 0 {
			logger.Info().
				Str("prefix", prefix).
				Int64("deleted", deleted).
				Msg("Cleaned up orphaned blobs")
		}
	}
	return nil
}

func beerPrefix(breweryID uuid.UUID) string {
	return fmt.Sprintf("Beers/%s", breweryID)
}

func opinionPrefix(breweryID uuid.UUID) string {
	return fmt.Sprintf("Opinions/%s", breweryID)
}
