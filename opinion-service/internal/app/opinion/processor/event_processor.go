package processor

import (
	"context"
	"fmt"

	"hoppyhub/opinion-service/internal/app/opinion/entity"
	"hoppyhub/opinion-service/internal/app/opinion/repository"
	"hoppyhub/pkg/events"
	"hoppyhub/pkg/logger"
	"hoppyhub/pkg/txn"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ImageClient - очистка блобов при каскадных удалениях
type ImageClient interface {
	DeleteByPrefix(ctx context.Context, prefix string) error
}

// EventProcessor применяет события beer/user сервисов к shadow-копиям
// Обработчики идемпотентны: дубликат создания молча пропускается,
// обновление или удаление уже отсутствующей строки - нормальный исход
type EventProcessor struct {
	beerRepo    repository.BeerRepository
	userRepo    repository.UserRepository
	imageClient ImageClient
}

// NewEventProcessor создает новый обработчик событий opinion-service
func NewEventProcessor(beerRepo repository.BeerRepository, userRepo repository.UserRepository, imageClient ImageClient) *EventProcessor {
	return &EventProcessor{
		beerRepo:    beerRepo,
		userRepo:    userRepo,
		imageClient: imageClient,
	}
}

// HandleBeerEvent применяет события beer-service
// Удаление пива или пивоварни каскадно чистит мнения и их блобы:
// отказ image-service откатывает транзакцию, событие будет повторено
func (p *EventProcessor) HandleBeerEvent(ctx context.Context, event events.Event) error {
	switch e := event.(type) {
	case events.BeerCreated:
		beer := &entity.Beer{
			ID:        e.ID,
			Name:      e.Name,
			BreweryID: e.BreweryID,
		}
		if err := p.beerRepo.CreateIfAbsent(ctx, beer); err != nil {
			return fmt.Errorf("failed to create beer shadow: %w", err)
		}
		return nil

	case events.BeerUpdated:
		if err := p.beerRepo.Update(ctx, e.ID, e.Name, e.BreweryID); err != nil {
			return fmt.Errorf("failed to update beer shadow: %w", err)
		}
		return nil

	case events.BeerDeleted:
		cleanup := p.blobPrefixCleanup(opinionBlobPrefix(e.BreweryID, e.ID))
		if err := p.beerRepo.Delete(ctx, e.ID, cleanup); err != nil {
			return fmt.Errorf("failed to delete beer shadow: %w", err)
		}
		return nil

	case events.BreweryDeleted:
		cleanup := p.blobPrefixCleanup(breweryBlobPrefix(e.ID))
		if err := p.beerRepo.DeleteByBreweryID(ctx, e.ID, cleanup); err != nil {
			return fmt.Errorf("failed to delete brewery beers: %w", err)
		}
		return nil

	default:
		logger.Warn().Str("event_type", event.Type()).Msg("Unexpected event on beer topic, skipping")
		return nil
	}
}

// HandleUserEvent применяет события user-service
// Удаление мягкое: мнения удаленного пользователя остаются вместе с авторством
func (p *EventProcessor) HandleUserEvent(ctx context.Context, event events.Event) error {
	switch e := event.(type) {
	case events.UserCreated:
		user := &entity.User{
			ID:       e.ID,
			Username: e.Username,
		}
		if err := p.userRepo.CreateIfAbsent(ctx, user); err != nil {
			return fmt.Errorf("failed to create user shadow: %w", err)
		}
		return nil

	case events.UserUpdated:
		if err := p.userRepo.UpdateUsername(ctx, e.ID, e.Username); err != nil {
			return fmt.Errorf("failed to update user shadow: %w", err)
		}
		return nil

	case events.UserDeleted:
		if err := p.userRepo.SoftDelete(ctx, e.ID); err != nil {
			return fmt.Errorf("failed to soft delete user shadow: %w", err)
		}
		return nil

	default:
		logger.Warn().Str("event_type", event.Type()).Msg("Unexpected event on user topic, skipping")
		return nil
	}
}

func (p *EventProcessor) blobPrefixCleanup(prefix string) txn.Action {
	return func(ctx context.Context, tx *gorm.DB) error {
		return p.imageClient.DeleteByPrefix(ctx, prefix)
	}
}

// opinionBlobPrefix - префикс блобов всех мнений о конкретном пиве
func opinionBlobPrefix(breweryID, beerID uuid.UUID) string {
	return fmt.Sprintf("Opinions/%s/%s", breweryID, beerID)
}

// breweryBlobPrefix - префикс блобов мнений обо всех пивах пивоварни
func breweryBlobPrefix(breweryID uuid.UUID) string {
	return fmt.Sprintf("Opinions/%s", breweryID)
}
