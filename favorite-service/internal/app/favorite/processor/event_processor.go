package processor

import (
	"context"
	"fmt"

	"hoppyhub/favorite-service/internal/app/favorite/entity"
	"hoppyhub/favorite-service/internal/app/favorite/repository"
	"hoppyhub/pkg/events"
	"hoppyhub/pkg/logger"
)

// EventProcessor применяет события beer/user сервисов к shadow-копиям
// Обработчики идемпотентны: дубликат создания молча пропускается,
// обновление или удаление уже отсутствующей строки - нормальный исход
type EventProcessor struct {
	beerRepo repository.BeerRepository
	userRepo repository.UserRepository
}

// NewEventProcessor создает новый обработчик событий favorite-service
func NewEventProcessor(beerRepo repository.BeerRepository, userRepo repository.UserRepository) *EventProcessor {
	return &EventProcessor{
		beerRepo: beerRepo,
		userRepo: userRepo,
	}
}

// HandleBeerEvent применяет события beer-service
// Удаление пива или пивоварни каскадно чистит избранное без пересчета:
// счетчик удаленного пива больше никому не нужен
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
		if err := p.beerRepo.Delete(ctx, e.ID); err != nil {
			return fmt.Errorf("failed to delete beer shadow: %w", err)
		}
		return nil

	case events.BreweryDeleted:
		if err := p.beerRepo.DeleteByBreweryID(ctx, e.ID); err != nil {
			return fmt.Errorf("failed to delete brewery beers: %w", err)
		}
		return nil

	default:
		logger.Warn().Str("event_type", event.Type()).Msg("Unexpected event on beer topic, skipping")
		return nil
	}
}

// HandleUserEvent применяет события user-service
// Удаление жесткое: избранное пользователя чистится каскадом, по каждому
// затронутому пиву публикуется пересчитанный счетчик
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
		if err := p.userRepo.Delete(ctx, e.ID); err != nil {
			return fmt.Errorf("failed to delete user shadow: %w", err)
		}
		return nil

	default:
		logger.Warn().Str("event_type", event.Type()).Msg("Unexpected event on user topic, skipping")
		return nil
	}
}
