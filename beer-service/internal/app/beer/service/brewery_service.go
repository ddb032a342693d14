package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"hoppyhub/beer-service/internal/app/beer/entity"
	"hoppyhub/beer-service/internal/app/beer/repository"
	"hoppyhub/beer-service/internal/app/beer/util"
	"hoppyhub/pkg/events"
	"hoppyhub/pkg/logger"
	"hoppyhub/pkg/pagination"
	"hoppyhub/pkg/querying"

	"github.com/google/uuid"
)

var (
	// Ошибки бизнес-логики для обработки в handlers
	ErrBreweryNotFound = errors.New("brewery not found")
	ErrBeerNotFound    = errors.New("beer not found")
	ErrImageNotFound   = errors.New("beer image not found")
	ErrImageDeleted    = errors.New("beer image is already deleted")
	ErrForbidden       = errors.New("operation not permitted for this user")
)

// Сортировка списка пивоварен: первый ключ - сортировка по умолчанию
var brewerySorting = querying.NewSortingMap().
	Add("name", "name").
	Add("countryOfOrigin", "country_of_origin").
	Add("foundationYear", "foundation_year").
	Add("created", "created_at")

// BreweryService обрабатывает бизнес-логику пивоварен
// Список пивоварен кешируется в Redis и инвалидируется на каждой записи
type BreweryService struct {
	breweryRepo repository.BreweryRepository
	redisClient *util.RedisClient
	imageClient ImageClient
	cacheTTL    time.Duration
}

// NewBreweryService создает новый сервис пивоварен
func NewBreweryService(
	breweryRepo repository.BreweryRepository,
	redisClient *util.RedisClient,
	imageClient ImageClient,
	cacheTTL time.Duration,
) *BreweryService {
	return &BreweryService{
		breweryRepo: breweryRepo,
		redisClient: redisClient,
		imageClient: imageClient,
		cacheTTL:    cacheTTL,
	}
}

// CreateBrewery создает пивоварню (только администратор)
func (s *BreweryService) CreateBrewery(ctx context.Context, actorRole string, req *entity.CreateBreweryRequest) (*entity.Brewery, error) {
	if actorRole != RoleAdmin {
		return nil, ErrForbidden
	}

	brewery := &entity.Brewery{
		ID:              uuid.New(),
		Name:            req.Name,
		FoundationYear:  req.FoundationYear,
		CountryOfOrigin: req.CountryOfOrigin,
		CreatedAt:       time.Now(),
	}

	if err := s.breweryRepo.Create(ctx, brewery); err != nil {
		return nil, fmt.Errorf("failed to create brewery: %w", err)
	}

	s.invalidateCache(ctx)
	return brewery, nil
}

// GetBrewery получает пивоварню по ID
func (s *BreweryService) GetBrewery(ctx context.Context, id uuid.UUID) (*entity.Brewery, error) {
	brewery, err := s.breweryRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrBreweryNotFound) {
			return nil, ErrBreweryNotFound
		}
		return nil, fmt.Errorf("failed to get brewery: %w", err)
	}

	return brewery, nil
}

// GetAllBreweries возвращает все пивоварни с кешированием в Redis
// Cache miss загружает из PostgreSQL и кеширует на cacheTTL
func (s *BreweryService) GetAllBreweries(ctx context.Context) ([]entity.Brewery, error) {
	breweries, err := s.redisClient.GetBreweries(ctx)
	if err == nil && len(breweries) > 0 {
		return breweries, nil
	}

	breweries, err = s.breweryRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get breweries: %w", err)
	}

	if err := s.redisClient.SetBreweries(ctx, breweries, s.cacheTTL); err != nil {
		// Данные получены из БД, проблемы с кешем не критичны
		logger.Warn().Err(err).Msg("Failed to cache breweries")
	}

	return breweries, nil
}

// ListBreweries возвращает страницу пивоварен по фильтрам запроса
// Предикаты собираются в фиксированном порядке: точные фильтры, затем поиск
func (s *BreweryService) ListBreweries(ctx context.Context, req *entity.ListBreweriesRequest, page pagination.Params) ([]entity.Brewery, int64, error) {
	sortColumn, err := brewerySorting.Resolve(req.SortBy)
	if err != nil {
		return nil, 0, err
	}

	var predicates []querying.Predicate
	if req.Country != "" {
		predicates = append(predicates, querying.Equals("country_of_origin", req.Country))
	}
	if strings.TrimSpace(req.SearchQuery) != "" {
		predicates = append(predicates, querying.Search(req.SearchQuery, "name"))
	}

	breweries, total, err := s.breweryRepo.List(ctx, predicates, sortColumn, req.SortDirection == "desc", page)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list breweries: %w", err)
	}

	return breweries, total, nil
}

// UpdateBrewery обновляет пивоварню (только администратор)
func (s *BreweryService) UpdateBrewery(ctx context.Context, actorRole string, id uuid.UUID, req *entity.UpdateBreweryRequest) (*entity.Brewery, error) {
	if actorRole != RoleAdmin {
		return nil, ErrForbidden
	}

	brewery, err := s.breweryRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrBreweryNotFound) {
			return nil, ErrBreweryNotFound
		}
		return nil, fmt.Errorf("failed to get brewery: %w", err)
	}

	brewery.Name = req.Name
	brewery.FoundationYear = req.FoundationYear
	brewery.CountryOfOrigin = req.CountryOfOrigin

	if err := s.breweryRepo.Update(ctx, brewery); err != nil {
		if errors.Is(err, repository.ErrBreweryNotFound) {
			return nil, ErrBreweryNotFound
		}
		return nil, fmt.Errorf("failed to update brewery: %w", err)
	}

	s.invalidateCache(ctx)
	return brewery, nil
}

// DeleteBrewery каскадно удаляет пивоварню (только администратор)
// Пиво и картинки удаляются той же транзакцией, блобы всех пив пивоварни
// чистятся через image-service; его отказ откатывает каскад.
// Событие BREWERY_DELETED уходит через outbox: opinion/favorite сервисы
// удаляют shadow-копии пива по brewery_id
func (s *BreweryService) DeleteBrewery(ctx context.Context, actorRole string, id uuid.UUID) error {
	if actorRole != RoleAdmin {
		return ErrForbidden
	}

	event := events.NewBreweryDeleted(id)
	err := s.breweryRepo.Delete(ctx, id, event, blobPrefixCleanup(s.imageClient, beerBlobPrefix(id)))
	if err != nil {
		if errors.Is(err, repository.ErrBreweryNotFound) {
			return ErrBreweryNotFound
		}
		return fmt.Errorf("failed to delete brewery: %w", err)
	}

	s.invalidateCache(ctx)
	return nil
}

// SortKeys возвращает допустимые ключи сортировки для валидации запросов
func (s *BreweryService) SortKeys() []string {
	return brewerySorting.Keys()
}

func (s *BreweryService) invalidateCache(ctx context.Context) {
	if err := s.redisClient.DeleteBreweries(ctx); err != nil {
		// Запись уже зафиксирована, проблемы с кешем не критичны
		logger.Warn().Err(err).Msg("Failed to invalidate breweries cache")
	}
}
