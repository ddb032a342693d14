package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"hoppyhub/beer-service/internal/app/beer/entity"
	"hoppyhub/beer-service/internal/app/beer/repository"
	"hoppyhub/pkg/events"
	"hoppyhub/pkg/pagination"
	"hoppyhub/pkg/querying"
	"hoppyhub/pkg/txn"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RoleAdmin - роль администратора из JWT claims user-service
const RoleAdmin = "Administrator"

// Сортировка списка пива: первый ключ - сортировка по умолчанию
var beerSorting = querying.NewSortingMap().
	Add("name", "name").
	Add("rating", "rating").
	Add("opinionsCount", "opinions_count").
	Add("favoritesCount", "favorites_count").
	Add("alcoholByVolume", "alcohol_by_volume").
	Add("created", "created_at")

// BeerService обрабатывает бизнес-логику пива
// Мутации разрешены только администратору, производные поля пишутся
// только консюмерами opinion/favorite событий
type BeerService struct {
	beerRepo     repository.BeerRepository
	breweryRepo  repository.BreweryRepository
	imageRepo    repository.BeerImageRepository
	imageClient  ImageClient
	tempImageURI string
}

// NewBeerService создает новый сервис пива
func NewBeerService(
	beerRepo repository.BeerRepository,
	breweryRepo repository.BreweryRepository,
	imageRepo repository.BeerImageRepository,
	imageClient ImageClient,
	tempImageURI string,
) *BeerService {
	return &BeerService{
		beerRepo:     beerRepo,
		breweryRepo:  breweryRepo,
		imageRepo:    imageRepo,
		imageClient:  imageClient,
		tempImageURI: tempImageURI,
	}
}

// CreateBeer создает пиво (только администратор)
// Вместе с пивом той же транзакцией создается строка картинки-заглушки,
// сохраняя инвариант один-к-одному, и уходит событие BEER_CREATED
func (s *BeerService) CreateBeer(ctx context.Context, actorRole string, req *entity.CreateBeerRequest) (*entity.Beer, error) {
	if actorRole != RoleAdmin {
		return nil, ErrForbidden
	}

	brewery, err := s.breweryRepo.GetByID(ctx, req.BreweryID)
	if err != nil {
		if errors.Is(err, repository.ErrBreweryNotFound) {
			return nil, ErrBreweryNotFound
		}
		return nil, fmt.Errorf("failed to verify brewery: %w", err)
	}

	beer := &entity.Beer{
		ID:              uuid.New(),
		Name:            req.Name,
		Description:     req.Description,
		AlcoholByVolume: req.AlcoholByVolume,
		Ibu:             req.Ibu,
		BreweryID:       brewery.ID,
		CreatedAt:       time.Now(),
		UpdatedAt:       time.Now(),
	}

	event := events.NewBeerCreated(beer.ID, beer.Name, brewery.ID, brewery.Name)
	tempImage := &entity.BeerImage{
		BeerID:    beer.ID,
		URI:       s.tempImageURI,
		TempImage: true,
		UpdatedAt: time.Now(),
	}

	err = s.beerRepo.Create(ctx, beer, event, func(ctx context.Context, tx *gorm.DB) error {
		return tx.Create(tempImage).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create beer: %w", err)
	}

	beer.Brewery = brewery
	return beer, nil
}

// GetBeer получает пиво с пивоварней и картинкой
func (s *BeerService) GetBeer(ctx context.Context, id uuid.UUID) (*entity.Beer, *entity.BeerImage, error) {
	beer, err := s.beerRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrBeerNotFound) {
			return nil, nil, ErrBeerNotFound
		}
		return nil, nil, fmt.Errorf("failed to get beer: %w", err)
	}

	image, err := s.imageRepo.GetByBeerID(ctx, id)
	if err != nil && !errors.Is(err, repository.ErrImageNotFound) {
		return nil, nil, fmt.Errorf("failed to get beer image: %w", err)
	}

	return beer, image, nil
}

// ListBeers возвращает страницу пива по фильтрам запроса
// Предикаты собираются в фиксированном порядке: точные фильтры, затем поиск
func (s *BeerService) ListBeers(ctx context.Context, req *entity.ListBeersRequest, page pagination.Params) ([]entity.Beer, int64, error) {
	sortColumn, err := beerSorting.Resolve(req.SortBy)
	if err != nil {
		return nil, 0, err
	}

	var predicates []querying.Predicate
	if req.BreweryID != "" {
		predicates = append(predicates, querying.Equals("brewery_id", req.BreweryID))
	}
	if strings.TrimSpace(req.SearchQuery) != "" {
		predicates = append(predicates, querying.Search(req.SearchQuery, "name", "description"))
	}

	beers, total, err := s.beerRepo.List(ctx, predicates, sortColumn, req.SortDirection == "desc", page)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list beers: %w", err)
	}

	return beers, total, nil
}

// UpdateBeer обновляет пиво (только администратор)
// Событие BEER_UPDATED обновляет shadow-копии имени в opinion/favorite сервисах
func (s *BeerService) UpdateBeer(ctx context.Context, actorRole string, id uuid.UUID, req *entity.UpdateBeerRequest) (*entity.Beer, error) {
	if actorRole != RoleAdmin {
		return nil, ErrForbidden
	}

	beer, err := s.beerRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrBeerNotFound) {
			return nil, ErrBeerNotFound
		}
		return nil, fmt.Errorf("failed to get beer: %w", err)
	}

	beer.Name = req.Name
	beer.Description = req.Description
	beer.AlcoholByVolume = req.AlcoholByVolume
	beer.Ibu = req.Ibu

	event := events.NewBeerUpdated(beer.ID, beer.Name, beer.BreweryID)
	if err := s.beerRepo.Update(ctx, beer, event); err != nil {
		if errors.Is(err, repository.ErrBeerNotFound) {
			return nil, ErrBeerNotFound
		}
		return nil, fmt.Errorf("failed to update beer: %w", err)
	}

	return beer, nil
}

// DeleteBeer удаляет пиво (только администратор)
// Строка картинки удаляется той же транзакцией, блобы пива чистятся через
// image-service, его отказ откатывает удаление. BEER_DELETED уходит через
// outbox: opinion/favorite сервисы каскадно чистят свои данные
func (s *BeerService) DeleteBeer(ctx context.Context, actorRole string, id uuid.UUID) error {
	if actorRole != RoleAdmin {
		return ErrForbidden
	}

	beer, err := s.beerRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrBeerNotFound) {
			return ErrBeerNotFound
		}
		return fmt.Errorf("failed to get beer: %w", err)
	}

	event := events.NewBeerDeleted(beer.ID, beer.BreweryID)
	cleanup := blobPrefixCleanup(s.imageClient, beerBlobKey(beer.BreweryID, beer.ID))
	if err := s.beerRepo.Delete(ctx, id, event, cleanup); err != nil {
		if errors.Is(err, repository.ErrBeerNotFound) {
			return ErrBeerNotFound
		}
		return fmt.Errorf("failed to delete beer: %w", err)
	}

	return nil
}

// UploadBeerImage загружает картинку пива (только администратор)
// Блоб кладется по пути Beers/{breweryId}/{beerId}{ext}, строка картинки
// перезаписывается новым URI
func (s *BeerService) UploadBeerImage(ctx context.Context, actorRole string, beerID uuid.UUID, filename string, content io.Reader) (*entity.BeerImage, error) {
	if actorRole != RoleAdmin {
		return nil, ErrForbidden
	}

	beer, err := s.beerRepo.GetByID(ctx, beerID)
	if err != nil {
		if errors.Is(err, repository.ErrBeerNotFound) {
			return nil, ErrBeerNotFound
		}
		return nil, fmt.Errorf("failed to get beer: %w", err)
	}

	path := beerBlobKey(beer.BreweryID, beer.ID) + strings.ToLower(filepath.Ext(filename))
	uri, err := s.imageClient.Upload(ctx, path, filename, content)
	if err != nil {
		return nil, fmt.Errorf("failed to upload beer image: %w", err)
	}

	image := &entity.BeerImage{
		BeerID:    beer.ID,
		URI:       uri,
		TempImage: false,
	}
	if err := s.imageRepo.Upsert(ctx, image); err != nil {
		return nil, fmt.Errorf("failed to save beer image: %w", err)
	}

	return image, nil
}

// DeleteBeerImage удаляет картинку пива (только администратор)
// Строка не удаляется: URI сбрасывается на заглушку с поднятым temp_image.
// Повторное удаление уже сброшенной картинки - ошибка клиента
func (s *BeerService) DeleteBeerImage(ctx context.Context, actorRole string, beerID uuid.UUID) error {
	if actorRole != RoleAdmin {
		return ErrForbidden
	}

	image, err := s.imageRepo.GetByBeerID(ctx, beerID)
	if err != nil {
		if errors.Is(err, repository.ErrImageNotFound) {
			return ErrImageNotFound
		}
		return fmt.Errorf("failed to get beer image: %w", err)
	}
	if image.TempImage {
		return ErrImageDeleted
	}

	beer, err := s.beerRepo.GetByID(ctx, beerID)
	if err != nil {
		if errors.Is(err, repository.ErrBeerNotFound) {
			return ErrBeerNotFound
		}
		return fmt.Errorf("failed to get beer: %w", err)
	}

	// Сброс строки и удаление блоба идут одной транзакцией, как в
	// путях удаления: отказ image-service откатывает сброс
	cleanup := blobPrefixCleanup(s.imageClient, beerBlobKey(beer.BreweryID, beer.ID))
	if err := s.imageRepo.ResetToTemp(ctx, beerID, s.tempImageURI, cleanup); err != nil {
		return fmt.Errorf("failed to reset beer image: %w", err)
	}

	return nil
}

// SortKeys возвращает допустимые ключи сортировки для валидации запросов
func (s *BeerService) SortKeys() []string {
	return beerSorting.Keys()
}

// beerBlobPrefix - префикс блобов всех пив пивоварни
func beerBlobPrefix(breweryID uuid.UUID) string {
	return fmt.Sprintf("Beers/%s", breweryID)
}

// beerBlobKey - путь блоба конкретного пива без расширения
func beerBlobKey(breweryID, beerID uuid.UUID) string {
	return fmt.Sprintf("Beers/%s/%s", breweryID, beerID)
}

// blobPrefixCleanup - action для txn.Run: чистит блобы под префиксом,
// ошибка image-service откатывает локальную транзакцию
func blobPrefixCleanup(client ImageClient, prefix string) txn.Action {
	return func(ctx context.Context, tx *gorm.DB) error {
		return client.DeleteByPrefix(ctx, prefix)
	}
}
