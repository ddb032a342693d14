package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"hoppyhub/favorite-service/internal/app/favorite/entity"
	"hoppyhub/favorite-service/internal/app/favorite/repository"
	"hoppyhub/pkg/metrics"
	"hoppyhub/pkg/pagination"
	"hoppyhub/pkg/querying"

	"github.com/google/uuid"
)

var (
	ErrFavoriteNotFound = errors.New("favorite not found")
	ErrAlreadyFavorite  = errors.New("beer is already in favorites")
	ErrBeerNotFound     = errors.New("beer not found")
)

// Сортировка списка избранного: первый ключ - сортировка по умолчанию
var favoriteSorting = querying.NewSortingMap().
	Add("created", "created_at")

// FavoriteService обрабатывает бизнес-логику избранного
// Владелец отметки берется из явного actorID, наличие пива проверяется
// по shadow-копии. Каждая мутация через репозиторий пересчитывает счетчик
// пива и кладет BEER_FAVORITES_COUNT_CHANGED в outbox той же транзакцией
type FavoriteService struct {
	favoriteRepo repository.FavoriteRepository
	beerRepo     repository.BeerRepository
}

// NewFavoriteService создает новый сервис избранного
func NewFavoriteService(favoriteRepo repository.FavoriteRepository, beerRepo repository.BeerRepository) *FavoriteService {
	return &FavoriteService{
		favoriteRepo: favoriteRepo,
		beerRepo:     beerRepo,
	}
}

// AddFavorite добавляет пиво в избранное actorID
// Повторное добавление той же пары - ошибка клиента
func (s *FavoriteService) AddFavorite(ctx context.Context, actorID uuid.UUID, req *entity.AddFavoriteRequest) (*entity.Favorite, error) {
	beerID, err := uuid.Parse(req.BeerID)
	if err != nil {
		return nil, ErrBeerNotFound
	}

	beer, err := s.beerRepo.GetByID(ctx, beerID)
	if err != nil {
		if errors.Is(err, repository.ErrBeerNotFound) {
			return nil, ErrBeerNotFound
		}
		return nil, fmt.Errorf("failed to verify beer: %w", err)
	}

	favorite := &entity.Favorite{
		ID:        uuid.New(),
		UserID:    actorID,
		BeerID:    beer.ID,
		CreatedAt: time.Now(),
	}

	if err := s.favoriteRepo.Create(ctx, favorite); err != nil {
		if errors.Is(err, repository.ErrAlreadyFavorite) {
			return nil, ErrAlreadyFavorite
		}
		return nil, fmt.Errorf("failed to add favorite: %w", err)
	}

	metrics.FavoritesChanged.WithLabelValues("added").Inc()
	return favorite, nil
}

// RemoveFavorite убирает пиво из избранного actorID
func (s *FavoriteService) RemoveFavorite(ctx context.Context, actorID, beerID uuid.UUID) error {
	if err := s.favoriteRepo.Delete(ctx, actorID, beerID); err != nil {
		if errors.Is(err, repository.ErrFavoriteNotFound) {
			return ErrFavoriteNotFound
		}
		return fmt.Errorf("failed to remove favorite: %w", err)
	}

	metrics.FavoritesChanged.WithLabelValues("removed").Inc()
	return nil
}

// ListFavorites возвращает страницу избранного по фильтрам запроса
func (s *FavoriteService) ListFavorites(ctx context.Context, req *entity.ListFavoritesRequest, page pagination.Params) ([]entity.Favorite, int64, error) {
	sortColumn, err := favoriteSorting.Resolve(req.SortBy)
	if err != nil {
		return nil, 0, err
	}

	var predicates []querying.Predicate
	if strings.TrimSpace(req.UserID) != "" {
		predicates = append(predicates, querying.Equals("user_id", req.UserID))
	}
	if strings.TrimSpace(req.BeerID) != "" {
		predicates = append(predicates, querying.Equals("beer_id", req.BeerID))
	}

	favorites, total, err := s.favoriteRepo.List(ctx, predicates, sortColumn, req.SortDirection == "desc", page)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list favorites: %w", err)
	}

	return favorites, total, nil
}

// SortKeys возвращает допустимые ключи сортировки для валидации запросов
func (s *FavoriteService) SortKeys() []string {
	return favoriteSorting.Keys()
}
