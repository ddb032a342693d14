package repository

import (
	"context"
	"errors"

	"hoppyhub/favorite-service/internal/app/favorite/entity"
	"hoppyhub/pkg/pagination"
	"hoppyhub/pkg/querying"

	"github.com/google/uuid"
)

var (
	ErrFavoriteNotFound = errors.New("favorite not found")
	ErrAlreadyFavorite  = errors.New("beer is already in favorites")
	ErrBeerNotFound     = errors.New("beer not found")
)

// FavoriteRepository - доступ к отметкам избранного
// Каждая мутация пересчитывает количество избранного пива из локальных
// строк и кладет BEER_FAVORITES_COUNT_CHANGED в outbox той же транзакцией
type FavoriteRepository interface {
	Create(ctx context.Context, favorite *entity.Favorite) error
	Delete(ctx context.Context, userID, beerID uuid.UUID) error
	List(ctx context.Context, predicates []querying.Predicate, sortColumn string, sortDesc bool, page pagination.Params) ([]entity.Favorite, int64, error)
}

// BeerRepository - shadow-копии пива, пишутся только консюмером beer_events
type BeerRepository interface {
	CreateIfAbsent(ctx context.Context, beer *entity.Beer) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Beer, error)
	Update(ctx context.Context, id uuid.UUID, name string, breweryID uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByBreweryID(ctx context.Context, breweryID uuid.UUID) error
}

// UserRepository - shadow-копии пользователей
// Удаление жесткое и каскадное: избранное пользователя уходит вместе с ним,
// по каждому затронутому пиву публикуется пересчитанный счетчик
type UserRepository interface {
	CreateIfAbsent(ctx context.Context, user *entity.User) error
	UpdateUsername(ctx context.Context, id uuid.UUID, username string) error
	Delete(ctx context.Context, id uuid.UUID) error
}
