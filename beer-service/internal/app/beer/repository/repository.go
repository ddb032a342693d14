package repository

import (
	"context"
	"errors"

	"hoppyhub/beer-service/internal/app/beer/entity"
	"hoppyhub/pkg/events"
	"hoppyhub/pkg/pagination"
	"hoppyhub/pkg/querying"
	"hoppyhub/pkg/txn"

	"github.com/google/uuid"
)

var (
	ErrBreweryNotFound = errors.New("brewery not found")
	ErrBeerNotFound    = errors.New("beer not found")
	ErrImageNotFound   = errors.New("beer image not found")
)

// BreweryRepository - доступ к пивоварням
// Delete каскадно удаляет пивоварню вместе с ее пивом и картинками,
// событие BREWERY_DELETED уходит в outbox той же транзакцией
type BreweryRepository interface {
	Create(ctx context.Context, brewery *entity.Brewery) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Brewery, error)
	GetAll(ctx context.Context) ([]entity.Brewery, error)
	List(ctx context.Context, predicates []querying.Predicate, sortColumn string, sortDesc bool, page pagination.Params) ([]entity.Brewery, int64, error)
	Update(ctx context.Context, brewery *entity.Brewery) error
	Delete(ctx context.Context, id uuid.UUID, event events.Event, actions ...txn.Action) error
}

// BeerRepository - доступ к пиву
// Create/Update/Delete пишут строку и событие одной транзакцией.
// ApplyOpinionStats и ApplyFavoritesCount перезаписывают производные поля
// абсолютными значениями из событий, защищаясь от устаревших версий
type BeerRepository interface {
	Create(ctx context.Context, beer *entity.Beer, event events.Event, actions ...txn.Action) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Beer, error)
	GetByBreweryID(ctx context.Context, breweryID uuid.UUID) ([]entity.Beer, error)
	List(ctx context.Context, predicates []querying.Predicate, sortColumn string, sortDesc bool, page pagination.Params) ([]entity.Beer, int64, error)
	Update(ctx context.Context, beer *entity.Beer, event events.Event) error
	Delete(ctx context.Context, id uuid.UUID, event events.Event, actions ...txn.Action) error
	ApplyOpinionStats(ctx context.Context, beerID uuid.UUID, opinionsCount int64, rating float64, version int64) (bool, error)
	ApplyFavoritesCount(ctx context.Context, beerID uuid.UUID, favoritesCount int64, version int64) (bool, error)
}

// BeerImageRepository - картинки пива, строго один-к-одному
type BeerImageRepository interface {
	GetByBeerID(ctx context.Context, beerID uuid.UUID) (*entity.BeerImage, error)
	Upsert(ctx context.Context, image *entity.BeerImage) error
	ResetToTemp(ctx context.Context, beerID uuid.UUID, tempURI string, actions ...txn.Action) error
	ResetByURI(ctx context.Context, uri, tempURI string) error
}
