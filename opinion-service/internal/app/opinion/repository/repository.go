package repository

import (
	"context"
	"errors"

	"hoppyhub/opinion-service/internal/app/opinion/entity"
	"hoppyhub/pkg/pagination"
	"hoppyhub/pkg/querying"
	"hoppyhub/pkg/txn"

	"github.com/google/uuid"
)

var (
	ErrOpinionNotFound = errors.New("opinion not found")
	ErrBeerNotFound    = errors.New("beer not found")
	ErrUserNotFound    = errors.New("user not found")
)

// OpinionRepository - доступ к мнениям
// Каждая мутация пересчитывает количество и средний рейтинг пива из
// локальных строк и кладет BEER_OPINION_CHANGED в outbox той же
// транзакцией. Событие несет абсолютные значения и версию
type OpinionRepository interface {
	Create(ctx context.Context, opinion *entity.Opinion, actions ...txn.Action) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Opinion, error)
	List(ctx context.Context, predicates []querying.Predicate, sortColumn string, sortDesc bool, page pagination.Params) ([]entity.Opinion, int64, error)
	Update(ctx context.Context, opinion *entity.Opinion, actions ...txn.Action) error
	Delete(ctx context.Context, id, beerID uuid.UUID, actions ...txn.Action) error
}

// BeerRepository - shadow-копии пива, пишутся только консюмером beer_events
type BeerRepository interface {
	CreateIfAbsent(ctx context.Context, beer *entity.Beer) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Beer, error)
	Update(ctx context.Context, id uuid.UUID, name string, breweryID uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID, actions ...txn.Action) error
	DeleteByBreweryID(ctx context.Context, breweryID uuid.UUID, actions ...txn.Action) error
}

// UserRepository - shadow-копии пользователей, удаление мягкое
type UserRepository interface {
	CreateIfAbsent(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	UpdateUsername(ctx context.Context, id uuid.UUID, username string) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
}
