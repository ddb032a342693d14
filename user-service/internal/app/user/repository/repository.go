package repository

import (
	"context"
	"errors"

	"hoppyhub/pkg/events"
	"hoppyhub/pkg/pagination"
	"hoppyhub/pkg/querying"
	"hoppyhub/user-service/internal/app/user/entity"

	"github.com/google/uuid"
)

var (
	// Стандартные ошибки репозитория для обработки в service layer
	ErrUserNotFound = errors.New("user not found")
)

// UserRepository - доступ к авторитетным записям пользователей
// Мутирующие методы принимают событие: оно записывается в outbox
// в той же транзакции, что и изменение строки
type UserRepository interface {
	Create(ctx context.Context, user *entity.User, event events.Event) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
	Update(ctx context.Context, user *entity.User, event events.Event) error
	Delete(ctx context.Context, id uuid.UUID, event events.Event) error
	List(ctx context.Context, predicates []querying.Predicate, sortColumn string, sortDesc bool, page pagination.Params) ([]entity.User, int64, error)
}
