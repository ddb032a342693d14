package repository

import (
	"context"
	"errors"

	"hoppyhub/pkg/events"
	"hoppyhub/pkg/outbox"
	"hoppyhub/pkg/pagination"
	"hoppyhub/pkg/querying"
	"hoppyhub/pkg/txn"
	"hoppyhub/user-service/internal/app/user/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const serviceName = "user-service"

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository создает новый репозиторий пользователей
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// Create создает пользователя и записывает событие в outbox одной транзакцией
func (r *userRepository) Create(ctx context.Context, user *entity.User, event events.Event) error {
	return txn.Run(ctx, r.db,
		func(tx *gorm.DB) error {
			return tx.Create(user).Error
		},
		func(ctx context.Context, tx *gorm.DB) error {
			return outbox.Enqueue(tx, serviceName, event)
		},
	)
}

// GetByID получает пользователя по ID
func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	var user entity.User
	result := r.db.WithContext(ctx).First(&user, "id = ?", id)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, result.Error
	}

	return &user, nil
}

// GetByEmail получает пользователя по email (для входа)
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	var user entity.User
	result := r.db.WithContext(ctx).First(&user, "email = ?", email)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, result.Error
	}

	return &user, nil
}

// GetByUsername получает пользователя по username
func (r *userRepository) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	var user entity.User
	result := r.db.WithContext(ctx).First(&user, "username = ?", username)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, result.Error
	}

	return &user, nil
}

// Update обновляет username и записывает событие в outbox одной транзакцией
func (r *userRepository) Update(ctx context.Context, user *entity.User, event events.Event) error {
	return txn.Run(ctx, r.db,
		func(tx *gorm.DB) error {
			result := tx.Model(user).
				Where("id = ?", user.ID).
				Updates(map[string]interface{}{
					"username": user.Username,
				})
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return ErrUserNotFound
			}
			return nil
		},
		func(ctx context.Context, tx *gorm.DB) error {
			return outbox.Enqueue(tx, serviceName, event)
		},
	)
}

// Delete удаляет пользователя и записывает событие в outbox одной транзакцией
func (r *userRepository) Delete(ctx context.Context, id uuid.UUID, event events.Event) error {
	return txn.Run(ctx, r.db,
		func(tx *gorm.DB) error {
			result := tx.Delete(&entity.User{}, "id = ?", id)
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return ErrUserNotFound
			}
			return nil
		},
		func(ctx context.Context, tx *gorm.DB) error {
			return outbox.Enqueue(tx, serviceName, event)
		},
	)
}

// List возвращает страницу пользователей по фильтрам
// Состав выборки: фильтры -> сортировка -> пагинация
func (r *userRepository) List(ctx context.Context, predicates []querying.Predicate, sortColumn string, sortDesc bool, page pagination.Params) ([]entity.User, int64, error) {
	var total int64
	countQuery := querying.Apply(r.db.WithContext(ctx).Model(&entity.User{}), predicates)
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []entity.User
	query := querying.Apply(r.db.WithContext(ctx).Model(&entity.User{}), predicates)
	query = querying.Sort(sortColumn, sortDesc)(query)
	err := query.Scopes(pagination.Scope(page)).Find(&users).Error
	if err != nil {
		return nil, 0, err
	}

	return users, total, nil
}
