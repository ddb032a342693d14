package repository

import (
	"context"
	"errors"

	"hoppyhub/opinion-service/internal/app/opinion/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository создает репозиторий shadow-копий пользователей
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// CreateIfAbsent вставляет shadow-копию, молча пропуская дубликат:
// USER_CREATED может быть доставлен повторно
func (r *userRepository) CreateIfAbsent(ctx context.Context, user *entity.User) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoNothing: true,
	}).Create(user).Error
}

// GetByID возвращает пользователя, включая мягко удаленных:
// имя автора нужно и для мнений удаленных пользователей
func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	var user entity.User
	result := r.db.WithContext(ctx).Unscoped().First(&user, "id = ?", id)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, result.Error
	}

	return &user, nil
}

// UpdateUsername обновляет имя shadow-копии, ноль строк - норма
func (r *userRepository) UpdateUsername(ctx context.Context, id uuid.UUID, username string) error {
	return r.db.WithContext(ctx).Model(&entity.User{}).
		Where("id = ?", id).
		Update("username", username).Error
}

// SoftDelete мягко удаляет shadow-копию: мнения пользователя остаются,
// повторная доставка события безвредна
func (r *userRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.User{}, "id = ?", id).Error
}
