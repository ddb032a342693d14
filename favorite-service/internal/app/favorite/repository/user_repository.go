package repository

import (
	"context"
	"time"

	"hoppyhub/favorite-service/internal/app/favorite/entity"
	"hoppyhub/pkg/events"
	"hoppyhub/pkg/outbox"
	"hoppyhub/pkg/txn"

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

// UpdateUsername обновляет имя shadow-копии, ноль строк - норма
func (r *userRepository) UpdateUsername(ctx context.Context, id uuid.UUID, username string) error {
	return r.db.WithContext(ctx).Model(&entity.User{}).
		Where("id = ?", id).
		Update("username", username).Error
}

// Delete жестко удаляет shadow-копию вместе с избранным пользователя
// По каждому затронутому пиву счетчик пересчитывается и уходит в outbox
// той же транзакцией. Отсутствие строки - норма, повторная доставка
// события безвредна
func (r *userRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return txn.Run(ctx, r.db,
		func(tx *gorm.DB) error {
			return tx.Delete(&entity.User{}, "id = ?", id).Error
		},
		func(ctx context.Context, tx *gorm.DB) error {
			var beerIDs []uuid.UUID
			err := tx.Model(&entity.Favorite{}).
				Distinct("beer_id").
				Where("user_id = ?", id).
				Pluck("beer_id", &beerIDs).Error
			if err != nil {
				return err
			}

			if err := tx.Delete(&entity.Favorite{}, "user_id = ?", id).Error; err != nil {
				return err
			}

			for _, beerID := range beerIDs {
				var count int64
				err := tx.Model(&entity.Favorite{}).
					Where("beer_id = ?", beerID).
					Count(&count).Error
				if err != nil {
					return err
				}

				event := events.NewBeerFavoritesCountChanged(beerID, count, time.Now().UnixNano())
				if err := outbox.Enqueue(tx, serviceName, event); err != nil {
					return err
				}
			}
			return nil
		},
	)
}
