package repository

import (
	"context"
	"time"

	"hoppyhub/favorite-service/internal/app/favorite/entity"
	"hoppyhub/pkg/events"
	"hoppyhub/pkg/outbox"
	"hoppyhub/pkg/pagination"
	"hoppyhub/pkg/querying"
	"hoppyhub/pkg/txn"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const serviceName = "favorite-service"

type favoriteRepository struct {
	db *gorm.DB
}

// NewFavoriteRepository создает новый репозиторий избранного
func NewFavoriteRepository(db *gorm.DB) FavoriteRepository {
	return &favoriteRepository{db: db}
}

// Create добавляет отметку, пересчитывает счетчик пива и записывает
// BEER_FAVORITES_COUNT_CHANGED в outbox одной транзакцией
// Дубликат пары пользователь-пиво откатывает транзакцию без события
func (r *favoriteRepository) Create(ctx context.Context, favorite *entity.Favorite) error {
	return txn.Run(ctx, r.db,
		func(tx *gorm.DB) error {
			result := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "user_id"}, {Name: "beer_id"}},
				DoNothing: true,
			}).Create(favorite)
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return ErrAlreadyFavorite
			}
			return nil
		},
		recomputeAndEnqueue(favorite.BeerID),
	)
}

// Delete снимает отметку и пересчитывает счетчик пива одной транзакцией
func (r *favoriteRepository) Delete(ctx context.Context, userID, beerID uuid.UUID) error {
	return txn.Run(ctx, r.db,
		func(tx *gorm.DB) error {
			result := tx.Delete(&entity.Favorite{}, "user_id = ? AND beer_id = ?", userID, beerID)
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return ErrFavoriteNotFound
			}
			return nil
		},
		recomputeAndEnqueue(beerID),
	)
}

// List возвращает страницу избранного по фильтрам
func (r *favoriteRepository) List(ctx context.Context, predicates []querying.Predicate, sortColumn string, sortDesc bool, page pagination.Params) ([]entity.Favorite, int64, error) {
	var total int64
	countQuery := querying.Apply(r.db.WithContext(ctx).Model(&entity.Favorite{}), predicates)
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var favorites []entity.Favorite
	query := querying.Apply(r.db.WithContext(ctx).Model(&entity.Favorite{}), predicates)
	query = querying.Sort(sortColumn, sortDesc)(query)
	err := query.Scopes(pagination.Scope(page)).Find(&favorites).Error
	if err != nil {
		return nil, 0, err
	}

	return favorites, total, nil
}

// recomputeAndEnqueue пересчитывает количество избранного пива после мутации
// и кладет событие в outbox. Версия события - момент пересчета в наносекундах
func recomputeAndEnqueue(beerID uuid.UUID) txn.Action {
	return func(ctx context.Context, tx *gorm.DB) error {
		var count int64
		err := tx.Model(&entity.Favorite{}).
			Where("beer_id = ?", beerID).
			Count(&count).Error
		if err != nil {
			return err
		}

		event := events.NewBeerFavoritesCountChanged(beerID, count, time.Now().UnixNano())
		return outbox.Enqueue(tx, serviceName, event)
	}
}
