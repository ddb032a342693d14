package repository

import (
	"context"
	"errors"

	"hoppyhub/beer-service/internal/app/beer/entity"
	"hoppyhub/pkg/events"
	"hoppyhub/pkg/outbox"
	"hoppyhub/pkg/pagination"
	"hoppyhub/pkg/querying"
	"hoppyhub/pkg/txn"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type beerRepository struct {
	db *gorm.DB
}

// NewBeerRepository создает новый репозиторий пива
func NewBeerRepository(db *gorm.DB) BeerRepository {
	return &beerRepository{db: db}
}

// Create создает пиво и записывает событие в outbox одной транзакцией
// Дополнительные actions (строка-заглушка картинки) идут той же транзакцией
func (r *beerRepository) Create(ctx context.Context, beer *entity.Beer, event events.Event, actions ...txn.Action) error {
	all := append([]txn.Action{}, actions...)
	all = append(all, func(ctx context.Context, tx *gorm.DB) error {
		return outbox.Enqueue(tx, serviceName, event)
	})

	return txn.Run(ctx, r.db,
		func(tx *gorm.DB) error {
			return tx.Create(beer).Error
		},
		all...,
	)
}

func (r *beerRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Beer, error) {
	var beer entity.Beer
	result := r.db.WithContext(ctx).Preload("Brewery").First(&beer, "id = ?", id)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrBeerNotFound
		}
		return nil, result.Error
	}

	return &beer, nil
}

func (r *beerRepository) GetByBreweryID(ctx context.Context, breweryID uuid.UUID) ([]entity.Beer, error) {
	var beers []entity.Beer
	if err := r.db.WithContext(ctx).Find(&beers, "brewery_id = ?", breweryID).Error; err != nil {
		return nil, err
	}
	return beers, nil
}

// List возвращает страницу пива по фильтрам
// Состав выборки: фильтры -> сортировка -> пагинация
func (r *beerRepository) List(ctx context.Context, predicates []querying.Predicate, sortColumn string, sortDesc bool, page pagination.Params) ([]entity.Beer, int64, error) {
	var total int64
	countQuery := querying.Apply(r.db.WithContext(ctx).Model(&entity.Beer{}), predicates)
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var beers []entity.Beer
	query := querying.Apply(r.db.WithContext(ctx).Model(&entity.Beer{}).Preload("Brewery"), predicates)
	query = querying.Sort(sortColumn, sortDesc)(query)
	err := query.Scopes(pagination.Scope(page)).Find(&beers).Error
	if err != nil {
		return nil, 0, err
	}

	return beers, total, nil
}

// Update обновляет собственные поля пива и записывает событие одной транзакцией
// Производные поля (счетчики, рейтинг) здесь не трогаются
func (r *beerRepository) Update(ctx context.Context, beer *entity.Beer, event events.Event) error {
	return txn.Run(ctx, r.db,
		func(tx *gorm.DB) error {
			result := tx.Model(&entity.Beer{}).
				Where("id = ?", beer.ID).
				Updates(map[string]interface{}{
					"name":              beer.Name,
					"description":       beer.Description,
					"alcohol_by_volume": beer.AlcoholByVolume,
					"ibu":               beer.Ibu,
				})
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return ErrBeerNotFound
			}
			return nil
		},
		func(ctx context.Context, tx *gorm.DB) error {
			return outbox.Enqueue(tx, serviceName, event)
		},
	)
}

// Delete удаляет пиво вместе с картинкой и записывает событие одной транзакцией
// Дополнительные actions (очистка блобов) выполняются в той же транзакции:
// их ошибка откатывает удаление
func (r *beerRepository) Delete(ctx context.Context, id uuid.UUID, event events.Event, actions ...txn.Action) error {
	all := []txn.Action{
		func(ctx context.Context, tx *gorm.DB) error {
			return tx.Delete(&entity.BeerImage{}, "beer_id = ?", id).Error
		},
	}
	all = append(all, actions...)
	all = append(all, func(ctx context.Context, tx *gorm.DB) error {
		return outbox.Enqueue(tx, serviceName, event)
	})

	return txn.Run(ctx, r.db,
		func(tx *gorm.DB) error {
			result := tx.Delete(&entity.Beer{}, "id = ?", id)
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return ErrBeerNotFound
			}
			return nil
		},
		all...,
	)
}

// ApplyOpinionStats перезаписывает производные поля мнений абсолютными
// значениями из события. Устаревшие версии не применяются (false),
// отсутствующая строка тоже возвращает false - для консюмера это норма
func (r *beerRepository) ApplyOpinionStats(ctx context.Context, beerID uuid.UUID, opinionsCount int64, rating float64, version int64) (bool, error) {
	result := r.db.WithContext(ctx).Model(&entity.Beer{}).
		Where("id = ? AND opinions_version < ?", beerID, version).
		Updates(map[string]interface{}{
			"opinions_count":   opinionsCount,
			"rating":           rating,
			"opinions_version": version,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// ApplyFavoritesCount перезаписывает счетчик избранного, см. ApplyOpinionStats
func (r *beerRepository) ApplyFavoritesCount(ctx context.Context, beerID uuid.UUID, favoritesCount int64, version int64) (bool, error) {
	result := r.db.WithContext(ctx).Model(&entity.Beer{}).
		Where("id = ? AND favorites_version < ?", beerID, version).
		Updates(map[string]interface{}{
			"favorites_count":   favoritesCount,
			"favorites_version": version,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
