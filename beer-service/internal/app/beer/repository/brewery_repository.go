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

const serviceName = "beer-service"

type breweryRepository struct {
	db *gorm.DB
}

// NewBreweryRepository создает новый репозиторий пивоварен
func NewBreweryRepository(db *gorm.DB) BreweryRepository {
	return &breweryRepository{db: db}
}

func (r *breweryRepository) Create(ctx context.Context, brewery *entity.Brewery) error {
	return r.db.WithContext(ctx).Create(brewery).Error
}

func (r *breweryRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Brewery, error) {
	var brewery entity.Brewery
	result := r.db.WithContext(ctx).First(&brewery, "id = ?", id)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrBreweryNotFound
		}
		return nil, result.Error
	}

	return &brewery, nil
}

// GetAll возвращает все пивоварни (источник для Redis кеша)
func (r *breweryRepository) GetAll(ctx context.Context) ([]entity.Brewery, error) {
	var breweries []entity.Brewery
	if err := r.db.WithContext(ctx).Order("name").Find(&breweries).Error; err != nil {
		return nil, err
	}
	return breweries, nil
}

// List возвращает страницу пивоварен по фильтрам
// Состав выборки: фильтры -> сортировка -> пагинация
func (r *breweryRepository) List(ctx context.Context, predicates []querying.Predicate, sortColumn string, sortDesc bool, page pagination.Params) ([]entity.Brewery, int64, error) {
	var total int64
	countQuery := querying.Apply(r.db.WithContext(ctx).Model(&entity.Brewery{}), predicates)
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var breweries []entity.Brewery
	query := querying.Apply(r.db.WithContext(ctx).Model(&entity.Brewery{}), predicates)
	query = querying.Sort(sortColumn, sortDesc)(query)
	err := query.Scopes(pagination.Scope(page)).Find(&breweries).Error
	if err != nil {
		return nil, 0, err
	}

	return breweries, total, nil
}

func (r *breweryRepository) Update(ctx context.Context, brewery *entity.Brewery) error {
	result := r.db.WithContext(ctx).Model(brewery).
		Where("id = ?", brewery.ID).
		Updates(map[string]interface{}{
			"name":              brewery.Name,
			"foundation_year":   brewery.FoundationYear,
			"country_of_origin": brewery.CountryOfOrigin,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrBreweryNotFound
	}
	return nil
}

// Delete каскадно удаляет пивоварню, ее пиво и картинки одной транзакцией
// вместе с событием BREWERY_DELETED. Дополнительные actions (очистка блобов)
// выполняются в той же транзакции: их ошибка откатывает каскад.
// Shadow-копии в opinion/favorite сервисах чистятся консюмерами события
func (r *breweryRepository) Delete(ctx context.Context, id uuid.UUID, event events.Event, actions ...txn.Action) error {
	all := []txn.Action{
		func(ctx context.Context, tx *gorm.DB) error {
			return tx.Where("beer_id IN (?)",
				tx.Session(&gorm.Session{NewDB: true}).
					Model(&entity.Beer{}).
					Select("id").
					Where("brewery_id = ?", id),
			).Delete(&entity.BeerImage{}).Error
		},
		func(ctx context.Context, tx *gorm.DB) error {
			return tx.Delete(&entity.Beer{}, "brewery_id = ?", id).Error
		},
	}
	all = append(all, actions...)
	all = append(all, func(ctx context.Context, tx *gorm.DB) error {
		return outbox.Enqueue(tx, serviceName, event)
	})

	return txn.Run(ctx, r.db,
		func(tx *gorm.DB) error {
			result := tx.Delete(&entity.Brewery{}, "id = ?", id)
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return ErrBreweryNotFound
			}
			return nil
		},
		all...,
	)
}
