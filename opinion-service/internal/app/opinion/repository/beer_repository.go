package repository

import (
	"context"
	"errors"

	"hoppyhub/opinion-service/internal/app/opinion/entity"
	"hoppyhub/pkg/txn"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type beerRepository struct {
	db *gorm.DB
}

// NewBeerRepository создает репозиторий shadow-копий пива
func NewBeerRepository(db *gorm.DB) BeerRepository {
	return &beerRepository{db: db}
}

// CreateIfAbsent вставляет shadow-копию, молча пропуская дубликат:
// BEER_CREATED может быть доставлен повторно
func (r *beerRepository) CreateIfAbsent(ctx context.Context, beer *entity.Beer) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoNothing: true,
	}).Create(beer).Error
}

func (r *beerRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Beer, error) {
	var beer entity.Beer
	result := r.db.WithContext(ctx).First(&beer, "id = ?", id)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrBeerNotFound
		}
		return nil, result.Error
	}

	return &beer, nil
}

// Update освежает имя и пивоварню shadow-копии из события
// Пивоварня пишется тоже: от нее зависят префиксы блобов, и разошедшаяся
// копия должна сойтись при первом же обновлении.
// Ноль затронутых строк - норма: пиво могло быть уже удалено
func (r *beerRepository) Update(ctx context.Context, id uuid.UUID, name string, breweryID uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&entity.Beer{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"name":       name,
			"brewery_id": breweryID,
		}).Error
}

// Delete удаляет shadow-копию вместе с ее мнениями одной транзакцией
// Отсутствие строки - норма (сервисы уже сошлись). Дополнительные actions
// (очистка блобов мнений) идут той же транзакцией
func (r *beerRepository) Delete(ctx context.Context, id uuid.UUID, actions ...txn.Action) error {
	all := []txn.Action{
		func(ctx context.Context, tx *gorm.DB) error {
			return tx.Delete(&entity.Opinion{}, "beer_id = ?", id).Error
		},
	}
	all = append(all, actions...)

	return txn.Run(ctx, r.db,
		func(tx *gorm.DB) error {
			return tx.Delete(&entity.Beer{}, "id = ?", id).Error
		},
		all...,
	)
}

// DeleteByBreweryID удаляет все shadow-копии пивоварни с их мнениями
// Батч по brewery_id, ноль совпадений - норма
func (r *beerRepository) DeleteByBreweryID(ctx context.Context, breweryID uuid.UUID, actions ...txn.Action) error {
	all := append([]txn.Action{}, actions...)
	all = append(all, func(ctx context.Context, tx *gorm.DB) error {
		return tx.Delete(&entity.Beer{}, "brewery_id = ?", breweryID).Error
	})

	return txn.Run(ctx, r.db,
		func(tx *gorm.DB) error {
			// Сначала мнения по подзапросу, пока shadow-копии еще на месте
			return tx.Where("beer_id IN (?)",
				tx.Session(&gorm.Session{NewDB: true}).
					Model(&entity.Beer{}).
					Select("id").
					Where("brewery_id = ?", breweryID),
			).Delete(&entity.Opinion{}).Error
		},
		all...,
	)
}
