package repository

import (
	"context"
	"database/sql"
	"errors"
	"math"
	"time"

	"hoppyhub/opinion-service/internal/app/opinion/entity"
	"hoppyhub/pkg/events"
	"hoppyhub/pkg/outbox"
	"hoppyhub/pkg/pagination"
	"hoppyhub/pkg/querying"
	"hoppyhub/pkg/txn"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const serviceName = "opinion-service"

type opinionRepository struct {
	db *gorm.DB
}

// NewOpinionRepository создает новый репозиторий мнений
func NewOpinionRepository(db *gorm.DB) OpinionRepository {
	return &opinionRepository{db: db}
}

// Create создает мнение, пересчитывает агрегаты пива и записывает
// BEER_OPINION_CHANGED в outbox одной транзакцией
func (r *opinionRepository) Create(ctx context.Context, opinion *entity.Opinion, actions ...txn.Action) error {
	all := append([]txn.Action{}, actions...)
	all = append(all, recomputeAndEnqueue(opinion.BeerID))

	return txn.Run(ctx, r.db,
		func(tx *gorm.DB) error {
			return tx.Create(opinion).Error
		},
		all...,
	)
}

func (r *opinionRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Opinion, error) {
	var opinion entity.Opinion
	result := r.db.WithContext(ctx).First(&opinion, "id = ?", id)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrOpinionNotFound
		}
		return nil, result.Error
	}

	return &opinion, nil
}

// List возвращает страницу мнений по фильтрам
// Состав выборки: фильтры -> сортировка -> пагинация
func (r *opinionRepository) List(ctx context.Context, predicates []querying.Predicate, sortColumn string, sortDesc bool, page pagination.Params) ([]entity.Opinion, int64, error) {
	var total int64
	countQuery := querying.Apply(r.db.WithContext(ctx).Model(&entity.Opinion{}), predicates)
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var opinions []entity.Opinion
	query := querying.Apply(r.db.WithContext(ctx).Model(&entity.Opinion{}), predicates)
	query = querying.Sort(sortColumn, sortDesc)(query)
	err := query.Scopes(pagination.Scope(page)).Find(&opinions).Error
	if err != nil {
		return nil, 0, err
	}

	return opinions, total, nil
}

// Update обновляет мнение и пересчитывает агрегаты пива одной транзакцией
func (r *opinionRepository) Update(ctx context.Context, opinion *entity.Opinion, actions ...txn.Action) error {
	all := append([]txn.Action{}, actions...)
	all = append(all, recomputeAndEnqueue(opinion.BeerID))

	return txn.Run(ctx, r.db,
		func(tx *gorm.DB) error {
			result := tx.Model(&entity.Opinion{}).
				Where("id = ?", opinion.ID).
				Updates(map[string]interface{}{
					"rating":    opinion.Rating,
					"comment":   opinion.Comment,
					"image_uri": opinion.ImageURI,
				})
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return ErrOpinionNotFound
			}
			return nil
		},
		all...,
	)
}

// Delete удаляет мнение и пересчитывает агрегаты пива одной транзакцией
// Дополнительные actions (удаление блоба картинки) идут той же транзакцией
func (r *opinionRepository) Delete(ctx context.Context, id, beerID uuid.UUID, actions ...txn.Action) error {
	all := append([]txn.Action{}, actions...)
	all = append(all, recomputeAndEnqueue(beerID))

	return txn.Run(ctx, r.db,
		func(tx *gorm.DB) error {
			result := tx.Delete(&entity.Opinion{}, "id = ?", id)
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return ErrOpinionNotFound
			}
			return nil
		},
		all...,
	)
}

// recomputeAndEnqueue пересчитывает агрегаты пива из локальных строк после
// мутации и кладет событие в outbox. Пустое множество мнений дает count 0
// и рейтинг 0. Версия события - момент пересчета в наносекундах:
// перезапись на consume-стороне защищена от устаревших событий
func recomputeAndEnqueue(beerID uuid.UUID) txn.Action {
	return func(ctx context.Context, tx *gorm.DB) error {
		var stats struct {
			Count  int64
			Rating sql.NullFloat64
		}

		err := tx.Model(&entity.Opinion{}).
			Select("COUNT(*) AS count, AVG(rating) AS rating").
			Where("beer_id = ?", beerID).
			Scan(&stats).Error
		if err != nil {
			return err
		}

		rating := 0.0
		if stats.Rating.Valid {
			rating = math.Round(stats.Rating.Float64*100) / 100
		}

		event := events.NewBeerOpinionChanged(beerID, stats.Count, rating, time.Now().UnixNano())
		return outbox.Enqueue(tx, serviceName, event)
	}
}
