package repository

import (
	"context"
	"errors"
	"time"

	"hoppyhub/beer-service/internal/app/beer/entity"
	"hoppyhub/pkg/txn"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type beerImageRepository struct {
	db *gorm.DB
}

// NewBeerImageRepository создает новый репозиторий картинок пива
func NewBeerImageRepository(db *gorm.DB) BeerImageRepository {
	return &beerImageRepository{db: db}
}

func (r *beerImageRepository) GetByBeerID(ctx context.Context, beerID uuid.UUID) (*entity.BeerImage, error) {
	var image entity.BeerImage
	result := r.db.WithContext(ctx).First(&image, "beer_id = ?", beerID)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrImageNotFound
		}
		return nil, result.Error
	}

	return &image, nil
}

// Upsert вставляет или обновляет картинку, сохраняя один-к-одному с пивом
func (r *beerImageRepository) Upsert(ctx context.Context, image *entity.BeerImage) error {
	image.UpdatedAt = time.Now()
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "beer_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"uri", "temp_image", "updated_at"}),
	}).Create(image).Error
}

// ResetToTemp сбрасывает картинку на заглушку, строка не удаляется
// Дополнительные actions (удаление блоба) идут той же транзакцией:
// отказ image-service откатывает сброс, строка продолжает указывать
// на еще существующий блоб
func (r *beerImageRepository) ResetToTemp(ctx context.Context, beerID uuid.UUID, tempURI string, actions ...txn.Action) error {
	return txn.Run(ctx, r.db,
		func(tx *gorm.DB) error {
			return tx.Model(&entity.BeerImage{}).
				Where("beer_id = ?", beerID).
				Updates(map[string]interface{}{
					"uri":        tempURI,
					"temp_image": true,
					"updated_at": time.Now(),
				}).Error
		},
		actions...,
	)
}

// ResetByURI сбрасывает на заглушку все картинки с данным URI
// Ноль затронутых строк - норма: блоб мог принадлежать другому сервису
func (r *beerImageRepository) ResetByURI(ctx context.Context, uri, tempURI string) error {
	return r.db.WithContext(ctx).Model(&entity.BeerImage{}).
		Where("uri = ?", uri).
		Updates(map[string]interface{}{
			"uri":        tempURI,
			"temp_image": true,
			"updated_at": time.Now(),
		}).Error
}
