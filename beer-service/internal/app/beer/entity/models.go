package entity

import (
	"time"

	"github.com/google/uuid"
)

// Brewery представляет пивоварню
type Brewery struct {
	ID              uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Name            string    `json:"name" gorm:"size:200;not null;uniqueIndex"`
	FoundationYear  int       `json:"foundation_year"`
	CountryOfOrigin string    `json:"country_of_origin" gorm:"size:100"`
	CreatedAt       time.Time `json:"created_at"`
}

// Beer представляет пиво. Поля OpinionsCount, Rating и FavoritesCount
// производные: они перезаписываются абсолютными значениями из событий
// opinion/favorite сервисов, прямые записи через API запрещены.
// *Version хранит версию последнего примененного события, устаревшие
// события отбрасываются.
type Beer struct {
	ID               uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Name             string    `json:"name" gorm:"size:200;not null"`
	Description      string    `json:"description" gorm:"size:2000"`
	AlcoholByVolume  float64   `json:"alcohol_by_volume"`
	Ibu              int       `json:"ibu"`
	BreweryID        uuid.UUID `json:"brewery_id" gorm:"type:uuid;not null;index"`
	Brewery          *Brewery  `json:"brewery,omitempty" gorm:"foreignKey:BreweryID"`
	OpinionsCount    int64     `json:"opinions_count" gorm:"not null;default:0"`
	Rating           float64   `json:"rating" gorm:"not null;default:0"`
	FavoritesCount   int64     `json:"favorites_count" gorm:"not null;default:0"`
	OpinionsVersion  int64     `json:"-" gorm:"not null;default:0"`
	FavoritesVersion int64     `json:"-" gorm:"not null;default:0"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// BeerImage - картинка пива, строго один-к-одному с Beer.
// Удаление картинки не удаляет строку: URI сбрасывается на заглушку
// и ставится TempImage, чтобы сохранить инвариант один-к-одному.
type BeerImage struct {
	BeerID    uuid.UUID `json:"beer_id" gorm:"type:uuid;primaryKey"`
	URI       string    `json:"uri" gorm:"size:500;not null"`
	TempImage bool      `json:"temp_image" gorm:"not null;default:true"`
	UpdatedAt time.Time `json:"updated_at"`
}
