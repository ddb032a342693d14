package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Opinion - мнение пользователя о пиве, единственная авторитетная
// сущность сервиса
type Opinion struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	BeerID    uuid.UUID `json:"beer_id" gorm:"type:uuid;not null;index"`
	UserID    uuid.UUID `json:"user_id" gorm:"type:uuid;not null;index"`
	Rating    int       `json:"rating" gorm:"not null"`
	Comment   string    `json:"comment" gorm:"size:1000"`
	ImageURI  string    `json:"image_uri" gorm:"size:500"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Beer - shadow-копия пива из beer-service
// Поддерживается консюмером beer_events, прямые записи через API запрещены.
// BreweryID нужен для сборки путей блобов картинок мнений
type Beer struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Name      string    `json:"name" gorm:"size:200;not null"`
	BreweryID uuid.UUID `json:"brewery_id" gorm:"type:uuid;not null;index"`
}

// User - shadow-копия пользователя из user-service
// Удаление мягкое: мнения удаленного пользователя остаются видимыми
type User struct {
	ID        uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	Username  string         `json:"username" gorm:"size:256;not null"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}
