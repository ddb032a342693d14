package entity

import (
	"time"

	"github.com/google/uuid"
)

// Favorite - отметка "избранное", уникальная пара пользователь-пиво
type Favorite struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_favorites_user_beer"`
	BeerID    uuid.UUID `json:"beer_id" gorm:"type:uuid;not null;uniqueIndex:idx_favorites_user_beer;index"`
	CreatedAt time.Time `json:"created_at"`
}

// Beer - shadow-копия пива из beer-service
// Поддерживается консюмером beer_events, прямые записи через API запрещены
type Beer struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Name      string    `json:"name" gorm:"size:200;not null"`
	BreweryID uuid.UUID `json:"brewery_id" gorm:"type:uuid;not null;index"`
}

// User - shadow-копия пользователя из user-service
// В отличие от opinion-service удаление жесткое: избранное удаленного
// пользователя не имеет смысла и каскадно чистится с пересчетом счетчиков
type User struct {
	ID       uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Username string    `json:"username" gorm:"size:256;not null"`
}
