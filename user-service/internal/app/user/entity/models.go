package entity

import (
	"time"

	"github.com/google/uuid"
)

// Роли пользователей платформы
const (
	RoleUser  = "User"
	RoleAdmin = "Administrator"
)

// User - авторитетная запись пользователя
// Остальные сервисы держат shadow-копии, синхронизируемые событиями user_events
type User struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Username     string    `json:"username" gorm:"size:256;not null;uniqueIndex"`
	Email        string    `json:"email" gorm:"size:256;not null;uniqueIndex"`
	PasswordHash string    `json:"-" gorm:"size:256;not null"`
	Role         string    `json:"role" gorm:"size:32;not null;default:User"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
