package entity

// RegisterRequest - запрос на регистрацию пользователя
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=256"`
	Email    string `json:"email" validate:"required,email,max=256"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

// LoginRequest - запрос на вход
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UpdateUserRequest - запрос на смену username
type UpdateUserRequest struct {
	Username string `json:"username" validate:"required,min=3,max=256"`
}

// ListUsersRequest - параметры выборки списка пользователей
// Порядок фильтров значим: точные совпадения первыми, поиск последним
type ListUsersRequest struct {
	Role          string `form:"role"`
	SearchQuery   string `form:"searchQuery"`
	SortBy        string `form:"sortBy"`
	SortDirection string `form:"sortDirection" validate:"omitempty,oneof=asc desc"`
}

// UserResponse - публичное представление пользователя
type UserResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

// TokenResponse - ответ на успешный вход
type TokenResponse struct {
	AccessToken string       `json:"access_token"`
	User        UserResponse `json:"user"`
}

// NewUserResponse строит публичное представление из модели
func NewUserResponse(u *User) UserResponse {
	return UserResponse{
		ID:       u.ID.String(),
		Username: u.Username,
		Email:    u.Email,
		Role:     u.Role,
	}
}
