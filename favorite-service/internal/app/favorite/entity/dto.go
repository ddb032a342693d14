package entity

import (
	"time"

	"github.com/google/uuid"
)

// AddFavoriteRequest - запрос на добавление пива в избранное
type AddFavoriteRequest struct {
	BeerID string `json:"beer_id" validate:"required,uuid"`
}

// ListFavoritesRequest - фильтры списка избранного
type ListFavoritesRequest struct {
	UserID        string `form:"userId" validate:"omitempty,uuid"`
	BeerID        string `form:"beerId" validate:"omitempty,uuid"`
	SortBy        string `form:"sortBy" validate:"omitempty,max=50"`
	SortDirection string `form:"sortDirection" validate:"omitempty,oneof=asc desc"`
}

// FavoriteResponse - отметка избранного с именем пива
type FavoriteResponse struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	BeerID    uuid.UUID `json:"beer_id"`
	BeerName  string    `json:"beer_name,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// NewFavoriteResponse собирает ответ из отметки и shadow-копии пива
func NewFavoriteResponse(favorite *Favorite, beer *Beer) FavoriteResponse {
	resp := FavoriteResponse{
		ID:        favorite.ID,
		UserID:    favorite.UserID,
		BeerID:    favorite.BeerID,
		CreatedAt: favorite.CreatedAt,
	}
	if beer != nil {
		resp.BeerName = beer.Name
	}
	return resp
}
