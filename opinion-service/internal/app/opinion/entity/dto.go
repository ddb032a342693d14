package entity

import (
	"time"

	"github.com/google/uuid"
)

// CreateOpinionRequest - запрос на создание мнения
// Принимается и как JSON, и как multipart форма с опциональной картинкой
type CreateOpinionRequest struct {
	BeerID  string `json:"beer_id" form:"beerId" validate:"required,uuid"`
	Rating  int    `json:"rating" form:"rating" validate:"required,gte=1,lte=10"`
	Comment string `json:"comment" form:"comment" validate:"omitempty,max=1000"`
}

// UpdateOpinionRequest - запрос на обновление мнения
type UpdateOpinionRequest struct {
	Rating  int    `json:"rating" form:"rating" validate:"required,gte=1,lte=10"`
	Comment string `json:"comment" form:"comment" validate:"omitempty,max=1000"`
}

// ListOpinionsRequest - фильтры списка мнений
type ListOpinionsRequest struct {
	BeerID        string `form:"beerId" validate:"omitempty,uuid"`
	UserID        string `form:"userId" validate:"omitempty,uuid"`
	SearchQuery   string `form:"searchQuery" validate:"omitempty,max=200"`
	SortBy        string `form:"sortBy" validate:"omitempty,max=50"`
	SortDirection string `form:"sortDirection" validate:"omitempty,oneof=asc desc"`
}

// OpinionResponse - мнение с именами пользователя и пива
type OpinionResponse struct {
	ID        uuid.UUID `json:"id"`
	BeerID    uuid.UUID `json:"beer_id"`
	BeerName  string    `json:"beer_name,omitempty"`
	UserID    uuid.UUID `json:"user_id"`
	Username  string    `json:"username,omitempty"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	ImageURI  string    `json:"image_uri,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewOpinionResponse собирает ответ из мнения и shadow-копий
func NewOpinionResponse(opinion *Opinion, beer *Beer, user *User) OpinionResponse {
	resp := OpinionResponse{
		ID:        opinion.ID,
		BeerID:    opinion.BeerID,
		UserID:    opinion.UserID,
		Rating:    opinion.Rating,
		Comment:   opinion.Comment,
		ImageURI:  opinion.ImageURI,
		CreatedAt: opinion.CreatedAt,
		UpdatedAt: opinion.UpdatedAt,
	}
	if beer != nil {
		resp.BeerName = beer.Name
	}
	if user != nil {
		resp.Username = user.Username
	}
	return resp
}
