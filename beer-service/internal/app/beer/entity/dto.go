package entity

import (
	"time"

	"github.com/google/uuid"
)

// CreateBreweryRequest - запрос на создание пивоварни
type CreateBreweryRequest struct {
	Name            string `json:"name" validate:"required,max=200"`
	FoundationYear  int    `json:"foundation_year" validate:"omitempty,gte=1000,lte=2100"`
	CountryOfOrigin string `json:"country_of_origin" validate:"omitempty,max=100"`
}

// UpdateBreweryRequest - запрос на обновление пивоварни
type UpdateBreweryRequest struct {
	Name            string `json:"name" validate:"required,max=200"`
	FoundationYear  int    `json:"foundation_year" validate:"omitempty,gte=1000,lte=2100"`
	CountryOfOrigin string `json:"country_of_origin" validate:"omitempty,max=100"`
}

// CreateBeerRequest - запрос на создание пива
type CreateBeerRequest struct {
	Name            string    `json:"name" validate:"required,max=200"`
	Description     string    `json:"description" validate:"omitempty,max=2000"`
	AlcoholByVolume float64   `json:"alcohol_by_volume" validate:"gte=0,lte=100"`
	Ibu             int       `json:"ibu" validate:"gte=0,lte=200"`
	BreweryID       uuid.UUID `json:"brewery_id" validate:"required"`
}

// UpdateBeerRequest - запрос на обновление пива
// Производные поля (рейтинг, счетчики) через API не меняются
type UpdateBeerRequest struct {
	Name            string  `json:"name" validate:"required,max=200"`
	Description     string  `json:"description" validate:"omitempty,max=2000"`
	AlcoholByVolume float64 `json:"alcohol_by_volume" validate:"gte=0,lte=100"`
	Ibu             int     `json:"ibu" validate:"gte=0,lte=200"`
}

// ListBeersRequest - фильтры списка пива
type ListBeersRequest struct {
	BreweryID     string `form:"breweryId" validate:"omitempty,uuid"`
	SearchQuery   string `form:"searchQuery" validate:"omitempty,max=200"`
	SortBy        string `form:"sortBy" validate:"omitempty,max=50"`
	SortDirection string `form:"sortDirection" validate:"omitempty,oneof=asc desc"`
}

// ListBreweriesRequest - фильтры списка пивоварен
type ListBreweriesRequest struct {
	Country       string `form:"country" validate:"omitempty,max=100"`
	SearchQuery   string `form:"searchQuery" validate:"omitempty,max=200"`
	SortBy        string `form:"sortBy" validate:"omitempty,max=50"`
	SortDirection string `form:"sortDirection" validate:"omitempty,oneof=asc desc"`
}

// BeerResponse - пиво с именем пивоварни и картинкой
type BeerResponse struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	AlcoholByVolume float64   `json:"alcohol_by_volume"`
	Ibu             int       `json:"ibu"`
	BreweryID       uuid.UUID `json:"brewery_id"`
	BreweryName     string    `json:"brewery_name,omitempty"`
	OpinionsCount   int64     `json:"opinions_count"`
	Rating          float64   `json:"rating"`
	FavoritesCount  int64     `json:"favorites_count"`
	ImageURI        string    `json:"image_uri,omitempty"`
	TempImage       bool      `json:"temp_image"`
	CreatedAt       time.Time `json:"created_at"`
}

// NewBeerResponse собирает ответ из пива и его картинки
func NewBeerResponse(beer *Beer, image *BeerImage) BeerResponse {
	resp := BeerResponse{
		ID:              beer.ID,
		Name:            beer.Name,
		Description:     beer.Description,
		AlcoholByVolume: beer.AlcoholByVolume,
		Ibu:             beer.Ibu,
		BreweryID:       beer.BreweryID,
		OpinionsCount:   beer.OpinionsCount,
		Rating:          beer.Rating,
		FavoritesCount:  beer.FavoritesCount,
		CreatedAt:       beer.CreatedAt,
	}
	if beer.Brewery != nil {
		resp.BreweryName = beer.Brewery.Name
	}
	if image != nil {
		resp.ImageURI = image.URI
		resp.TempImage = image.TempImage
	}
	return resp
}
