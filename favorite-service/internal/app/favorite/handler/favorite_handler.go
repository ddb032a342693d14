package handler

import (
	"errors"
	"net/http"

	"hoppyhub/favorite-service/internal/app/favorite/entity"
	"hoppyhub/favorite-service/internal/app/favorite/service"
	"hoppyhub/pkg/pagination"
	"hoppyhub/pkg/querying"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// FavoriteHandler обрабатывает HTTP запросы избранного
type FavoriteHandler struct {
	favoriteService *service.FavoriteService
	validator       *validator.Validate
}

// NewFavoriteHandler создает новый обработчик избранного
func NewFavoriteHandler(favoriteService *service.FavoriteService) *FavoriteHandler {
	return &FavoriteHandler{
		favoriteService: favoriteService,
		validator:       validator.New(),
	}
}

// AddFavorite обрабатывает POST /favorites
func (h *FavoriteHandler) AddFavorite(c *gin.Context) {
	identity, ok := GetIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req entity.AddFavoriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := h.validator.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": formatValidationError(err)})
		return
	}

	favorite, err := h.favoriteService.AddFavorite(c.Request.Context(), identity.UserID, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrBeerNotFound):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Beer does not exist"})
		case errors.Is(err, service.ErrAlreadyFavorite):
			c.JSON(http.StatusConflict, gin.H{"error": "Beer is already in favorites"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add favorite"})
		}
		return
	}

	c.JSON(http.StatusCreated, entity.NewFavoriteResponse(favorite, nil))
}

// RemoveFavorite обрабатывает DELETE /favorites/{beerId}
func (h *FavoriteHandler) RemoveFavorite(c *gin.Context) {
	identity, ok := GetIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	beerID, err := uuid.Parse(c.Param("beerId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid beer ID"})
		return
	}

	if err := h.favoriteService.RemoveFavorite(c.Request.Context(), identity.UserID, beerID); err != nil {
		if errors.Is(err, service.ErrFavoriteNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Favorite not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove favorite"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Favorite removed"})
}

// ListFavorites обрабатывает GET /favorites
func (h *FavoriteHandler) ListFavorites(c *gin.Context) {
	var req entity.ListFavoritesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}

	if err := h.validator.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": formatValidationError(err)})
		return
	}

	var page pagination.Params
	if err := c.ShouldBindQuery(&page); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid pagination parameters"})
		return
	}
	page = page.Normalize()

	favorites, total, err := h.favoriteService.ListFavorites(c.Request.Context(), &req, page)
	if err != nil {
		if errors.Is(err, querying.ErrUnknownSortKey) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown sortBy value"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list favorites"})
		return
	}

	responses := make([]entity.FavoriteResponse, 0, len(favorites))
	for i := range favorites {
		responses = append(responses, entity.NewFavoriteResponse(&favorites[i], nil))
	}

	pagination.SetHeader(c, pagination.NewMetadata(total, page))
	c.JSON(http.StatusOK, responses)
}

// formatValidationError превращает ошибки валидации в map поле -> сообщения
func formatValidationError(err error) map[string][]string {
	result := make(map[string][]string)

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		for _, fieldErr := range validationErrors {
			field := fieldErr.Field()
			result[field] = append(result[field], "failed on rule: "+fieldErr.Tag())
		}
		return result
	}

	result["request"] = []string{err.Error()}
	return result
}
