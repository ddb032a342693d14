package handler

import (
	"errors"
	"net/http"

	"hoppyhub/beer-service/internal/app/beer/entity"
	infrahttp "hoppyhub/beer-service/internal/app/beer/infrastructure/http"
	"hoppyhub/beer-service/internal/app/beer/service"
	"hoppyhub/pkg/pagination"
	"hoppyhub/pkg/querying"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// Максимальный размер загружаемой картинки
const maxImageSize = 5 << 20

// BeerHandler обрабатывает HTTP запросы пива
type BeerHandler struct {
	beerService *service.BeerService
	validator   *validator.Validate
}

// NewBeerHandler создает новый обработчик пива
func NewBeerHandler(beerService *service.BeerService) *BeerHandler {
	return &BeerHandler{
		beerService: beerService,
		validator:   validator.New(),
	}
}

// CreateBeer обрабатывает POST /beers
func (h *BeerHandler) CreateBeer(c *gin.Context) {
	identity, ok := GetIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req entity.CreateBeerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := h.validator.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": formatValidationError(err)})
		return
	}

	beer, err := h.beerService.CreateBeer(c.Request.Context(), identity.Role, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		case errors.Is(err, service.ErrBreweryNotFound):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Brewery does not exist"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create beer"})
		}
		return
	}

	c.JSON(http.StatusCreated, entity.NewBeerResponse(beer, nil))
}

// GetBeer обрабатывает GET /beers/{id}
func (h *BeerHandler) GetBeer(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid beer ID"})
		return
	}

	beer, image, err := h.beerService.GetBeer(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrBeerNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Beer not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get beer"})
		return
	}

	c.JSON(http.StatusOK, entity.NewBeerResponse(beer, image))
}

// ListBeers обрабатывает GET /beers
func (h *BeerHandler) ListBeers(c *gin.Context) {
	var req entity.ListBeersRequest
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

	beers, total, err := h.beerService.ListBeers(c.Request.Context(), &req, page)
	if err != nil {
		if errors.Is(err, querying.ErrUnknownSortKey) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown sortBy value"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list beers"})
		return
	}

	responses := make([]entity.BeerResponse, 0, len(beers))
	for i := range beers {
		responses = append(responses, entity.NewBeerResponse(&beers[i], nil))
	}

	pagination.SetHeader(c, pagination.NewMetadata(total, page))
	c.JSON(http.StatusOK, responses)
}

// UpdateBeer обрабатывает PUT /beers/{id}
func (h *BeerHandler) UpdateBeer(c *gin.Context) {
	identity, ok := GetIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid beer ID"})
		return
	}

	var req entity.UpdateBeerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := h.validator.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": formatValidationError(err)})
		return
	}

	beer, err := h.beerService.UpdateBeer(c.Request.Context(), identity.Role, id, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		case errors.Is(err, service.ErrBeerNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Beer not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update beer"})
		}
		return
	}

	c.JSON(http.StatusOK, entity.NewBeerResponse(beer, nil))
}

// DeleteBeer обрабатывает DELETE /beers/{id}
func (h *BeerHandler) DeleteBeer(c *gin.Context) {
	identity, ok := GetIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid beer ID"})
		return
	}

	if err := h.beerService.DeleteBeer(c.Request.Context(), identity.Role, id); err != nil {
		switch {
		case errors.Is(err, service.ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		case errors.Is(err, service.ErrBeerNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Beer not found"})
		case isRemoteServiceError(err):
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Image service unavailable"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete beer"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Beer deleted"})
}

// UploadBeerImage обрабатывает POST /beers/{id}/image (multipart form, поле file)
func (h *BeerHandler) UploadBeerImage(c *gin.Context) {
	identity, ok := GetIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid beer ID"})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Image file required"})
		return
	}
	if fileHeader.Size > maxImageSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Image file too large"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read image file"})
		return
	}
	defer file.Close()

	image, err := h.beerService.UploadBeerImage(c.Request.Context(), identity.Role, id, fileHeader.Filename, file)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		case errors.Is(err, service.ErrBeerNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Beer not found"})
		case isRemoteServiceError(err):
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Image service unavailable"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload beer image"})
		}
		return
	}

	c.JSON(http.StatusCreated, image)
}

// DeleteBeerImage обрабатывает DELETE /beers/{id}/image
func (h *BeerHandler) DeleteBeerImage(c *gin.Context) {
	identity, ok := GetIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid beer ID"})
		return
	}

	if err := h.beerService.DeleteBeerImage(c.Request.Context(), identity.Role, id); err != nil {
		switch {
		case errors.Is(err, service.ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		case errors.Is(err, service.ErrBeerNotFound), errors.Is(err, service.ErrImageNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Beer image not found"})
		case errors.Is(err, service.ErrImageDeleted):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Beer image is already deleted"})
		case isRemoteServiceError(err):
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Image service unavailable"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete beer image"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Beer image deleted"})
}

// isRemoteServiceError - отказ синхронного вызова image-service
func isRemoteServiceError(err error) bool {
	return errors.Is(err, infrahttp.ErrRemoteService)
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
