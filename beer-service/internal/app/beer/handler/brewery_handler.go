package handler

import (
	"errors"
	"net/http"

	"hoppyhub/beer-service/internal/app/beer/entity"
	"hoppyhub/beer-service/internal/app/beer/service"
	"hoppyhub/pkg/pagination"
	"hoppyhub/pkg/querying"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// BreweryHandler обрабатывает HTTP запросы пивоварен
type BreweryHandler struct {
	breweryService *service.BreweryService
	validator      *validator.Validate
}

// NewBreweryHandler создает новый обработчик пивоварен
func NewBreweryHandler(breweryService *service.BreweryService) *BreweryHandler {
	return &BreweryHandler{
		breweryService: breweryService,
		validator:      validator.New(),
	}
}

// CreateBrewery обрабатывает POST /breweries
func (h *BreweryHandler) CreateBrewery(c *gin.Context) {
	identity, ok := GetIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req entity.CreateBreweryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := h.validator.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": formatValidationError(err)})
		return
	}

	brewery, err := h.breweryService.CreateBrewery(c.Request.Context(), identity.Role, &req)
	if err != nil {
		if errors.Is(err, service.ErrForbidden) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create brewery"})
		return
	}

	c.JSON(http.StatusCreated, brewery)
}

// GetBrewery обрабатывает GET /breweries/{id}
func (h *BreweryHandler) GetBrewery(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid brewery ID"})
		return
	}

	brewery, err := h.breweryService.GetBrewery(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrBreweryNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Brewery not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get brewery"})
		return
	}

	c.JSON(http.StatusOK, brewery)
}

// GetAllBreweries обрабатывает GET /breweries/all (кешируемый полный список)
func (h *BreweryHandler) GetAllBreweries(c *gin.Context) {
	breweries, err := h.breweryService.GetAllBreweries(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get breweries"})
		return
	}

	c.JSON(http.StatusOK, breweries)
}

// ListBreweries обрабатывает GET /breweries
func (h *BreweryHandler) ListBreweries(c *gin.Context) {
	var req entity.ListBreweriesRequest
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

	breweries, total, err := h.breweryService.ListBreweries(c.Request.Context(), &req, page)
	if err != nil {
		if errors.Is(err, querying.ErrUnknownSortKey) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown sortBy value"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list breweries"})
		return
	}

	pagination.SetHeader(c, pagination.NewMetadata(total, page))
	c.JSON(http.StatusOK, breweries)
}

// UpdateBrewery обрабатывает PUT /breweries/{id}
func (h *BreweryHandler) UpdateBrewery(c *gin.Context) {
	identity, ok := GetIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid brewery ID"})
		return
	}

	var req entity.UpdateBreweryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := h.validator.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": formatValidationError(err)})
		return
	}

	brewery, err := h.breweryService.UpdateBrewery(c.Request.Context(), identity.Role, id, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		case errors.Is(err, service.ErrBreweryNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Brewery not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update brewery"})
		}
		return
	}

	c.JSON(http.StatusOK, brewery)
}

// DeleteBrewery обрабатывает DELETE /breweries/{id}
func (h *BreweryHandler) DeleteBrewery(c *gin.Context) {
	identity, ok := GetIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid brewery ID"})
		return
	}

	if err := h.breweryService.DeleteBrewery(c.Request.Context(), identity.Role, id); err != nil {
		switch {
		case errors.Is(err, service.ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		case errors.Is(err, service.ErrBreweryNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Brewery not found"})
		case isRemoteServiceError(err):
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Image service unavailable"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete brewery"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Brewery deleted"})
}
