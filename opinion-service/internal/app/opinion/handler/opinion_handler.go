package handler

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"hoppyhub/opinion-service/internal/app/opinion/entity"
	infrahttp "hoppyhub/opinion-service/internal/app/opinion/infrastructure/http"
	"hoppyhub/opinion-service/internal/app/opinion/service"
	"hoppyhub/pkg/pagination"
	"hoppyhub/pkg/querying"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// Максимальный размер загружаемой картинки
const maxImageSize = 5 << 20

// OpinionHandler обрабатывает HTTP запросы мнений
type OpinionHandler struct {
	opinionService *service.OpinionService
	validator      *validator.Validate
}

// NewOpinionHandler создает новый обработчик мнений
func NewOpinionHandler(opinionService *service.OpinionService) *OpinionHandler {
	return &OpinionHandler{
		opinionService: opinionService,
		validator:      validator.New(),
	}
}

// CreateOpinion обрабатывает POST /opinions
// Тело - JSON или multipart форма с опциональным полем file
func (h *OpinionHandler) CreateOpinion(c *gin.Context) {
	identity, ok := GetIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req entity.CreateOpinionRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := h.validator.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": formatValidationError(err)})
		return
	}

	filename, content, cleanup, ok := openImageFile(c)
	if !ok {
		return
	}
	defer cleanup()

	opinion, err := h.opinionService.CreateOpinion(c.Request.Context(), identity.UserID, &req, filename, content)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrBeerNotFound):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Beer does not exist"})
		case isRemoteServiceError(err):
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Image service unavailable"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create opinion"})
		}
		return
	}

	c.JSON(http.StatusCreated, entity.NewOpinionResponse(opinion, nil, nil))
}

// GetOpinion обрабатывает GET /opinions/{id}
func (h *OpinionHandler) GetOpinion(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid opinion ID"})
		return
	}

	opinion, beer, user, err := h.opinionService.GetOpinion(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrOpinionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Opinion not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get opinion"})
		return
	}

	c.JSON(http.StatusOK, entity.NewOpinionResponse(opinion, beer, user))
}

// ListOpinions обрабатывает GET /opinions
func (h *OpinionHandler) ListOpinions(c *gin.Context) {
	var req entity.ListOpinionsRequest
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

	opinions, total, err := h.opinionService.ListOpinions(c.Request.Context(), &req, page)
	if err != nil {
		if errors.Is(err, querying.ErrUnknownSortKey) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown sortBy value"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list opinions"})
		return
	}

	responses := make([]entity.OpinionResponse, 0, len(opinions))
	for i := range opinions {
		responses = append(responses, entity.NewOpinionResponse(&opinions[i], nil, nil))
	}

	pagination.SetHeader(c, pagination.NewMetadata(total, page))
	c.JSON(http.StatusOK, responses)
}

// UpdateOpinion обрабатывает PUT /opinions/{id}
func (h *OpinionHandler) UpdateOpinion(c *gin.Context) {
	identity, ok := GetIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid opinion ID"})
		return
	}

	var req entity.UpdateOpinionRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := h.validator.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": formatValidationError(err)})
		return
	}

	filename, content, cleanup, ok := openImageFile(c)
	if !ok {
		return
	}
	defer cleanup()

	opinion, err := h.opinionService.UpdateOpinion(c.Request.Context(), identity.UserID, id, &req, filename, content)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		case errors.Is(err, service.ErrOpinionNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Opinion not found"})
		case errors.Is(err, service.ErrBeerNotFound):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Beer does not exist"})
		case isRemoteServiceError(err):
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Image service unavailable"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update opinion"})
		}
		return
	}

	c.JSON(http.StatusOK, entity.NewOpinionResponse(opinion, nil, nil))
}

// DeleteOpinion обрабатывает DELETE /opinions/{id}
func (h *OpinionHandler) DeleteOpinion(c *gin.Context) {
	identity, ok := GetIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid opinion ID"})
		return
	}

	if err := h.opinionService.DeleteOpinion(c.Request.Context(), identity.UserID, identity.Role, id); err != nil {
		switch {
		case errors.Is(err, service.ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		case errors.Is(err, service.ErrOpinionNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Opinion not found"})
		case isRemoteServiceError(err):
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Image service unavailable"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete opinion"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Opinion deleted"})
}

// openImageFile достает опциональный файл картинки из multipart формы
// Отсутствие файла - норма (JSON запрос или форма без картинки).
// При false ответ уже записан
func openImageFile(c *gin.Context) (string, io.Reader, func(), bool) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return "", nil, func() {}, true
	}
	if fileHeader.Size > maxImageSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Image file too large"})
		return "", nil, func() {}, false
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read image file"})
		return "", nil, func() {}, false
	}

	return fileHeader.Filename, file, closeFile(file), true
}

func closeFile(file multipart.File) func() {
	return func() { file.Close() }
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
