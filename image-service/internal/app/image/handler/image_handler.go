package handler

import (
	"errors"
	"net/http"

	"hoppyhub/image-service/internal/app/image/service"

	"github.com/gin-gonic/gin"
)

// Максимальный размер загружаемого блоба
const maxBlobSize = 10 << 20

// ImageHandler обрабатывает HTTP запросы блобов
type ImageHandler struct {
	imageService *service.ImageService
}

// NewImageHandler создает новый обработчик блобов
func NewImageHandler(imageService *service.ImageService) *ImageHandler {
	return &ImageHandler{imageService: imageService}
}

// UploadImage обрабатывает POST /images (multipart: поля path и file)
func (h *ImageHandler) UploadImage(c *gin.Context) {
	blobPath := c.PostForm("path")
	if blobPath == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Blob path required"})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Blob file required"})
		return
	}
	if fileHeader.Size > maxBlobSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Blob file too large"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read blob file"})
		return
	}
	defer file.Close()

	record, err := h.imageService.Upload(c.Request.Context(), blobPath, fileHeader.Header.Get("Content-Type"), file)
	if err != nil {
		if errors.Is(err, service.ErrInvalidPath) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid blob path"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload blob"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"uri":  record.URI,
		"path": record.Path,
	})
}

// DeleteImage обрабатывает DELETE /images?path=
func (h *ImageHandler) DeleteImage(c *gin.Context) {
	blobPath := c.Query("path")
	if blobPath == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Blob path required"})
		return
	}

	if err := h.imageService.DeleteByPath(c.Request.Context(), blobPath); err != nil {
		switch {
		case errors.Is(err, service.ErrImageNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Blob not found"})
		case errors.Is(err, service.ErrInvalidPath):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid blob path"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete blob"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Blob deleted"})
}

// DeleteImagesByPrefix обрабатывает DELETE /images/prefix?prefix=
// Ноль совпадений - успешный ответ: каскадные удаления идемпотентны
func (h *ImageHandler) DeleteImagesByPrefix(c *gin.Context) {
	prefix := c.Query("prefix")
	if prefix == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Blob prefix required"})
		return
	}

	deleted, err := h.imageService.DeleteByPrefix(c.Request.Context(), prefix)
	if err != nil {
		if errors.Is(err, service.ErrInvalidPath) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid blob prefix"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete blobs"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": deleted})
}
