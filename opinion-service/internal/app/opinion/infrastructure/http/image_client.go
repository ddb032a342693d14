package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"time"
)

// ErrRemoteService - image-service недоступен или ответил ошибкой
var ErrRemoteService = errors.New("image service request failed")

// ImageClient - синхронный клиент image-service
// Блобы картинок мнений живут под Opinions/{breweryId}/{beerId}/{userId},
// подтверждения загрузок и удалений приходят асинхронно событиями IMAGE_*
type ImageClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewImageClient создает новый клиент image-service
func NewImageClient(baseURL string, timeout time.Duration) *ImageClient {
	return &ImageClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type uploadResponse struct {
	URI  string `json:"uri"`
	Path string `json:"path"`
}

// Upload загружает блоб по иерархическому пути и возвращает его URI
func (c *ImageClient) Upload(ctx context.Context, path, filename string, content io.Reader) (string, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	if err := writer.WriteField("path", path); err != nil {
		return "", fmt.Errorf("failed to write path field: %w", err)
	}

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return "", fmt.Errorf("failed to copy file content: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/images", &body)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrRemoteService, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("%w: unexpected status code %d", ErrRemoteService, resp.StatusCode)
	}

	var result uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	return result.URI, nil
}

// DeleteByPath удаляет один блоб по точному пути
func (c *ImageClient) DeleteByPath(ctx context.Context, path string) error {
	return c.delete(ctx, "/images?path="+url.QueryEscape(path))
}

// DeleteByPrefix удаляет все блобы под префиксом
// Расширение блоба заранее неизвестно, поэтому удаление картинки одного
// мнения тоже идет по префиксу. Ноль совпадений - норма
func (c *ImageClient) DeleteByPrefix(ctx context.Context, prefix string) error {
	return c.delete(ctx, "/images/prefix?prefix="+url.QueryEscape(prefix))
}

func (c *ImageClient) delete(ctx context.Context, pathAndQuery string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+pathAndQuery, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRemoteService, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNotFound {
		return fmt.Errorf("%w: unexpected status code %d", ErrRemoteService, resp.StatusCode)
	}

	return nil
}
