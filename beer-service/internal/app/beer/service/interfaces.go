package service

import (
	"context"
	"io"
)

// ImageClient - синхронный клиент image-service
// Реализация в infrastructure/http, интерфейс здесь для подмены в тестах
type ImageClient interface {
	Upload(ctx context.Context, path, filename string, content io.Reader) (string, error)
	DeleteByPath(ctx context.Context, path string) error
	DeleteByPrefix(ctx context.Context, prefix string) error
}
