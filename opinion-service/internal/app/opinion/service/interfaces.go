package service

import (
	"context"
	"io"
)

// ImageClient - клиент блобов картинок мнений
// Реализуется infrastructure/http.ImageClient, в тестах подменяется стабом
type ImageClient interface {
	Upload(ctx context.Context, path, filename string, content io.Reader) (string, error)
	DeleteByPath(ctx context.Context, path string) error
	DeleteByPrefix(ctx context.Context, prefix string) error
}
