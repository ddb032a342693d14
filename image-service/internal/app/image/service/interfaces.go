package service

import (
	"context"
	"io"

	"hoppyhub/pkg/events"
)

// BlobStore - физическое хранилище блобов
// Реализуется storage.DiskStore, в тестах подменяется временной директорией
type BlobStore interface {
	Save(blobPath string, content io.Reader) (int64, error)
	Delete(blobPath string) error
}

// EventPublisher публикует подтверждения IMAGE_* напрямую в Kafka
// У сервиса нет SQL базы, outbox не используется: при отказе публикации
// HTTP запрос завершается ошибкой и клиент откатывает свою транзакцию
type EventPublisher interface {
	PublishEvent(ctx context.Context, event events.Event) error
}
