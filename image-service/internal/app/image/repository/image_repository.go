package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"hoppyhub/image-service/internal/app/image/entity"
	"hoppyhub/pkg/logger"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type imageRepository struct {
	collection *mongo.Collection
}

// NewImageRepository создает новый репозиторий метаданных блобов
// Path уникален: повторная загрузка по тому же пути перезаписывает запись
func NewImageRepository(db *mongo.Database) ImageRepository {
	collection := db.Collection("images")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModel := mongo.IndexModel{
		Keys:    bson.D{{Key: "path", Value: 1}},
		Options: options.Index().SetName("path_idx").SetUnique(true),
	}

	if _, err := collection.Indexes().CreateOne(ctx, indexModel); err != nil {
		// Индекс может уже существовать
		logger.Warn().Err(err).Msg("Failed to create index on path")
	}

	return &imageRepository{
		collection: collection,
	}
}

// Upsert вставляет или перезаписывает метаданные по пути
func (r *imageRepository) Upsert(ctx context.Context, record *entity.ImageRecord) error {
	record.UpdatedAt = time.Now()

	filter := bson.M{"path": record.Path}
	update := bson.M{
		"$set": bson.M{
			"uri":          record.URI,
			"size":         record.Size,
			"content_type": record.ContentType,
			"updated_at":   record.UpdatedAt,
		},
		"$setOnInsert": bson.M{
			"path":       record.Path,
			"created_at": time.Now(),
		},
	}

	opts := options.Update().SetUpsert(true)
	if _, err := r.collection.UpdateOne(ctx, filter, update, opts); err != nil {
		return fmt.Errorf("failed to upsert image record: %w", err)
	}

	return nil
}

// GetByPath получает метаданные блоба по точному пути
func (r *imageRepository) GetByPath(ctx context.Context, path string) (*entity.ImageRecord, error) {
	var record entity.ImageRecord
	err := r.collection.FindOne(ctx, bson.M{"path": path}).Decode(&record)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrImageNotFound
		}
		return nil, fmt.Errorf("failed to get image record: %w", err)
	}

	return &record, nil
}

// ListByPrefix возвращает метаданные всех блобов под префиксом
func (r *imageRepository) ListByPrefix(ctx context.Context, prefix string) ([]entity.ImageRecord, error) {
	filter := bson.M{"path": bson.M{"$regex": "^" + regexp.QuoteMeta(prefix)}}

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to find image records: %w", err)
	}
	defer cursor.Close(ctx)

	var records []entity.ImageRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("failed to decode image records: %w", err)
	}

	return records, nil
}

// DeleteByPath удаляет метаданные одного блоба
func (r *imageRepository) DeleteByPath(ctx context.Context, path string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"path": path})
	if err != nil {
		return fmt.Errorf("failed to delete image record: %w", err)
	}

	if result.DeletedCount == 0 {
		return ErrImageNotFound
	}

	return nil
}

// DeleteByPrefix удаляет метаданные всех блобов под префиксом
// Ноль совпадений - норма
func (r *imageRepository) DeleteByPrefix(ctx context.Context, prefix string) (int64, error) {
	filter := bson.M{"path": bson.M{"$regex": "^" + regexp.QuoteMeta(prefix)}}

	result, err := r.collection.DeleteMany(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to delete image records: %w", err)
	}

	return result.DeletedCount, nil
}
