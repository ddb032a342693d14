package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"hoppyhub/image-service/internal/app/image/entity"
	"hoppyhub/image-service/internal/app/image/repository"
	"hoppyhub/pkg/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubBlobStore - хранилище в памяти для тестов сервиса
type stubBlobStore struct {
	saved   map[string]string
	deleted []string
	saveErr error
}

func newStubBlobStore() *stubBlobStore {
	return &stubBlobStore{saved: make(map[string]string)}
}

func (s *stubBlobStore) Save(blobPath string, content io.Reader) (int64, error) {
	if s.saveErr != nil {
		return 0, s.saveErr
	}
	data, err := io.ReadAll(content)
	if err != nil {
		return 0, err
	}
	s.saved[blobPath] = string(data)
	return int64(len(data)), nil
}

func (s *stubBlobStore) Delete(blobPath string) error {
	s.deleted = append(s.deleted, blobPath)
	return nil
}

// stubImageRepository - метаданные в памяти
type stubImageRepository struct {
	records map[string]entity.ImageRecord
}

func newStubImageRepository() *stubImageRepository {
	return &stubImageRepository{records: make(map[string]entity.ImageRecord)}
}

func (r *stubImageRepository) Upsert(ctx context.Context, record *entity.ImageRecord) error {
	r.records[record.Path] = *record
	return nil
}

func (r *stubImageRepository) GetByPath(ctx context.Context, path string) (*entity.ImageRecord, error) {
	record, ok := r.records[path]
	if !ok {
		return nil, repository.ErrImageNotFound
	}
	return &record, nil
}

func (r *stubImageRepository) ListByPrefix(ctx context.Context, prefix string) ([]entity.ImageRecord, error) {
	var out []entity.ImageRecord
	for path, record := range r.records {
		if strings.HasPrefix(path, prefix) {
			out = append(out, record)
		}
	}
	return out, nil
}

func (r *stubImageRepository) DeleteByPath(ctx context.Context, path string) error {
	if _, ok := r.records[path]; !ok {
		return repository.ErrImageNotFound
	}
	delete(r.records, path)
	return nil
}

func (r *stubImageRepository) DeleteByPrefix(ctx context.Context, prefix string) (int64, error) {
	var deleted int64
	for path := range r.records {
		if strings.HasPrefix(path, prefix) {
			delete(r.records, path)
			deleted++
		}
	}
	return deleted, nil
}

// stubPublisher записывает опубликованные события
type stubPublisher struct {
	published []events.Event
	err       error
}

func (p *stubPublisher) PublishEvent(ctx context.Context, event events.Event) error {
	if p.err != nil {
		return p.err
	}
	p.published = append(p.published, event)
	return nil
}

// ===================== Upload Tests =====================

func TestUpload_SavesBlobAndPublishesConfirmation(t *testing.T) {
	// Arrange
	store := newStubBlobStore()
	repo := newStubImageRepository()
	publisher := &stubPublisher{}
	svc := NewImageService(store, repo, publisher, "http://localhost:8085/")

	// Act
	record, err := svc.Upload(context.Background(), "Beers/brewery-1/beer-1.jpg", "image/jpeg", strings.NewReader("jpeg bytes"))

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "Beers/brewery-1/beer-1.jpg", record.Path)
	assert.Equal(t, "http://localhost:8085/blobs/Beers/brewery-1/beer-1.jpg", record.URI)
	assert.Equal(t, int64(10), record.Size)
	assert.Equal(t, "jpeg bytes", store.saved["Beers/brewery-1/beer-1.jpg"])

	require.Len(t, publisher.published, 1)
	uploaded, ok := publisher.published[0].(events.ImageUploaded)
	require.True(t, ok)
	assert.Equal(t, record.URI, uploaded.URI)
	assert.Equal(t, record.Path, uploaded.Path)
}

func TestUpload_RejectsInvalidPath(t *testing.T) {
	// Arrange
	publisher := &stubPublisher{}
	svc := NewImageService(newStubBlobStore(), newStubImageRepository(), publisher, "http://localhost:8085")

	// Act
	_, err := svc.Upload(context.Background(), "../escape.jpg", "image/jpeg", strings.NewReader("x"))

	// Assert
	assert.ErrorIs(t, err, ErrInvalidPath)
	assert.Empty(t, publisher.published)
}

func TestUpload_PublishFailureFailsRequest(t *testing.T) {
	// Arrange
	publisher := &stubPublisher{err: errors.New("kafka down")}
	svc := NewImageService(newStubBlobStore(), newStubImageRepository(), publisher, "http://localhost:8085")

	// Act
	_, err := svc.Upload(context.Background(), "Beers/b/x.jpg", "image/jpeg", strings.NewReader("x"))

	// Assert
	assert.Error(t, err)
}

// ===================== Delete By Path Tests =====================

func TestDeleteByPath_RemovesBlobAndPublishesConfirmation(t *testing.T) {
	// Arrange
	store := newStubBlobStore()
	repo := newStubImageRepository()
	publisher := &stubPublisher{}
	svc := NewImageService(store, repo, publisher, "http://localhost:8085")

	_, err := svc.Upload(context.Background(), "Beers/b/x.jpg", "image/jpeg", strings.NewReader("x"))
	require.NoError(t, err)

	// Act
	err = svc.DeleteByPath(context.Background(), "Beers/b/x.jpg")

	// Assert
	require.NoError(t, err)
	assert.Contains(t, store.deleted, "Beers/b/x.jpg")
	assert.Empty(t, repo.records)

	require.Len(t, publisher.published, 2)
	deleted, ok := publisher.published[1].(events.ImageDeleted)
	require.True(t, ok)
	assert.Equal(t, "http://localhost:8085/blobs/Beers/b/x.jpg", deleted.URI)
}

func TestDeleteByPath_UnknownPathReturnsNotFound(t *testing.T) {
	// Arrange
	publisher := &stubPublisher{}
	svc := NewImageService(newStubBlobStore(), newStubImageRepository(), publisher, "http://localhost:8085")

	// Act
	err := svc.DeleteByPath(context.Background(), "Beers/never/was.jpg")

	// Assert
	assert.ErrorIs(t, err, ErrImageNotFound)
	assert.Empty(t, publisher.published)
}

// ===================== Delete By Prefix Tests =====================

func TestDeleteByPrefix_RemovesAllMatchesAndPublishesPaths(t *testing.T) {
	// Arrange
	store := newStubBlobStore()
	repo := newStubImageRepository()
	publisher := &stubPublisher{}
	svc := NewImageService(store, repo, publisher, "http://localhost:8085")

	ctx := context.Background()
	for _, blobPath := range []string{"Opinions/b/beer/u1.jpg", "Opinions/b/beer/u2.jpg", "Beers/b/beer.jpg"} {
		_, err := svc.Upload(ctx, blobPath, "image/jpeg", strings.NewReader("x"))
		require.NoError(t, err)
	}
	publisher.published = nil

	// Act
	deleted, err := svc.DeleteByPrefix(ctx, "Opinions/b/beer")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)
	assert.Len(t, repo.records, 1)
	assert.Contains(t, repo.records, "Beers/b/beer.jpg")

	require.Len(t, publisher.published, 1)
	event, ok := publisher.published[0].(events.ImagesDeleted)
	require.True(t, ok)
	assert.Equal(t, "Opinions/b/beer", event.Prefix)
	assert.ElementsMatch(t, []string{"Opinions/b/beer/u1.jpg", "Opinions/b/beer/u2.jpg"}, event.Paths)
}

func TestDeleteByPrefix_NoMatchesPublishesNothing(t *testing.T) {
	// Arrange
	publisher := &stubPublisher{}
	svc := NewImageService(newStubBlobStore(), newStubImageRepository(), publisher, "http://localhost:8085")

	// Act
	deleted, err := svc.DeleteByPrefix(context.Background(), "Beers/empty")

	// Assert
	require.NoError(t, err)
	assert.Zero(t, deleted)
	assert.Empty(t, publisher.published)
}
