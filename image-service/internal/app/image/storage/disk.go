package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// ErrInvalidPath - путь блоба выходит за пределы корня хранилища
var ErrInvalidPath = errors.New("invalid blob path")

// DiskStore - дисковое хранилище блобов под одним корнем
// Пути блобов иерархические (Beers/..., Opinions/...), директории
// создаются по мере необходимости
type DiskStore struct {
	root string
}

// NewDiskStore создает хранилище, поднимая корневую директорию
func NewDiskStore(root string) (*DiskStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create blob root: %w", err)
	}
	return &DiskStore{root: root}, nil
}

// Root возвращает корневую директорию для отдачи статики
func (s *DiskStore) Root() string {
	return s.root
}

// Save записывает блоб по пути и возвращает количество байт
func (s *DiskStore) Save(blobPath string, content io.Reader) (int64, error) {
	full, err := s.resolve(blobPath)
	if err != nil {
		return 0, err
	}

	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return 0, fmt.Errorf("failed to create blob directory: %w", err)
	}

	file, err := os.Create(full)
	if err != nil {
		return 0, fmt.Errorf("failed to create blob file: %w", err)
	}
	defer file.Close()

	size, err := io.Copy(file, content)
	if err != nil {
		return 0, fmt.Errorf("failed to write blob: %w", err)
	}

	return size, nil
}

// Delete удаляет один блоб, отсутствие файла - норма
func (s *DiskStore) Delete(blobPath string) error {
	full, err := s.resolve(blobPath)
	if err != nil {
		return err
	}

	if err := os.Remove(full); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete blob: %w", err)
	}

	return nil
}

// resolve превращает путь блоба в абсолютный путь внутри корня
// Отклоняет пустые, абсолютные и выходящие за корень пути
func (s *DiskStore) resolve(blobPath string) (string, error) {
	if blobPath == "" || strings.HasPrefix(blobPath, "/") {
		return "", ErrInvalidPath
	}
	if path.Clean(blobPath) != blobPath || strings.Contains(blobPath, "..") {
		return "", ErrInvalidPath
	}

	return filepath.Join(s.root, filepath.FromSlash(blobPath)), nil
}
