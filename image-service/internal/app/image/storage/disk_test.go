package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ===================== Disk Store Tests =====================

func TestSaveBlob_WritesUnderRoot(t *testing.T) {
	// Arrange
	store, err := NewDiskStore(t.TempDir())
	require.NoError(t, err)

	// Act
	size, err := store.Save("Beers/brewery-1/beer-1.jpg", strings.NewReader("jpeg bytes"))

	// Assert
	require.NoError(t, err)
	assert.Equal(t, int64(10), size)

	data, err := os.ReadFile(filepath.Join(store.Root(), "Beers", "brewery-1", "beer-1.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "jpeg bytes", string(data))
}

func TestSaveBlob_OverwritesExisting(t *testing.T) {
	// Arrange
	store, err := NewDiskStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Save("Beers/b/x.jpg", strings.NewReader("old"))
	require.NoError(t, err)

	// Act
	size, err := store.Save("Beers/b/x.jpg", strings.NewReader("fresh"))

	// Assert
	require.NoError(t, err)
	assert.Equal(t, int64(5), size)

	data, err := os.ReadFile(filepath.Join(store.Root(), "Beers", "b", "x.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "fresh", string(data))
}

func TestDeleteBlob_RemovesFile(t *testing.T) {
	// Arrange
	store, err := NewDiskStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Save("Opinions/b/beer/user.png", strings.NewReader("png"))
	require.NoError(t, err)

	// Act
	err = store.Delete("Opinions/b/beer/user.png")

	// Assert
	require.NoError(t, err)
	_, statErr := os.Stat(filepath.Join(store.Root(), "Opinions", "b", "beer", "user.png"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestDeleteBlob_AbsentFileIsNormal(t *testing.T) {
	// Arrange
	store, err := NewDiskStore(t.TempDir())
	require.NoError(t, err)

	// Act
	err = store.Delete("Beers/never/existed.jpg")

	// Assert
	assert.NoError(t, err)
}

func TestResolve_RejectsEscapingPaths(t *testing.T) {
	// Arrange
	store, err := NewDiskStore(t.TempDir())
	require.NoError(t, err)

	bad := []string{
		"",
		"/etc/passwd",
		"../outside.jpg",
		"Beers/../../outside.jpg",
		"Beers//double.jpg",
	}

	for _, blobPath := range bad {
		// Act
		_, saveErr := store.Save(blobPath, strings.NewReader("x"))
		deleteErr := store.Delete(blobPath)

		// Assert
		assert.ErrorIs(t, saveErr, ErrInvalidPath, "save %q", blobPath)
		assert.ErrorIs(t, deleteErr, ErrInvalidPath, "delete %q", blobPath)
	}
}
