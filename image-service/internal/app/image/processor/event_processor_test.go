package processor

import (
	"context"
	"fmt"
	"testing"

	"hoppyhub/pkg/events"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubBlobCleaner записывает удаленные префиксы
type stubBlobCleaner struct {
	deletedPrefixes []string
	err             error
}

func (s *stubBlobCleaner) DeleteByPrefix(ctx context.Context, prefix string) (int64, error) {
	if s.err != nil {
		return 0, s.err
	}
	s.deletedPrefixes = append(s.deletedPrefixes, prefix)
	return 1, nil
}

// ===================== Beer Event Tests =====================

func TestHandleBeerDeleted_CleansBeerAndOpinionBlobs(t *testing.T) {
	// Arrange
	cleaner := &stubBlobCleaner{}
	proc := NewEventProcessor(cleaner)

	beerID := uuid.New()
	breweryID := uuid.New()

	// Act
	err := proc.HandleBeerEvent(context.Background(), events.NewBeerDeleted(beerID, breweryID))

	// Assert
	require.NoError(t, err)
	assert.Equal(t, []string{
		fmt.Sprintf("Beers/%s/%s", breweryID, beerID),
		fmt.Sprintf("Opinions/%s/%s", breweryID, beerID),
	}, cleaner.deletedPrefixes)
}

func TestHandleBreweryDeleted_CleansWholeBreweryBlobs(t *testing.T) {
	// Arrange
	cleaner := &stubBlobCleaner{}
	proc := NewEventProcessor(cleaner)

	breweryID := uuid.New()

	// Act
	err := proc.HandleBeerEvent(context.Background(), events.NewBreweryDeleted(breweryID))

	// Assert
	require.NoError(t, err)
	assert.Equal(t, []string{
		fmt.Sprintf("Beers/%s", breweryID),
		fmt.Sprintf("Opinions/%s", breweryID),
	}, cleaner.deletedPrefixes)
}

func TestHandleBeerCreated_LeavesBlobsAlone(t *testing.T) {
	// Arrange
	cleaner := &stubBlobCleaner{}
	proc := NewEventProcessor(cleaner)

	// Act
	err := proc.HandleBeerEvent(context.Background(), events.NewBeerCreated(uuid.New(), "IPA", uuid.New(), "Brewery"))

	// Assert
	require.NoError(t, err)
	assert.Empty(t, cleaner.deletedPrefixes)
}

func TestHandleBeerDeleted_CleanupFailureReturnsError(t *testing.T) {
	// Arrange
	cleaner := &stubBlobCleaner{err: assert.AnError}
	proc := NewEventProcessor(cleaner)

	// Act
	err := proc.HandleBeerEvent(context.Background(), events.NewBeerDeleted(uuid.New(), uuid.New()))

	// Assert
	assert.Error(t, err)
}
