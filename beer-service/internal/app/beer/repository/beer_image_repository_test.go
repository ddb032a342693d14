package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"hoppyhub/pkg/txn"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// ===================== Image Reset Tests =====================

func TestResetToTemp_RunsActionsInSameTransaction(t *testing.T) {
	db, mock, sqlDB := newMockDB(t)
	defer sqlDB.Close()

	repo := NewBeerImageRepository(db)
	beerID := uuid.New()

	var cleanupRan bool
	cleanup := func(ctx context.Context, tx *gorm.DB) error {
		cleanupRan = true
		return nil
	}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "beer_images" SET`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.ResetToTemp(context.Background(), beerID, "http://localhost:8085/blobs/Beers/temp.jpg", txn.Action(cleanup))

	require.NoError(t, err)
	assert.True(t, cleanupRan)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResetToTemp_FailedCleanupRollsBack(t *testing.T) {
	db, mock, sqlDB := newMockDB(t)
	defer sqlDB.Close()

	repo := NewBeerImageRepository(db)

	// image-service недоступен: сброс откатывается, строка продолжает
	// указывать на еще существующий блоб
	remoteErr := errors.New("image service request failed")
	cleanup := func(ctx context.Context, tx *gorm.DB) error {
		return remoteErr
	}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "beer_images" SET`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectRollback()

	err := repo.ResetToTemp(context.Background(), uuid.New(), "http://localhost:8085/blobs/Beers/temp.jpg", txn.Action(cleanup))

	assert.ErrorIs(t, err, remoteErr)
	assert.NoError(t, mock.ExpectationsWereMet())
}
