package txn

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       sqlDB,
		DriverName: "postgres",
	})

	db, err := gorm.Open(dialector, &gorm.Config{})
	require.NoError(t, err)

	return db, mock, sqlDB
}

func TestRun_Success_Commits(t *testing.T) {
	db, mock, sqlDB := newMockDB(t)
	defer sqlDB.Close()

	beerID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM opinions WHERE beer_id = $1`)).
		WithArgs(beerID).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	compensated := false

	err := Run(context.Background(), db,
		func(tx *gorm.DB) error {
			return tx.Exec(`DELETE FROM opinions WHERE beer_id = ?`, beerID).Error
		},
		func(ctx context.Context, tx *gorm.DB) error {
			compensated = true
			return nil
		},
	)

	assert.NoError(t, err)
	assert.True(t, compensated)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRun_CompensationFails_RollsBackMutation(t *testing.T) {
	db, mock, sqlDB := newMockDB(t)
	defer sqlDB.Close()

	beerID := uuid.New()
	blobErr := errors.New("blob storage unavailable")

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM opinions WHERE beer_id = $1`)).
		WithArgs(beerID).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectRollback()

	err := Run(context.Background(), db,
		func(tx *gorm.DB) error {
			return tx.Exec(`DELETE FROM opinions WHERE beer_id = ?`, beerID).Error
		},
		func(ctx context.Context, tx *gorm.DB) error {
			return blobErr
		},
	)

	// Удаление строк откатилось, исходная ошибка ушла наверх
	assert.ErrorIs(t, err, blobErr)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRun_MutationFails_NoCompensations(t *testing.T) {
	db, mock, sqlDB := newMockDB(t)
	defer sqlDB.Close()

	dbErr := errors.New("deadlock detected")

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM opinions`)).
		WillReturnError(dbErr)
	mock.ExpectRollback()

	compensated := false

	err := Run(context.Background(), db,
		func(tx *gorm.DB) error {
			return tx.Exec(`DELETE FROM opinions`).Error
		},
		func(ctx context.Context, tx *gorm.DB) error {
			compensated = true
			return nil
		},
	)

	assert.ErrorIs(t, err, dbErr)
	assert.False(t, compensated)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRun_CompensationsInOrder(t *testing.T) {
	db, mock, sqlDB := newMockDB(t)
	defer sqlDB.Close()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM beers`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	var order []string

	err := Run(context.Background(), db,
		func(tx *gorm.DB) error {
			return tx.Exec(`DELETE FROM beers`).Error
		},
		func(ctx context.Context, tx *gorm.DB) error {
			order = append(order, "delete blob")
			return nil
		},
		func(ctx context.Context, tx *gorm.DB) error {
			order = append(order, "enqueue event")
			return nil
		},
	)

	assert.NoError(t, err)
	assert.Equal(t, []string{"delete blob", "enqueue event"}, order)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRun_SecondCompensationFails_AllRolledBack(t *testing.T) {
	db, mock, sqlDB := newMockDB(t)
	defer sqlDB.Close()

	publishErr := errors.New("outbox insert failed")

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM beers`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectRollback()

	err := Run(context.Background(), db,
		func(tx *gorm.DB) error {
			return tx.Exec(`DELETE FROM beers`).Error
		},
		func(ctx context.Context, tx *gorm.DB) error { return nil },
		func(ctx context.Context, tx *gorm.DB) error { return publishErr },
	)

	assert.ErrorIs(t, err, publishErr)
	assert.NoError(t, mock.ExpectationsWereMet())
}
