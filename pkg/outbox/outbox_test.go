package outbox

import (
	"database/sql"
	"regexp"
	"testing"

	"hoppyhub/pkg/events"

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

func TestEnqueue_Success(t *testing.T) {
	db, mock, sqlDB := newMockDB(t)
	defer sqlDB.Close()

	userID := uuid.New()
	event := events.NewUserDeleted(userID)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "event_outbox"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectCommit()

	err := Enqueue(db, "user-service", event)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnqueue_InvalidEvent_NothingWritten(t *testing.T) {
	db, mock, sqlDB := newMockDB(t)
	defer sqlDB.Close()

	// favoritesCount < 0 не проходит валидацию - запись в outbox не делается
	event := events.NewBeerFavoritesCountChanged(uuid.New(), -1, 1)

	err := Enqueue(db, "favorite-service", event)

	assert.ErrorIs(t, err, events.ErrInvalidEvent)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnqueue_WithinTransaction_RolledBackTogether(t *testing.T) {
	db, mock, sqlDB := newMockDB(t)
	defer sqlDB.Close()

	event := events.NewUserDeleted(uuid.New())

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM users`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "event_outbox"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectRollback()

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(`DELETE FROM users`).Error; err != nil {
			return err
		}
		if err := Enqueue(tx, "user-service", event); err != nil {
			return err
		}
		// Имитация сбоя после записи события: и мутация, и событие откатываются
		return assert.AnError
	})

	assert.ErrorIs(t, err, assert.AnError)
	assert.NoError(t, mock.ExpectationsWereMet())
}
