package repository

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"regexp"
	"strings"
	"testing"

	"hoppyhub/favorite-service/internal/app/favorite/entity"

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

// payloadContains сопоставляет аргумент-JSON по подстрокам
type payloadContains struct {
	substrs []string
}

func (m payloadContains) Match(v driver.Value) bool {
	var payload string
	switch value := v.(type) {
	case []byte:
		payload = string(value)
	case string:
		payload = value
	default:
		return false
	}

	for _, substr := range m.substrs {
		if !strings.Contains(payload, substr) {
			return false
		}
	}
	return true
}

// ===================== Counter Recompute Tests =====================

func TestAddFavorite_InsertsWithConflictGuardAndEnqueues(t *testing.T) {
	db, mock, sqlDB := newMockDB(t)
	defer sqlDB.Close()

	repo := NewFavoriteRepository(db)
	favorite := &entity.Favorite{
		ID:     uuid.New(),
		UserID: uuid.New(),
		BeerID: uuid.New(),
	}

	// Arrange: вставка защищена ON CONFLICT по паре пользователь-пиво,
	// после нее пиво отмечено одним пользователем
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "favorites"`) + `.*` + regexp.QuoteMeta(`ON CONFLICT ("user_id","beer_id") DO NOTHING`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "favorites"`)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "event_outbox"`)).
		WithArgs(
			"BEER_FAVORITES_COUNT_CHANGED",
			"favorite_events",
			favorite.BeerID.String(),
			payloadContains{substrs: []string{`"favorites_count":1`}},
			sqlmock.AnyArg(),
			sqlmock.AnyArg(),
			sqlmock.AnyArg(),
		).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectCommit()

	// Act
	err := repo.Create(context.Background(), favorite)

	// Assert
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddFavorite_DuplicatePairRollsBackWithoutEvent(t *testing.T) {
	db, mock, sqlDB := newMockDB(t)
	defer sqlDB.Close()

	repo := NewFavoriteRepository(db)
	favorite := &entity.Favorite{
		ID:     uuid.New(),
		UserID: uuid.New(),
		BeerID: uuid.New(),
	}

	// Пара уже в избранном: ON CONFLICT гасит вставку, ноль строк
	// откатывает транзакцию - пересчета и события нет
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "favorites"`) + `.*` + regexp.QuoteMeta(`ON CONFLICT ("user_id","beer_id") DO NOTHING`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.Create(context.Background(), favorite)

	assert.ErrorIs(t, err, ErrAlreadyFavorite)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRemoveFavorite_RecomputesCounterAndEnqueues(t *testing.T) {
	db, mock, sqlDB := newMockDB(t)
	defer sqlDB.Close()

	repo := NewFavoriteRepository(db)
	userID := uuid.New()
	beerID := uuid.New()

	// Arrange: после снятия отметки у пива остается 3 избранных
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "favorites"`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "favorites"`)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "event_outbox"`)).
		WithArgs(
			"BEER_FAVORITES_COUNT_CHANGED",
			"favorite_events",
			beerID.String(),
			payloadContains{substrs: []string{`"favorites_count":3`}},
			sqlmock.AnyArg(),
			sqlmock.AnyArg(),
			sqlmock.AnyArg(),
		).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectCommit()

	// Act
	err := repo.Delete(context.Background(), userID, beerID)

	// Assert
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRemoveFavorite_MissingRowRollsBack(t *testing.T) {
	db, mock, sqlDB := newMockDB(t)
	defer sqlDB.Close()

	repo := NewFavoriteRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "favorites"`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.Delete(context.Background(), uuid.New(), uuid.New())

	assert.ErrorIs(t, err, ErrFavoriteNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ===================== User Cascade Tests =====================

func TestDeleteUserShadow_CascadesFavoritesWithRecounts(t *testing.T) {
	db, mock, sqlDB := newMockDB(t)
	defer sqlDB.Close()

	repo := NewUserRepository(db)
	userID := uuid.New()
	beerA := uuid.New()
	beerB := uuid.New()

	// Пользователь держал в избранном два пива, по каждому уходит событие
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "users"`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT DISTINCT`)).
		WillReturnRows(sqlmock.NewRows([]string{"beer_id"}).
			AddRow(beerA.String()).
			AddRow(beerB.String()))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "favorites"`)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "favorites"`)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "event_outbox"`)).
		WithArgs(
			"BEER_FAVORITES_COUNT_CHANGED",
			"favorite_events",
			beerA.String(),
			payloadContains{substrs: []string{`"favorites_count":4`}},
			sqlmock.AnyArg(),
			sqlmock.AnyArg(),
			sqlmock.AnyArg(),
		).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "favorites"`)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "event_outbox"`)).
		WithArgs(
			"BEER_FAVORITES_COUNT_CHANGED",
			"favorite_events",
			beerB.String(),
			payloadContains{substrs: []string{`"favorites_count":0`}},
			sqlmock.AnyArg(),
			sqlmock.AnyArg(),
			sqlmock.AnyArg(),
		).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(2))
	mock.ExpectCommit()

	err := repo.Delete(context.Background(), userID)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteUserShadow_AbsentRowIsNormal(t *testing.T) {
	db, mock, sqlDB := newMockDB(t)
	defer sqlDB.Close()

	repo := NewUserRepository(db)

	// Повторная доставка USER_DELETED: ни пользователя, ни избранного
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "users"`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT DISTINCT`)).
		WillReturnRows(sqlmock.NewRows([]string{"beer_id"}))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "favorites"`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := repo.Delete(context.Background(), uuid.New())

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
