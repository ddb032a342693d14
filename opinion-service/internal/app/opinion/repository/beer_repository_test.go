package repository

import (
	"context"
	"regexp"
	"testing"

	"hoppyhub/opinion-service/internal/app/opinion/entity"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ===================== Shadow Upsert Tests =====================

func TestCreateBeerShadow_DuplicateDeliveryKeepsOneRow(t *testing.T) {
	db, mock, sqlDB := newMockDB(t)
	defer sqlDB.Close()

	repo := NewBeerRepository(db)
	beer := &entity.Beer{ID: uuid.New(), Name: "Zhigulevskoe", BreweryID: uuid.New()}

	// Первая доставка вставляет строку, повторную гасит ON CONFLICT
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "beers" ("id","name","brewery_id") VALUES ($1,$2,$3) ON CONFLICT ("id") DO NOTHING`)).
		WithArgs(beer.ID.String(), beer.Name, beer.BreweryID.String()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`ON CONFLICT ("id") DO NOTHING`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	require.NoError(t, repo.CreateIfAbsent(context.Background(), beer))
	require.NoError(t, repo.CreateIfAbsent(context.Background(), beer))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateBeerShadow_RefreshesNameAndBrewery(t *testing.T) {
	db, mock, sqlDB := newMockDB(t)
	defer sqlDB.Close()

	repo := NewBeerRepository(db)
	beerID := uuid.New()
	newBrewery := uuid.New()

	// Пивоварня пишется вместе с именем: разошедшаяся shadow-копия
	// сходится при первом же обновлении
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "beers" SET "brewery_id"=$1,"name"=$2 WHERE id = $3`)).
		WithArgs(newBrewery.String(), "Zhigulevskoe Premium", beerID.String()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.Update(context.Background(), beerID, "Zhigulevskoe Premium", newBrewery)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateBeerShadow_AbsentRowIsNormal(t *testing.T) {
	db, mock, sqlDB := newMockDB(t)
	defer sqlDB.Close()

	repo := NewBeerRepository(db)

	// BEER_UPDATED догнал уже удаленную shadow-копию
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "beers" SET`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := repo.Update(context.Background(), uuid.New(), "Ghost", uuid.New())

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ===================== Shadow Cascade Tests =====================

func TestDeleteBeerShadow_RemovesOpinionsFirst(t *testing.T) {
	db, mock, sqlDB := newMockDB(t)
	defer sqlDB.Close()

	repo := NewBeerRepository(db)
	beerID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "beers"`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "opinions"`)).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectCommit()

	err := repo.Delete(context.Background(), beerID)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteBeerShadow_AbsentRowIsNormal(t *testing.T) {
	db, mock, sqlDB := newMockDB(t)
	defer sqlDB.Close()

	repo := NewBeerRepository(db)

	// Shadow-копия уже удалена предыдущей доставкой события
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "beers"`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "opinions"`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := repo.Delete(context.Background(), uuid.New())

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteByBreweryID_ScopedToBrewery(t *testing.T) {
	db, mock, sqlDB := newMockDB(t)
	defer sqlDB.Close()

	repo := NewBeerRepository(db)
	breweryID := uuid.New()

	// Мнения уходят по подзапросу на brewery_id, чужие пивоварни не затронуты
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "opinions" WHERE beer_id IN (SELECT`)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "beers" WHERE brewery_id = $1`)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	err := repo.DeleteByBreweryID(context.Background(), breweryID)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
