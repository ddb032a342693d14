package repository

import (
	"context"
	"regexp"
	"testing"

	"hoppyhub/favorite-service/internal/app/favorite/entity"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ===================== Beer Shadow Tests =====================

func TestCreateBeerShadow_DuplicateDeliveryKeepsOneRow(t *testing.T) {
	db, mock, sqlDB := newMockDB(t)
	defer sqlDB.Close()

	repo := NewBeerRepository(db)
	beer := &entity.Beer{ID: uuid.New(), Name: "Zhigulevskoe", BreweryID: uuid.New()}

	// Первая доставка вставляет строку, повторную гасит ON CONFLICT
	insertPattern := regexp.QuoteMeta(`INSERT INTO "beers" ("id","name","brewery_id") VALUES ($1,$2,$3) ON CONFLICT ("id") DO NOTHING`)

	mock.ExpectBegin()
	mock.ExpectExec(insertPattern).
		WithArgs(beer.ID.String(), beer.Name, beer.BreweryID.String()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	mock.ExpectBegin()
	mock.ExpectExec(insertPattern).
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
