package service

import (
	"context"
	"io"
	"strings"
	"testing"

	"hoppyhub/beer-service/internal/app/beer/entity"
	"hoppyhub/beer-service/internal/app/beer/repository"
	"hoppyhub/beer-service/internal/app/beer/repository/mocks"
	"hoppyhub/pkg/events"
	"hoppyhub/pkg/pagination"
	"hoppyhub/pkg/querying"
	"hoppyhub/pkg/txn"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testTempURI = "http://localhost:8085/blobs/Beers/temp.jpg"

// stubImageClient записывает вызовы image-service
type stubImageClient struct {
	uploadedPaths   []string
	deletedPaths    []string
	deletedPrefixes []string
	uploadURI       string
	err             error
}

func (s *stubImageClient) Upload(ctx context.Context, path, filename string, content io.Reader) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.uploadedPaths = append(s.uploadedPaths, path)
	return s.uploadURI, nil
}

func (s *stubImageClient) DeleteByPath(ctx context.Context, path string) error {
	if s.err != nil {
		return s.err
	}
	s.deletedPaths = append(s.deletedPaths, path)
	return nil
}

func (s *stubImageClient) DeleteByPrefix(ctx context.Context, prefix string) error {
	if s.err != nil {
		return s.err
	}
	s.deletedPrefixes = append(s.deletedPrefixes, prefix)
	return nil
}

func newBeerService(beerRepo *mocks.MockBeerRepository, breweryRepo *mocks.MockBreweryRepository, imageRepo *mocks.MockBeerImageRepository, client ImageClient) *BeerService {
	return NewBeerService(beerRepo, breweryRepo, imageRepo, client, testTempURI)
}

// ===================== CreateBeer Tests =====================

func TestCreateBeer_Success(t *testing.T) {
	// Arrange
	beerRepo := new(mocks.MockBeerRepository)
	breweryRepo := new(mocks.MockBreweryRepository)
	imageRepo := new(mocks.MockBeerImageRepository)
	svc := newBeerService(beerRepo, breweryRepo, imageRepo, &stubImageClient{})

	brewery := &entity.Brewery{ID: uuid.New(), Name: "Baltika"}
	breweryRepo.On("GetByID", mock.Anything, brewery.ID).Return(brewery, nil)
	beerRepo.On("Create", mock.Anything, mock.AnythingOfType("*entity.Beer"), mock.MatchedBy(func(e events.Event) bool {
		created, ok := e.(events.BeerCreated)
		return ok && created.BreweryName == "Baltika"
	}), mock.Anything).Return(nil)

	req := &entity.CreateBeerRequest{Name: "Baltika 7", AlcoholByVolume: 5.4, BreweryID: brewery.ID}

	// Act
	beer, err := svc.CreateBeer(context.Background(), RoleAdmin, req)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "Baltika 7", beer.Name)
	assert.Equal(t, brewery.ID, beer.BreweryID)
	beerRepo.AssertExpectations(t)
}

func TestCreateBeer_NonAdminForbidden(t *testing.T) {
	// Arrange
	beerRepo := new(mocks.MockBeerRepository)
	breweryRepo := new(mocks.MockBreweryRepository)
	imageRepo := new(mocks.MockBeerImageRepository)
	svc := newBeerService(beerRepo, breweryRepo, imageRepo, &stubImageClient{})

	// Act
	beer, err := svc.CreateBeer(context.Background(), "User", &entity.CreateBeerRequest{Name: "X", BreweryID: uuid.New()})

	// Assert
	assert.Nil(t, beer)
	assert.ErrorIs(t, err, ErrForbidden)
	beerRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateBeer_UnknownBrewery(t *testing.T) {
	// Arrange
	beerRepo := new(mocks.MockBeerRepository)
	breweryRepo := new(mocks.MockBreweryRepository)
	imageRepo := new(mocks.MockBeerImageRepository)
	svc := newBeerService(beerRepo, breweryRepo, imageRepo, &stubImageClient{})

	breweryID := uuid.New()
	breweryRepo.On("GetByID", mock.Anything, breweryID).Return(nil, repository.ErrBreweryNotFound)

	// Act
	beer, err := svc.CreateBeer(context.Background(), RoleAdmin, &entity.CreateBeerRequest{Name: "X", BreweryID: breweryID})

	// Assert
	assert.Nil(t, beer)
	assert.ErrorIs(t, err, ErrBreweryNotFound)
}

// ===================== ListBeers Tests =====================

func TestListBeers_BuildsPredicatesInOrder(t *testing.T) {
	// Arrange
	beerRepo := new(mocks.MockBeerRepository)
	breweryRepo := new(mocks.MockBreweryRepository)
	imageRepo := new(mocks.MockBeerImageRepository)
	svc := newBeerService(beerRepo, breweryRepo, imageRepo, &stubImageClient{})

	page := pagination.Params{Page: 1, PageSize: 10}
	breweryID := uuid.NewString()

	beerRepo.On("List", mock.Anything, mock.MatchedBy(func(predicates []querying.Predicate) bool {
		return len(predicates) == 2
	}), "rating", true, page).Return([]entity.Beer{}, int64(0), nil)

	req := &entity.ListBeersRequest{
		BreweryID:     breweryID,
		SearchQuery:   "stout",
		SortBy:        "rating",
		SortDirection: "desc",
	}

	// Act
	_, _, err := svc.ListBeers(context.Background(), req, page)

	// Assert
	require.NoError(t, err)
	beerRepo.AssertExpectations(t)
}

func TestListBeers_UnknownSortKey(t *testing.T) {
	// Arrange
	beerRepo := new(mocks.MockBeerRepository)
	breweryRepo := new(mocks.MockBreweryRepository)
	imageRepo := new(mocks.MockBeerImageRepository)
	svc := newBeerService(beerRepo, breweryRepo, imageRepo, &stubImageClient{})

	// Act
	_, _, err := svc.ListBeers(context.Background(), &entity.ListBeersRequest{SortBy: "bitterness"}, pagination.Params{Page: 1, PageSize: 10})

	// Assert
	assert.ErrorIs(t, err, querying.ErrUnknownSortKey)
}

// ===================== DeleteBeer Tests =====================

func TestDeleteBeer_PassesBlobCleanupAction(t *testing.T) {
	// Arrange
	beerRepo := new(mocks.MockBeerRepository)
	breweryRepo := new(mocks.MockBreweryRepository)
	imageRepo := new(mocks.MockBeerImageRepository)
	svc := newBeerService(beerRepo, breweryRepo, imageRepo, &stubImageClient{})

	beer := &entity.Beer{ID: uuid.New(), BreweryID: uuid.New()}
	beerRepo.On("GetByID", mock.Anything, beer.ID).Return(beer, nil)
	beerRepo.On("Delete", mock.Anything, beer.ID, mock.MatchedBy(func(e events.Event) bool {
		return e.Type() == events.TypeBeerDeleted && e.Key() == beer.ID.String()
	}), mock.Anything).Return(nil)

	// Act
	err := svc.DeleteBeer(context.Background(), RoleAdmin, beer.ID)

	// Assert
	require.NoError(t, err)
	beerRepo.AssertExpectations(t)
}

// ===================== DeleteBeerImage Tests =====================

func TestDeleteBeerImage_ResetsToTemp(t *testing.T) {
	// Arrange
	beerRepo := new(mocks.MockBeerRepository)
	breweryRepo := new(mocks.MockBreweryRepository)
	imageRepo := new(mocks.MockBeerImageRepository)
	client := &stubImageClient{}
	svc := newBeerService(beerRepo, breweryRepo, imageRepo, client)

	beer := &entity.Beer{ID: uuid.New(), BreweryID: uuid.New()}
	image := &entity.BeerImage{BeerID: beer.ID, URI: "http://x/y.png", TempImage: false}

	imageRepo.On("GetByBeerID", mock.Anything, beer.ID).Return(image, nil)
	beerRepo.On("GetByID", mock.Anything, beer.ID).Return(beer, nil)
	// Удаление блоба передается как action той же транзакции, что и сброс
	imageRepo.On("ResetToTemp", mock.Anything, beer.ID, testTempURI, mock.MatchedBy(func(actions []txn.Action) bool {
		return len(actions) == 1
	})).Run(func(args mock.Arguments) {
		for _, action := range args.Get(3).([]txn.Action) {
			_ = action(context.Background(), nil)
		}
	}).Return(nil)

	// Act
	err := svc.DeleteBeerImage(context.Background(), RoleAdmin, beer.ID)

	// Assert
	require.NoError(t, err)
	require.Len(t, client.deletedPrefixes, 1)
	assert.True(t, strings.HasPrefix(client.deletedPrefixes[0], "Beers/"+beer.BreweryID.String()))
	imageRepo.AssertExpectations(t)
}

func TestDeleteBeerImage_AlreadyDeleted(t *testing.T) {
	// Arrange
	beerRepo := new(mocks.MockBeerRepository)
	breweryRepo := new(mocks.MockBreweryRepository)
	imageRepo := new(mocks.MockBeerImageRepository)
	client := &stubImageClient{}
	svc := newBeerService(beerRepo, breweryRepo, imageRepo, client)

	beerID := uuid.New()
	imageRepo.On("GetByBeerID", mock.Anything, beerID).
		Return(&entity.BeerImage{BeerID: beerID, URI: testTempURI, TempImage: true}, nil)

	// Act
	err := svc.DeleteBeerImage(context.Background(), RoleAdmin, beerID)

	// Assert
	assert.ErrorIs(t, err, ErrImageDeleted)
	assert.Empty(t, client.deletedPrefixes)
	imageRepo.AssertNotCalled(t, "ResetToTemp", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
