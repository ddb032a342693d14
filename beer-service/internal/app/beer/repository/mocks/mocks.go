package mocks

import (
	"context"

	"hoppyhub/beer-service/internal/app/beer/entity"
	"hoppyhub/pkg/events"
	"hoppyhub/pkg/pagination"
	"hoppyhub/pkg/querying"
	"hoppyhub/pkg/txn"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockBreweryRepository мок для BreweryRepository
type MockBreweryRepository struct {
	mock.Mock
}

func (m *MockBreweryRepository) Create(ctx context.Context, brewery *entity.Brewery) error {
	args := m.Called(ctx, brewery)
	return args.Error(0)
}

func (m *MockBreweryRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Brewery, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Brewery), args.Error(1)
}

func (m *MockBreweryRepository) GetAll(ctx context.Context) ([]entity.Brewery, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Brewery), args.Error(1)
}

func (m *MockBreweryRepository) List(ctx context.Context, predicates []querying.Predicate, sortColumn string, sortDesc bool, page pagination.Params) ([]entity.Brewery, int64, error) {
	args := m.Called(ctx, predicates, sortColumn, sortDesc, page)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]entity.Brewery), args.Get(1).(int64), args.Error(2)
}

func (m *MockBreweryRepository) Update(ctx context.Context, brewery *entity.Brewery) error {
	args := m.Called(ctx, brewery)
	return args.Error(0)
}

func (m *MockBreweryRepository) Delete(ctx context.Context, id uuid.UUID, event events.Event, actions ...txn.Action) error {
	args := m.Called(ctx, id, event, actions)
	return args.Error(0)
}

// MockBeerRepository мок для BeerRepository
type MockBeerRepository struct {
	mock.Mock
}

func (m *MockBeerRepository) Create(ctx context.Context, beer *entity.Beer, event events.Event, actions ...txn.Action) error {
	args := m.Called(ctx, beer, event, actions)
	return args.Error(0)
}

func (m *MockBeerRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Beer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Beer), args.Error(1)
}

func (m *MockBeerRepository) GetByBreweryID(ctx context.Context, breweryID uuid.UUID) ([]entity.Beer, error) {
	args := m.Called(ctx, breweryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Beer), args.Error(1)
}

func (m *MockBeerRepository) List(ctx context.Context, predicates []querying.Predicate, sortColumn string, sortDesc bool, page pagination.Params) ([]entity.Beer, int64, error) {
	args := m.Called(ctx, predicates, sortColumn, sortDesc, page)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]entity.Beer), args.Get(1).(int64), args.Error(2)
}

func (m *MockBeerRepository) Update(ctx context.Context, beer *entity.Beer, event events.Event) error {
	args := m.Called(ctx, beer, event)
	return args.Error(0)
}

func (m *MockBeerRepository) Delete(ctx context.Context, id uuid.UUID, event events.Event, actions ...txn.Action) error {
	args := m.Called(ctx, id, event, actions)
	return args.Error(0)
}

func (m *MockBeerRepository) ApplyOpinionStats(ctx context.Context, beerID uuid.UUID, opinionsCount int64, rating float64, version int64) (bool, error) {
	args := m.Called(ctx, beerID, opinionsCount, rating, version)
	return args.Bool(0), args.Error(1)
}

func (m *MockBeerRepository) ApplyFavoritesCount(ctx context.Context, beerID uuid.UUID, favoritesCount int64, version int64) (bool, error) {
	args := m.Called(ctx, beerID, favoritesCount, version)
	return args.Bool(0), args.Error(1)
}

// MockBeerImageRepository мок для BeerImageRepository
type MockBeerImageRepository struct {
	mock.Mock
}

func (m *MockBeerImageRepository) GetByBeerID(ctx context.Context, beerID uuid.UUID) (*entity.BeerImage, error) {
	args := m.Called(ctx, beerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.BeerImage), args.Error(1)
}

func (m *MockBeerImageRepository) Upsert(ctx context.Context, image *entity.BeerImage) error {
	args := m.Called(ctx, image)
	return args.Error(0)
}

func (m *MockBeerImageRepository) ResetToTemp(ctx context.Context, beerID uuid.UUID, tempURI string, actions ...txn.Action) error {
	args := m.Called(ctx, beerID, tempURI, actions)
	return args.Error(0)
}

func (m *MockBeerImageRepository) ResetByURI(ctx context.Context, uri, tempURI string) error {
	args := m.Called(ctx, uri, tempURI)
	return args.Error(0)
}
