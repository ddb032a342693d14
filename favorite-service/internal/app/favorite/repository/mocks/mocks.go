package mocks

import (
	"context"

	"hoppyhub/favorite-service/internal/app/favorite/entity"
	"hoppyhub/pkg/pagination"
	"hoppyhub/pkg/querying"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockFavoriteRepository мок для FavoriteRepository
type MockFavoriteRepository struct {
	mock.Mock
}

func (m *MockFavoriteRepository) Create(ctx context.Context, favorite *entity.Favorite) error {
	args := m.Called(ctx, favorite)
	return args.Error(0)
}

func (m *MockFavoriteRepository) Delete(ctx context.Context, userID, beerID uuid.UUID) error {
	args := m.Called(ctx, userID, beerID)
	return args.Error(0)
}

func (m *MockFavoriteRepository) List(ctx context.Context, predicates []querying.Predicate, sortColumn string, sortDesc bool, page pagination.Params) ([]entity.Favorite, int64, error) {
	args := m.Called(ctx, predicates, sortColumn, sortDesc, page)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]entity.Favorite), args.Get(1).(int64), args.Error(2)
}

// MockBeerRepository мок для BeerRepository
type MockBeerRepository struct {
	mock.Mock
}

func (m *MockBeerRepository) CreateIfAbsent(ctx context.Context, beer *entity.Beer) error {
	args := m.Called(ctx, beer)
	return args.Error(0)
}

func (m *MockBeerRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Beer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Beer), args.Error(1)
}

func (m *MockBeerRepository) Update(ctx context.Context, id uuid.UUID, name string, breweryID uuid.UUID) error {
	args := m.Called(ctx, id, name, breweryID)
	return args.Error(0)
}

func (m *MockBeerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockBeerRepository) DeleteByBreweryID(ctx context.Context, breweryID uuid.UUID) error {
	args := m.Called(ctx, breweryID)
	return args.Error(0)
}

// MockUserRepository мок для UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) CreateIfAbsent(ctx context.Context, user *entity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateUsername(ctx context.Context, id uuid.UUID, username string) error {
	args := m.Called(ctx, id, username)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
