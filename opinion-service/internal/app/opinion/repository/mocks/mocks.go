package mocks

import (
	"context"

	"hoppyhub/opinion-service/internal/app/opinion/entity"
	"hoppyhub/pkg/pagination"
	"hoppyhub/pkg/querying"
	"hoppyhub/pkg/txn"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockOpinionRepository мок для OpinionRepository
type MockOpinionRepository struct {
	mock.Mock
}

func (m *MockOpinionRepository) Create(ctx context.Context, opinion *entity.Opinion, actions ...txn.Action) error {
	args := m.Called(ctx, opinion, actions)
	return args.Error(0)
}

func (m *MockOpinionRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Opinion, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Opinion), args.Error(1)
}

func (m *MockOpinionRepository) List(ctx context.Context, predicates []querying.Predicate, sortColumn string, sortDesc bool, page pagination.Params) ([]entity.Opinion, int64, error) {
	args := m.Called(ctx, predicates, sortColumn, sortDesc, page)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]entity.Opinion), args.Get(1).(int64), args.Error(2)
}

func (m *MockOpinionRepository) Update(ctx context.Context, opinion *entity.Opinion, actions ...txn.Action) error {
	args := m.Called(ctx, opinion, actions)
	return args.Error(0)
}

func (m *MockOpinionRepository) Delete(ctx context.Context, id, beerID uuid.UUID, actions ...txn.Action) error {
	args := m.Called(ctx, id, beerID, actions)
	return args.Error(0)
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

func (m *MockBeerRepository) Delete(ctx context.Context, id uuid.UUID, actions ...txn.Action) error {
	args := m.Called(ctx, id, actions)
	return args.Error(0)
}

func (m *MockBeerRepository) DeleteByBreweryID(ctx context.Context, breweryID uuid.UUID, actions ...txn.Action) error {
	args := m.Called(ctx, breweryID, actions)
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

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) UpdateUsername(ctx context.Context, id uuid.UUID, username string) error {
	args := m.Called(ctx, id, username)
	return args.Error(0)
}

func (m *MockUserRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
