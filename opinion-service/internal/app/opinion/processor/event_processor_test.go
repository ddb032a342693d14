package processor

import (
	"context"
	"fmt"
	"testing"

	"hoppyhub/opinion-service/internal/app/opinion/entity"
	"hoppyhub/opinion-service/internal/app/opinion/repository/mocks"
	"hoppyhub/pkg/events"
	"hoppyhub/pkg/txn"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type stubImageClient struct {
	deletedPrefixes []string
}

func (s *stubImageClient) DeleteByPrefix(ctx context.Context, prefix string) error {
	s.deletedPrefixes = append(s.deletedPrefixes, prefix)
	return nil
}

// runActions выполняет переданные в мок txn.Action как это сделала бы
// транзакция репозитория
func runActions(argIndex int) func(mock.Arguments) {
	return func(args mock.Arguments) {
		actions := args.Get(argIndex).([]txn.Action)
		for _, action := range actions {
			_ = action(context.Background(), nil)
		}
	}
}

// ===================== Beer Event Tests =====================

func TestHandleBeerEvent_CreatedFillsShadow(t *testing.T) {
	beerRepo := new(mocks.MockBeerRepository)
	userRepo := new(mocks.MockUserRepository)
	p := NewEventProcessor(beerRepo, userRepo, &stubImageClient{})

	event := events.NewBeerCreated(uuid.New(), "Zhigulevskoe", uuid.New(), "Baltika")
	beerRepo.On("CreateIfAbsent", mock.Anything, mock.MatchedBy(func(b *entity.Beer) bool {
		return b.ID == event.ID && b.Name == event.Name && b.BreweryID == event.BreweryID
	})).Return(nil)

	err := p.HandleBeerEvent(context.Background(), event)

	require.NoError(t, err)
	beerRepo.AssertExpectations(t)
}

func TestHandleBeerEvent_UpdatedRefreshesNameAndBrewery(t *testing.T) {
	beerRepo := new(mocks.MockBeerRepository)
	userRepo := new(mocks.MockUserRepository)
	p := NewEventProcessor(beerRepo, userRepo, &stubImageClient{})

	event := events.NewBeerUpdated(uuid.New(), "Zhigulevskoe Premium", uuid.New())
	beerRepo.On("Update", mock.Anything, event.ID, event.Name, event.BreweryID).Return(nil)

	err := p.HandleBeerEvent(context.Background(), event)

	require.NoError(t, err)
	beerRepo.AssertExpectations(t)
}

func TestHandleBeerEvent_DeletedCascadesWithBlobCleanup(t *testing.T) {
	beerRepo := new(mocks.MockBeerRepository)
	userRepo := new(mocks.MockUserRepository)
	imageClient := &stubImageClient{}
	p := NewEventProcessor(beerRepo, userRepo, imageClient)

	event := events.NewBeerDeleted(uuid.New(), uuid.New())
	beerRepo.On("Delete", mock.Anything, event.ID, mock.MatchedBy(func(actions []txn.Action) bool {
		return len(actions) == 1
	})).Run(runActions(2)).Return(nil)

	err := p.HandleBeerEvent(context.Background(), event)

	require.NoError(t, err)
	expectedPrefix := fmt.Sprintf("Opinions/%s/%s", event.BreweryID, event.ID)
	assert.Equal(t, []string{expectedPrefix}, imageClient.deletedPrefixes)
}

func TestHandleBeerEvent_BreweryDeletedCascades(t *testing.T) {
	beerRepo := new(mocks.MockBeerRepository)
	userRepo := new(mocks.MockUserRepository)
	imageClient := &stubImageClient{}
	p := NewEventProcessor(beerRepo, userRepo, imageClient)

	event := events.NewBreweryDeleted(uuid.New())
	beerRepo.On("DeleteByBreweryID", mock.Anything, event.ID, mock.Anything).
		Run(runActions(2)).Return(nil)

	err := p.HandleBeerEvent(context.Background(), event)

	require.NoError(t, err)
	expectedPrefix := fmt.Sprintf("Opinions/%s", event.ID)
	assert.Equal(t, []string{expectedPrefix}, imageClient.deletedPrefixes)
}

func TestHandleBeerEvent_ForeignEventSkipped(t *testing.T) {
	beerRepo := new(mocks.MockBeerRepository)
	userRepo := new(mocks.MockUserRepository)
	p := NewEventProcessor(beerRepo, userRepo, &stubImageClient{})

	err := p.HandleBeerEvent(context.Background(), events.NewUserDeleted(uuid.New()))

	require.NoError(t, err)
	beerRepo.AssertNotCalled(t, "Delete")
	beerRepo.AssertNotCalled(t, "CreateIfAbsent")
}

// ===================== User Event Tests =====================

func TestHandleUserEvent_CreatedFillsShadow(t *testing.T) {
	beerRepo := new(mocks.MockBeerRepository)
	userRepo := new(mocks.MockUserRepository)
	p := NewEventProcessor(beerRepo, userRepo, &stubImageClient{})

	event := events.NewUserCreated(uuid.New(), "beerlover", "User")
	userRepo.On("CreateIfAbsent", mock.Anything, mock.MatchedBy(func(u *entity.User) bool {
		return u.ID == event.ID && u.Username == event.Username
	})).Return(nil)

	err := p.HandleUserEvent(context.Background(), event)

	require.NoError(t, err)
	userRepo.AssertExpectations(t)
}

func TestHandleUserEvent_DeletedSoftDeletes(t *testing.T) {
	beerRepo := new(mocks.MockBeerRepository)
	userRepo := new(mocks.MockUserRepository)
	p := NewEventProcessor(beerRepo, userRepo, &stubImageClient{})

	event := events.NewUserDeleted(uuid.New())
	userRepo.On("SoftDelete", mock.Anything, event.ID).Return(nil)

	err := p.HandleUserEvent(context.Background(), event)

	require.NoError(t, err)
	userRepo.AssertExpectations(t)
}

func TestHandleUserEvent_UpdatedRenamesShadow(t *testing.T) {
	beerRepo := new(mocks.MockBeerRepository)
	userRepo := new(mocks.MockUserRepository)
	p := NewEventProcessor(beerRepo, userRepo, &stubImageClient{})

	event := events.NewUserUpdated(uuid.New(), "renamed")
	userRepo.On("UpdateUsername", mock.Anything, event.ID, "renamed").Return(nil)

	err := p.HandleUserEvent(context.Background(), event)

	require.NoError(t, err)
	userRepo.AssertExpectations(t)
}
