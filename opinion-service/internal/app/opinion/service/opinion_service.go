package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"hoppyhub/opinion-service/internal/app/opinion/entity"
	"hoppyhub/opinion-service/internal/app/opinion/repository"
	"hoppyhub/pkg/metrics"
	"hoppyhub/pkg/pagination"
	"hoppyhub/pkg/querying"
	"hoppyhub/pkg/txn"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrOpinionNotFound = errors.New("opinion not found")
	ErrBeerNotFound    = errors.New("beer not found")
	ErrForbidden       = errors.New("operation not allowed")
)

// RoleAdmin - роль администратора из JWT claims user-service
const RoleAdmin = "Administrator"

// Сортировка списка мнений: первый ключ - сортировка по умолчанию
var opinionSorting = querying.NewSortingMap().
	Add("created", "created_at").
	Add("rating", "rating").
	Add("updated", "updated_at")

// OpinionService обрабатывает бизнес-логику мнений о пиве
// Автор берется из явного actorID, наличие пива проверяется по shadow-копии.
// Каждая мутация через репозиторий пересчитывает агрегаты пива и кладет
// BEER_OPINION_CHANGED в outbox той же транзакцией
type OpinionService struct {
	opinionRepo repository.OpinionRepository
	beerRepo    repository.BeerRepository
	userRepo    repository.UserRepository
	imageClient ImageClient
}

// NewOpinionService создает новый сервис мнений
func NewOpinionService(
	opinionRepo repository.OpinionRepository,
	beerRepo repository.BeerRepository,
	userRepo repository.UserRepository,
	imageClient ImageClient,
) *OpinionService {
	return &OpinionService{
		opinionRepo: opinionRepo,
		beerRepo:    beerRepo,
		userRepo:    userRepo,
		imageClient: imageClient,
	}
}

// CreateOpinion создает мнение от имени actorID
// Картинка опциональна: блоб кладется по пути
// Opinions/{breweryId}/{beerId}/{userId}{ext} до локальной транзакции
func (s *OpinionService) CreateOpinion(ctx context.Context, actorID uuid.UUID, req *entity.CreateOpinionRequest, filename string, content io.Reader) (*entity.Opinion, error) {
	beerID, err := uuid.Parse(req.BeerID)
	if err != nil {
		return nil, ErrBeerNotFound
	}

	beer, err := s.beerRepo.GetByID(ctx, beerID)
	if err != nil {
		if errors.Is(err, repository.ErrBeerNotFound) {
			return nil, ErrBeerNotFound
		}
		return nil, fmt.Errorf("failed to verify beer: %w", err)
	}

	imageURI := ""
	if content != nil {
		path := opinionBlobKey(beer.BreweryID, beer.ID, actorID) + strings.ToLower(filepath.Ext(filename))
		imageURI, err = s.imageClient.Upload(ctx, path, filename, content)
		if err != nil {
			return nil, fmt.Errorf("failed to upload opinion image: %w", err)
		}
	}

	opinion := &entity.Opinion{
		ID:        uuid.New(),
		BeerID:    beer.ID,
		UserID:    actorID,
		Rating:    req.Rating,
		Comment:   req.Comment,
		ImageURI:  imageURI,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err := s.opinionRepo.Create(ctx, opinion); err != nil {
		return nil, fmt.Errorf("failed to create opinion: %w", err)
	}

	metrics.OpinionsCreated.Inc()
	metrics.OpinionsRating.Observe(float64(opinion.Rating))

	return opinion, nil
}

// GetOpinion получает мнение вместе с shadow-копиями пива и автора
// Отсутствие shadow-копий не ошибка: ответ рендерится без имен
func (s *OpinionService) GetOpinion(ctx context.Context, id uuid.UUID) (*entity.Opinion, *entity.Beer, *entity.User, error) {
	opinion, err := s.opinionRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrOpinionNotFound) {
			return nil, nil, nil, ErrOpinionNotFound
		}
		return nil, nil, nil, fmt.Errorf("failed to get opinion: %w", err)
	}

	beer, err := s.beerRepo.GetByID(ctx, opinion.BeerID)
	if err != nil && !errors.Is(err, repository.ErrBeerNotFound) {
		return nil, nil, nil, fmt.Errorf("failed to get beer: %w", err)
	}

	user, err := s.userRepo.GetByID(ctx, opinion.UserID)
	if err != nil && !errors.Is(err, repository.ErrUserNotFound) {
		return nil, nil, nil, fmt.Errorf("failed to get user: %w", err)
	}

	return opinion, beer, user, nil
}

// ListOpinions возвращает страницу мнений по фильтрам запроса
// Предикаты собираются в фиксированном порядке: точные фильтры, затем поиск
func (s *OpinionService) ListOpinions(ctx context.Context, req *entity.ListOpinionsRequest, page pagination.Params) ([]entity.Opinion, int64, error) {
	sortColumn, err := opinionSorting.Resolve(req.SortBy)
	if err != nil {
		return nil, 0, err
	}

	var predicates []querying.Predicate
	if req.BeerID != "" {
		predicates = append(predicates, querying.Equals("beer_id", req.BeerID))
	}
	if req.UserID != "" {
		predicates = append(predicates, querying.Equals("user_id", req.UserID))
	}
	if strings.TrimSpace(req.SearchQuery) != "" {
		predicates = append(predicates, querying.Search(req.SearchQuery, "comment"))
	}

	opinions, total, err := s.opinionRepo.List(ctx, predicates, sortColumn, req.SortDirection == "desc", page)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list opinions: %w", err)
	}

	return opinions, total, nil
}

// UpdateOpinion обновляет мнение (только автор)
// Новая картинка перезаписывает блоб по тому же пути
func (s *OpinionService) UpdateOpinion(ctx context.Context, actorID uuid.UUID, id uuid.UUID, req *entity.UpdateOpinionRequest, filename string, content io.Reader) (*entity.Opinion, error) {
	opinion, err := s.opinionRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrOpinionNotFound) {
			return nil, ErrOpinionNotFound
		}
		return nil, fmt.Errorf("failed to get opinion: %w", err)
	}

	if opinion.UserID != actorID {
		return nil, ErrForbidden
	}

	if content != nil {
		beer, err := s.beerRepo.GetByID(ctx, opinion.BeerID)
		if err != nil {
			if errors.Is(err, repository.ErrBeerNotFound) {
				return nil, ErrBeerNotFound
			}
			return nil, fmt.Errorf("failed to verify beer: %w", err)
		}

		path := opinionBlobKey(beer.BreweryID, beer.ID, actorID) + strings.ToLower(filepath.Ext(filename))
		uri, err := s.imageClient.Upload(ctx, path, filename, content)
		if err != nil {
			return nil, fmt.Errorf("failed to upload opinion image: %w", err)
		}
		opinion.ImageURI = uri
	}

	opinion.Rating = req.Rating
	opinion.Comment = req.Comment

	if err := s.opinionRepo.Update(ctx, opinion); err != nil {
		if errors.Is(err, repository.ErrOpinionNotFound) {
			return nil, ErrOpinionNotFound
		}
		return nil, fmt.Errorf("failed to update opinion: %w", err)
	}

	return opinion, nil
}

// DeleteOpinion удаляет мнение (автор или администратор)
// Блоб картинки чистится через image-service той же транзакцией,
// его отказ откатывает удаление и пересчет агрегатов
func (s *OpinionService) DeleteOpinion(ctx context.Context, actorID uuid.UUID, actorRole string, id uuid.UUID) error {
	opinion, err := s.opinionRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrOpinionNotFound) {
			return ErrOpinionNotFound
		}
		return fmt.Errorf("failed to get opinion: %w", err)
	}

	if opinion.UserID != actorID && actorRole != RoleAdmin {
		return ErrForbidden
	}

	var actions []txn.Action
	if opinion.ImageURI != "" {
		beer, err := s.beerRepo.GetByID(ctx, opinion.BeerID)
		if err != nil && !errors.Is(err, repository.ErrBeerNotFound) {
			return fmt.Errorf("failed to get beer: %w", err)
		}
		if beer != nil {
			actions = append(actions, blobPrefixCleanup(s.imageClient, opinionBlobKey(beer.BreweryID, beer.ID, opinion.UserID)))
		}
	}

	if err := s.opinionRepo.Delete(ctx, id, opinion.BeerID, actions...); err != nil {
		if errors.Is(err, repository.ErrOpinionNotFound) {
			return ErrOpinionNotFound
		}
		return fmt.Errorf("failed to delete opinion: %w", err)
	}

	return nil
}

// SortKeys возвращает допустимые ключи сортировки для валидации запросов
func (s *OpinionService) SortKeys() []string {
	return opinionSorting.Keys()
}

// opinionBlobKey - путь блоба картинки мнения без расширения
func opinionBlobKey(breweryID, beerID, userID uuid.UUID) string {
	return fmt.Sprintf("Opinions/%s/%s/%s", breweryID, beerID, userID)
}

// blobPrefixCleanup - action для txn.Run: чистит блобы под префиксом,
// ошибка image-service откатывает локальную транзакцию
func blobPrefixCleanup(client ImageClient, prefix string) txn.Action {
	return func(ctx context.Context, tx *gorm.DB) error {
		return client.DeleteByPrefix(ctx, prefix)
	}
}
