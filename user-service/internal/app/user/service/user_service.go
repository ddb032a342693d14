package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"hoppyhub/pkg/events"
	"hoppyhub/pkg/metrics"
	"hoppyhub/pkg/pagination"
	"hoppyhub/pkg/querying"
	"hoppyhub/user-service/internal/app/user/entity"
	"hoppyhub/user-service/internal/app/user/repository"
	"hoppyhub/user-service/internal/app/user/util"

	"github.com/google/uuid"
)

var (
	// Ошибки бизнес-логики для обработки в handlers
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email is already taken")
	ErrUsernameTaken      = errors.New("username is already taken")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrForbidden          = errors.New("operation not permitted for this user")
)

// Сортировка списка пользователей: первый ключ - сортировка по умолчанию
var userSorting = querying.NewSortingMap().
	Add("username", "username").
	Add("email", "email").
	Add("role", "role").
	Add("created", "created_at")

// UserService обрабатывает бизнес-логику пользователей
// Идентичность вызывающего передаётся явными параметрами, не из контекста
type UserService struct {
	userRepo   repository.UserRepository
	jwtManager *util.JWTManager
}

// NewUserService создает новый сервис пользователей
func NewUserService(userRepo repository.UserRepository, jwtManager *util.JWTManager) *UserService {
	return &UserService{
		userRepo:   userRepo,
		jwtManager: jwtManager,
	}
}

// Register создает нового пользователя
// Запись пользователя и событие USER_CREATED фиксируются одной транзакцией
func (s *UserService) Register(ctx context.Context, req *entity.RegisterRequest) (*entity.User, error) {
	if _, err := s.userRepo.GetByEmail(ctx, req.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	if _, err := s.userRepo.GetByUsername(ctx, req.Username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}

	passwordHash, err := util.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &entity.User{
		ID:           uuid.New(),
		Username:     req.Username,
		Email:        strings.ToLower(req.Email),
		PasswordHash: passwordHash,
		Role:         entity.RoleUser,
		CreatedAt:    time.Now(),
	}

	event := events.NewUserCreated(user.ID, user.Username, user.Role)
	if err := s.userRepo.Create(ctx, user, event); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	metrics.UsersRegistered.Inc()
	return user, nil
}

// Login проверяет учетные данные и выдает access token
func (s *UserService) Login(ctx context.Context, req *entity.LoginRequest) (*entity.TokenResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, strings.ToLower(req.Email))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if !util.CheckPassword(req.Password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	token, err := s.jwtManager.GenerateAccessToken(user.ID, user.Username, user.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return &entity.TokenResponse{
		AccessToken: token,
		User:        entity.NewUserResponse(user),
	}, nil
}

// GetUser получает пользователя по ID
func (s *UserService) GetUser(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return user, nil
}

// ListUsers возвращает страницу пользователей по фильтрам запроса
// Предикаты собираются в фиксированном порядке: точные фильтры, затем поиск
func (s *UserService) ListUsers(ctx context.Context, req *entity.ListUsersRequest, page pagination.Params) ([]entity.User, int64, error) {
	sortColumn, err := userSorting.Resolve(req.SortBy)
	if err != nil {
		return nil, 0, err
	}

	var predicates []querying.Predicate
	if req.Role != "" {
		predicates = append(predicates, querying.Equals("role", req.Role))
	}
	if strings.TrimSpace(req.SearchQuery) != "" {
		predicates = append(predicates, querying.Search(req.SearchQuery, "username", "email"))
	}

	users, total, err := s.userRepo.List(ctx, predicates, sortColumn, req.SortDirection == "desc", page)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}

	return users, total, nil
}

// UpdateUser меняет username
// Разрешено самому пользователю или администратору
func (s *UserService) UpdateUser(ctx context.Context, actorID uuid.UUID, actorRole string, targetID uuid.UUID, req *entity.UpdateUserRequest) (*entity.User, error) {
	if actorID != targetID && actorRole != entity.RoleAdmin {
		return nil, ErrForbidden
	}

	user, err := s.userRepo.GetByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if existing, err := s.userRepo.GetByUsername(ctx, req.Username); err == nil && existing.ID != targetID {
		return nil, ErrUsernameTaken
	} else if err != nil && !errors.Is(err, repository.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}

	user.Username = req.Username

	event := events.NewUserUpdated(user.ID, user.Username)
	if err := s.userRepo.Update(ctx, user, event); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return user, nil
}

// DeleteUser удаляет учетную запись
// Разрешено самому пользователю или администратору.
// Событие USER_DELETED уходит через outbox: opinion-service делает soft delete
// shadow-копии, favorite-service удаляет её вместе с избранным
func (s *UserService) DeleteUser(ctx context.Context, actorID uuid.UUID, actorRole string, targetID uuid.UUID) error {
	if actorID != targetID && actorRole != entity.RoleAdmin {
		return ErrForbidden
	}

	event := events.NewUserDeleted(targetID)
	if err := s.userRepo.Delete(ctx, targetID, event); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to delete user: %w", err)
	}

	return nil
}

// SortKeys возвращает допустимые ключи сортировки для валидации запросов
func (s *UserService) SortKeys() []string {
	return userSorting.Keys()
}
