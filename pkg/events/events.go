package events

import (
	"time"

	"github.com/google/uuid"
)

// Топики Kafka: топик на сервис-producer, fan-out через consumer groups
const (
	TopicUserEvents     = "user_events"
	TopicBeerEvents     = "beer_events"
	TopicOpinionEvents  = "opinion_events"
	TopicFavoriteEvents = "favorite_events"
	TopicImageEvents    = "image_events"
)

// Типы событий (дискриминатор event_type в JSON)
const (
	TypeBeerCreated    = "BEER_CREATED"
	TypeBeerUpdated    = "BEER_UPDATED"
	TypeBeerDeleted    = "BEER_DELETED"
	TypeBreweryDeleted = "BREWERY_DELETED"

	TypeUserCreated = "USER_CREATED"
	TypeUserUpdated = "USER_UPDATED"
	TypeUserDeleted = "USER_DELETED"

	TypeBeerOpinionChanged        = "BEER_OPINION_CHANGED"
	TypeBeerFavoritesCountChanged = "BEER_FAVORITES_COUNT_CHANGED"

	TypeImageUploaded = "IMAGE_UPLOADED"
	TypeImageDeleted  = "IMAGE_DELETED"
	TypeImagesDeleted = "IMAGES_DELETED"
)

// Event - общий контракт события
// Key возвращает ключ партиционирования (ID агрегата),
// чтобы события одного агрегата попадали в одну партицию
type Event interface {
	Type() string
	Key() string
	Topic() string
}

// BeerCreated публикуется beer-service после создания пива
// Заполняет shadow-копии Beer в opinion-service и favorite-service
type BeerCreated struct {
	EventType   string    `json:"event_type"`
	ID          uuid.UUID `json:"id" validate:"required"`
	Name        string    `json:"name" validate:"required,max=200"`
	BreweryID   uuid.UUID `json:"brewery_id" validate:"required"`
	BreweryName string    `json:"brewery_name" validate:"required,max=200"`
	OccurredAt  time.Time `json:"occurred_at"`
}

func NewBeerCreated(id uuid.UUID, name string, breweryID uuid.UUID, breweryName string) BeerCreated {
	return BeerCreated{
		EventType:   TypeBeerCreated,
		ID:          id,
		Name:        name,
		BreweryID:   breweryID,
		BreweryName: breweryName,
		OccurredAt:  time.Now().UTC(),
	}
}

func (e BeerCreated) Type() string  { return TypeBeerCreated }
func (e BeerCreated) Key() string   { return e.ID.String() }
func (e BeerCreated) Topic() string { return TopicBeerEvents }

// BeerUpdated обновляет имя/пивоварню в shadow-копиях Beer
type BeerUpdated struct {
	EventType  string    `json:"event_type"`
	ID         uuid.UUID `json:"id" validate:"required"`
	Name       string    `json:"name" validate:"required,max=200"`
	BreweryID  uuid.UUID `json:"brewery_id" validate:"required"`
	OccurredAt time.Time `json:"occurred_at"`
}

func NewBeerUpdated(id uuid.UUID, name string, breweryID uuid.UUID) BeerUpdated {
	return BeerUpdated{
		EventType:  TypeBeerUpdated,
		ID:         id,
		Name:       name,
		BreweryID:  breweryID,
		OccurredAt: time.Now().UTC(),
	}
}

func (e BeerUpdated) Type() string  { return TypeBeerUpdated }
func (e BeerUpdated) Key() string   { return e.ID.String() }
func (e BeerUpdated) Topic() string { return TopicBeerEvents }

// BeerDeleted удаляет shadow-копию Beer и запускает каскадную очистку
// (мнения и их изображения в opinion-service, избранное в favorite-service)
type BeerDeleted struct {
	EventType  string    `json:"event_type"`
	ID         uuid.UUID `json:"id" validate:"required"`
	BreweryID  uuid.UUID `json:"brewery_id" validate:"required"`
	OccurredAt time.Time `json:"occurred_at"`
}

func NewBeerDeleted(id, breweryID uuid.UUID) BeerDeleted {
	return BeerDeleted{
		EventType:  TypeBeerDeleted,
		ID:         id,
		BreweryID:  breweryID,
		OccurredAt: time.Now().UTC(),
	}
}

func (e BeerDeleted) Type() string  { return TypeBeerDeleted }
func (e BeerDeleted) Key() string   { return e.ID.String() }
func (e BeerDeleted) Topic() string { return TopicBeerEvents }

// BreweryDeleted удаляет все пива пивоварни в shadow-копиях
type BreweryDeleted struct {
	EventType  string    `json:"event_type"`
	ID         uuid.UUID `json:"id" validate:"required"`
	OccurredAt time.Time `json:"occurred_at"`
}

func NewBreweryDeleted(id uuid.UUID) BreweryDeleted {
	return BreweryDeleted{
		EventType:  TypeBreweryDeleted,
		ID:         id,
		OccurredAt: time.Now().UTC(),
	}
}

func (e BreweryDeleted) Type() string  { return TypeBreweryDeleted }
func (e BreweryDeleted) Key() string   { return e.ID.String() }
func (e BreweryDeleted) Topic() string { return TopicBeerEvents }

// UserCreated заполняет shadow-копии User
type UserCreated struct {
	EventType  string    `json:"event_type"`
	ID         uuid.UUID `json:"id" validate:"required"`
	Username   string    `json:"username" validate:"required,max=256"`
	Role       string    `json:"role" validate:"required"`
	OccurredAt time.Time `json:"occurred_at"`
}

func NewUserCreated(id uuid.UUID, username, role string) UserCreated {
	return UserCreated{
		EventType:  TypeUserCreated,
		ID:         id,
		Username:   username,
		Role:       role,
		OccurredAt: time.Now().UTC(),
	}
}

func (e UserCreated) Type() string  { return TypeUserCreated }
func (e UserCreated) Key() string   { return e.ID.String() }
func (e UserCreated) Topic() string { return TopicUserEvents }

// UserUpdated обновляет username в shadow-копиях User
type UserUpdated struct {
	EventType  string    `json:"event_type"`
	ID         uuid.UUID `json:"id" validate:"required"`
	Username   string    `json:"username" validate:"required,max=256"`
	OccurredAt time.Time `json:"occurred_at"`
}

func NewUserUpdated(id uuid.UUID, username string) UserUpdated {
	return UserUpdated{
		EventType:  TypeUserUpdated,
		ID:         id,
		Username:   username,
		OccurredAt: time.Now().UTC(),
	}
}

func (e UserUpdated) Type() string  { return TypeUserUpdated }
func (e UserUpdated) Key() string   { return e.ID.String() }
func (e UserUpdated) Topic() string { return TopicUserEvents }

// UserDeleted удаляет shadow-копию User
// opinion-service выполняет soft delete (сохраняет авторство мнений),
// favorite-service удаляет строку полностью
type UserDeleted struct {
	EventType  string    `json:"event_type"`
	ID         uuid.UUID `json:"id" validate:"required"`
	OccurredAt time.Time `json:"occurred_at"`
}

func NewUserDeleted(id uuid.UUID) UserDeleted {
	return UserDeleted{
		EventType:  TypeUserDeleted,
		ID:         id,
		OccurredAt: time.Now().UTC(),
	}
}

func (e UserDeleted) Type() string  { return TypeUserDeleted }
func (e UserDeleted) Key() string   { return e.ID.String() }
func (e UserDeleted) Topic() string { return TopicUserEvents }

// BeerOpinionChanged несёт абсолютные значения производного агрегата
// (не дельты): консюмер перезаписывает, никогда не инкрементирует.
// Version монотонно растёт для каждого пива, устаревшие события отбрасываются
type BeerOpinionChanged struct {
	EventType     string    `json:"event_type"`
	BeerID        uuid.UUID `json:"beer_id" validate:"required"`
	OpinionsCount int64     `json:"opinions_count" validate:"gte=0"`
	NewBeerRating float64   `json:"new_beer_rating" validate:"gte=0"`
	Version       int64     `json:"version" validate:"gt=0"`
	OccurredAt    time.Time `json:"occurred_at"`
}

func NewBeerOpinionChanged(beerID uuid.UUID, opinionsCount int64, newBeerRating float64, version int64) BeerOpinionChanged {
	return BeerOpinionChanged{
		EventType:     TypeBeerOpinionChanged,
		BeerID:        beerID,
		OpinionsCount: opinionsCount,
		NewBeerRating: newBeerRating,
		Version:       version,
		OccurredAt:    time.Now().UTC(),
	}
}

func (e BeerOpinionChanged) Type() string  { return TypeBeerOpinionChanged }
func (e BeerOpinionChanged) Key() string   { return e.BeerID.String() }
func (e BeerOpinionChanged) Topic() string { return TopicOpinionEvents }

// BeerFavoritesCountChanged - абсолютное количество избранного для пива
type BeerFavoritesCountChanged struct {
	EventType      string    `json:"event_type"`
	BeerID         uuid.UUID `json:"beer_id" validate:"required"`
	FavoritesCount int64     `json:"favorites_count" validate:"gte=0"`
	Version        int64     `json:"version" validate:"gt=0"`
	OccurredAt     time.Time `json:"occurred_at"`
}

func NewBeerFavoritesCountChanged(beerID uuid.UUID, favoritesCount int64, version int64) BeerFavoritesCountChanged {
	return BeerFavoritesCountChanged{
		EventType:      TypeBeerFavoritesCountChanged,
		BeerID:         beerID,
		FavoritesCount: favoritesCount,
		Version:        version,
		OccurredAt:     time.Now().UTC(),
	}
}

func (e BeerFavoritesCountChanged) Type() string  { return TypeBeerFavoritesCountChanged }
func (e BeerFavoritesCountChanged) Key() string   { return e.BeerID.String() }
func (e BeerFavoritesCountChanged) Topic() string { return TopicFavoriteEvents }

// ImageUploaded публикуется image-service после сохранения blob
type ImageUploaded struct {
	EventType  string    `json:"event_type"`
	URI        string    `json:"uri" validate:"required,url"`
	Path       string    `json:"path" validate:"required,max=256"`
	OccurredAt time.Time `json:"occurred_at"`
}

func NewImageUploaded(uri, path string) ImageUploaded {
	return ImageUploaded{
		EventType:  TypeImageUploaded,
		URI:        uri,
		Path:       path,
		OccurredAt: time.Now().UTC(),
	}
}

func (e ImageUploaded) Type() string  { return TypeImageUploaded }
func (e ImageUploaded) Key() string   { return e.Path }
func (e ImageUploaded) Topic() string { return TopicImageEvents }

// ImageDeleted публикуется image-service после удаления одного blob
type ImageDeleted struct {
	EventType  string    `json:"event_type"`
	URI        string    `json:"uri" validate:"required,url"`
	OccurredAt time.Time `json:"occurred_at"`
}

func NewImageDeleted(uri string) ImageDeleted {
	return ImageDeleted{
		EventType:  TypeImageDeleted,
		URI:        uri,
		OccurredAt: time.Now().UTC(),
	}
}

func (e ImageDeleted) Type() string  { return TypeImageDeleted }
func (e ImageDeleted) Key() string   { return e.URI }
func (e ImageDeleted) Topic() string { return TopicImageEvents }

// ImagesDeleted публикуется image-service после удаления blob по префиксу
// Prefix - общий префикс пакета, он же ключ партиционирования: все
// события одного каскада (одно пиво, одна пивоварня) идут по порядку
type ImagesDeleted struct {
	EventType  string    `json:"event_type"`
	Prefix     string    `json:"prefix" validate:"required,max=256"`
	Paths      []string  `json:"paths" validate:"required,min=1,dive,required,max=256"`
	OccurredAt time.Time `json:"occurred_at"`
}

func NewImagesDeleted(prefix string, paths []string) ImagesDeleted {
	return ImagesDeleted{
		EventType:  TypeImagesDeleted,
		Prefix:     prefix,
		Paths:      paths,
		OccurredAt: time.Now().UTC(),
	}
}

func (e ImagesDeleted) Type() string { return TypeImagesDeleted }

func (e ImagesDeleted) Key() string { return e.Prefix }

func (e ImagesDeleted) Topic() string { return TopicImageEvents }
