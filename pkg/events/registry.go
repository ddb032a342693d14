package events

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

var (
	ErrUnknownEventType = errors.New("unknown event type")
	ErrInvalidEvent     = errors.New("event failed validation")
)

// Один validator на пакет: правила заданы тегами на структурах событий
var validate = validator.New()

// Таблица декодеров: тип события -> функция декодирования
// Регистрация явная, без сканирования типов через reflection
var decoders = map[string]func([]byte) (Event, error){
	TypeBeerCreated: func(data []byte) (Event, error) {
		var e BeerCreated
		return e, json.Unmarshal(data, &e)
	},
	TypeBeerUpdated: func(data []byte) (Event, error) {
		var e BeerUpdated
		return e, json.Unmarshal(data, &e)
	},
	TypeBeerDeleted: func(data []byte) (Event, error) {
		var e BeerDeleted
		return e, json.Unmarshal(data, &e)
	},
	TypeBreweryDeleted: func(data []byte) (Event, error) {
		var e BreweryDeleted
		return e, json.Unmarshal(data, &e)
	},
	TypeUserCreated: func(data []byte) (Event, error) {
		var e UserCreated
		return e, json.Unmarshal(data, &e)
	},
	TypeUserUpdated: func(data []byte) (Event, error) {
		var e UserUpdated
		return e, json.Unmarshal(data, &e)
	},
	TypeUserDeleted: func(data []byte) (Event, error) {
		var e UserDeleted
		return e, json.Unmarshal(data, &e)
	},
	TypeBeerOpinionChanged: func(data []byte) (Event, error) {
		var e BeerOpinionChanged
		return e, json.Unmarshal(data, &e)
	},
	TypeBeerFavoritesCountChanged: func(data []byte) (Event, error) {
		var e BeerFavoritesCountChanged
		return e, json.Unmarshal(data, &e)
	},
	TypeImageUploaded: func(data []byte) (Event, error) {
		var e ImageUploaded
		return e, json.Unmarshal(data, &e)
	},
	TypeImageDeleted: func(data []byte) (Event, error) {
		var e ImageDeleted
		return e, json.Unmarshal(data, &e)
	},
	TypeImagesDeleted: func(data []byte) (Event, error) {
		var e ImagesDeleted
		return e, json.Unmarshal(data, &e)
	},
}

// Validate проверяет событие по правилам из тегов структуры
// Вызывается на publish-стороне до записи в outbox: невалидное событие
// никогда не попадает в брокер
func Validate(e Event) error {
	if err := validate.Struct(e); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidEvent, e.Type(), err)
	}
	return nil
}

// Marshal валидирует и сериализует событие для публикации
func Marshal(e Event) ([]byte, error) {
	if err := Validate(e); err != nil {
		return nil, err
	}

	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s event: %w", e.Type(), err)
	}

	return data, nil
}

// Decode разбирает входящее сообщение в типизированное событие
// Неизвестные JSON-поля игнорируются (forward compatibility),
// бизнес-правила на consume-стороне повторно не проверяются
func Decode(data []byte) (Event, error) {
	var head struct {
		EventType string `json:"event_type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("failed to unmarshal event envelope: %w", err)
	}

	decode, ok := decoders[head.EventType]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEventType, head.EventType)
	}

	event, err := decode(data)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal %s event: %w", head.EventType, err)
	}

	return event, nil
}
