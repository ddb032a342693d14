package outbox

import (
	"fmt"
	"time"

	"hoppyhub/pkg/events"
	"hoppyhub/pkg/metrics"

	"gorm.io/gorm"
)

// Record - строка таблицы event_outbox
// Записывается в одной транзакции с изменением локального состояния,
// relay публикует её в Kafka асинхронно
type Record struct {
	ID          uint64 `gorm:"primaryKey"`
	EventType   string `gorm:"size:64;not null"`
	Topic       string `gorm:"size:64;not null"`
	Key         string `gorm:"size:256;not null"`
	Payload     []byte `gorm:"type:jsonb;not null"`
	CreatedAt   time.Time
	Published   bool `gorm:"not null;default:false;index"`
	PublishedAt *time.Time
}

func (Record) TableName() string {
	return "event_outbox"
}

// Enqueue валидирует событие и записывает его в outbox
// tx должен быть транзакцией, в которой выполняется локальная мутация:
// commit либо сохраняет и состояние, и событие, либо ничего
func Enqueue(tx *gorm.DB, serviceName string, event events.Event) error {
	payload, err := events.Marshal(event)
	if err != nil {
		return err
	}

	record := Record{
		EventType: event.Type(),
		Topic:     event.Topic(),
		Key:       event.Key(),
		Payload:   payload,
	}

	if err := tx.Create(&record).Error; err != nil {
		return fmt.Errorf("failed to enqueue outbox event: %w", err)
	}

	metrics.OutboxEnqueued.WithLabelValues(serviceName, event.Type()).Inc()
	return nil
}
