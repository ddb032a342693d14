package outbox

import (
	"context"
	"fmt"
	"time"

	"hoppyhub/pkg/logger"
	"hoppyhub/pkg/messaging"
	"hoppyhub/pkg/metrics"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

const defaultBatchSize = 100

// Relay периодически публикует неотправленные записи outbox в Kafka
// Гарантия at-least-once: запись помечается published только после
// успешной записи в брокер, повторная публикация возможна
type Relay struct {
	db        *gorm.DB
	publisher messaging.Publisher
	service   string
	batchSize int
	cron      *cron.Cron
}

func NewRelay(serviceName string, db *gorm.DB, publisher messaging.Publisher) *Relay {
	return &Relay{
		db:        db,
		publisher: publisher,
		service:   serviceName,
		batchSize: defaultBatchSize,
		cron:      cron.New(cron.WithSeconds()),
	}
}

// Start запускает периодическую публикацию по cron-расписанию
// (например "*/2 * * * * *" - каждые 2 секунды)
func (r *Relay) Start(ctx context.Context, schedule string) error {
	_, err := r.cron.AddFunc(schedule, func() {
		published, err := r.Flush(ctx)
		if err != nil {
			metrics.OutboxErrors.WithLabelValues(r.service).Inc()
			logger.Error().Err(err).Msg("Outbox relay flush failed")
			return
		}
		if published > 0 {
			logger.Debug().Int("published", published).Msg("Outbox relay flush completed")
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule outbox relay: %w", err)
	}

	r.cron.Start()
	logger.Info().Str("schedule", schedule).Msg("Outbox relay started")
	return nil
}

// Stop останавливает relay и дожидается завершения текущего flush
func (r *Relay) Stop() {
	stopCtx := r.cron.Stop()
	<-stopCtx.Done()
	logger.Info().Msg("Outbox relay stopped")
}

// Flush публикует один батч неотправленных записей
// Записи публикуются в порядке вставки (по ID), чтобы сохранить
// порядок событий одного агрегата в пределах сервиса
func (r *Relay) Flush(ctx context.Context) (int, error) {
	var records []Record
	err := r.db.WithContext(ctx).
		Where("published = ?", false).
		Order("id").
		Limit(r.batchSize).
		Find(&records).Error
	if err != nil {
		return 0, fmt.Errorf("failed to fetch pending outbox records: %w", err)
	}

	published := 0
	for _, record := range records {
		if err := r.publisher.PublishMessage(ctx, record.Topic, record.Key, record.Payload); err != nil {
			// Прерываем батч: следующая попытка начнётся с этой записи,
			// порядок per-key не нарушается
			r.updatePendingGauge(ctx)
			return published, fmt.Errorf("failed to publish outbox record %d: %w", record.ID, err)
		}

		now := time.Now()
		err := r.db.WithContext(ctx).
			Model(&Record{}).
			Where("id = ?", record.ID).
			Updates(map[string]interface{}{
				"published":    true,
				"published_at": &now,
			}).Error
		if err != nil {
			return published, fmt.Errorf("failed to mark outbox record %d published: %w", record.ID, err)
		}

		metrics.OutboxPublished.WithLabelValues(r.service, record.EventType).Inc()
		published++
	}

	r.updatePendingGauge(ctx)
	return published, nil
}

func (r *Relay) updatePendingGauge(ctx context.Context) {
	var pending int64
	if err := r.db.WithContext(ctx).Model(&Record{}).Where("published = ?", false).Count(&pending).Error; err != nil {
		return
	}
	metrics.OutboxPending.WithLabelValues(r.service).Set(float64(pending))
}
