package messaging

import (
	"context"
	"errors"
	"time"

	"hoppyhub/pkg/events"
	"hoppyhub/pkg/logger"
	"hoppyhub/pkg/metrics"

	"github.com/segmentio/kafka-go"
)

// EventHandler обрабатывает одно типизированное событие
// Обязан быть идемпотентным: сообщение может быть доставлено повторно
type EventHandler func(ctx context.Context, event events.Event) error

// KafkaConsumer читает топик и диспатчит события в handler
type KafkaConsumer struct {
	reader   *kafka.Reader
	handler  EventHandler
	service  string
	topic    string
	groupID  string
	stopChan chan struct{}
	doneChan chan struct{}
}

func NewKafkaConsumer(serviceName string, brokers []string, topic, groupID string, handler EventHandler) *KafkaConsumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokers,
		Topic:          topic,
		GroupID:        groupID,
		MinBytes:       1,
		MaxBytes:       10e6,
		StartOffset:    kafka.FirstOffset,
		CommitInterval: 0, // только ручной commit после успешной обработки
		ReadBackoffMin: 100 * time.Millisecond,
		ReadBackoffMax: 1 * time.Second,
	})

	return &KafkaConsumer{
		reader:   reader,
		handler:  handler,
		service:  serviceName,
		topic:    topic,
		groupID:  groupID,
		stopChan: make(chan struct{}),
		doneChan: make(chan struct{}),
	}
}

// Start запускает consumer в отдельной горутине
func (c *KafkaConsumer) Start(ctx context.Context) {
	logger.Info().
		Str("topic", c.topic).
		Str("group", c.groupID).
		Msg("Starting Kafka consumer")

	go c.consume(ctx)
}

// Stop останавливает consumer и дожидается завершения цикла чтения
func (c *KafkaConsumer) Stop() {
	close(c.stopChan)
	<-c.doneChan
	c.reader.Close()
	logger.Info().Str("topic", c.topic).Msg("Kafka consumer stopped")
}

func (c *KafkaConsumer) consume(ctx context.Context) {
	defer close(c.doneChan)

	for {
		select {
		case <-c.stopChan:
			return
		default:
			readCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			message, err := c.reader.FetchMessage(readCtx)
			cancel()

			if err != nil {
				if ctx.Err() != nil {
					return
				}
				if errors.Is(err, context.DeadlineExceeded) {
					continue
				}

				logger.Error().Err(err).Str("topic", c.topic).Msg("Error fetching message")
				time.Sleep(time.Second)
				continue
			}

			if err := c.processMessage(ctx, message); err != nil {
				logger.Error().
					Err(err).
					Str("topic", c.topic).
					Int64("offset", message.Offset).
					Msg("Error processing message")
				// Не коммитим offset - сообщение будет доставлено повторно
				continue
			}

			if err := c.reader.CommitMessages(ctx, message); err != nil {
				logger.Error().Err(err).Str("topic", c.topic).Msg("Error committing message")
			}
		}
	}
}

// processMessage декодирует и обрабатывает одно сообщение
// Сообщения, которые невозможно декодировать, пропускаются с коммитом:
// повторная доставка их не исправит
func (c *KafkaConsumer) processMessage(ctx context.Context, message kafka.Message) error {
	start := time.Now()

	event, err := events.Decode(message.Value)
	if err != nil {
		metrics.KafkaErrors.WithLabelValues(c.service, c.topic, "consume").Inc()
		logger.Warn().
			Err(err).
			Str("topic", c.topic).
			Int64("offset", message.Offset).
			Msg("Skipping undecodable message")
		return nil
	}

	logger.Debug().
		Str("event_type", event.Type()).
		Str("key", string(message.Key)).
		Int64("offset", message.Offset).
		Int("partition", message.Partition).
		Msg("Received event")

	if err := c.handler(ctx, event); err != nil {
		metrics.KafkaErrors.WithLabelValues(c.service, c.topic, "consume").Inc()
		return err
	}

	metrics.KafkaMessagesConsumed.WithLabelValues(c.service, c.topic, c.groupID).Inc()
	metrics.KafkaConsumeDuration.WithLabelValues(c.service, c.topic).Observe(time.Since(start).Seconds())

	return nil
}
