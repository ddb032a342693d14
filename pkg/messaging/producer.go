package messaging

import (
	"context"
	"fmt"
	"time"

	"hoppyhub/pkg/events"
	"hoppyhub/pkg/metrics"

	"github.com/segmentio/kafka-go"
)

// Publisher - абстракция публикации для service layer и outbox relay
type Publisher interface {
	PublishMessage(ctx context.Context, topic, key string, value []byte) error
	PublishEvent(ctx context.Context, event events.Event) error
}

// KafkaProducer пишет события в Kafka
// Один writer на сервис, топик задаётся per-message
type KafkaProducer struct {
	writer  *kafka.Writer
	service string
}

func NewKafkaProducer(serviceName string, brokers []string) *KafkaProducer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Balancer:     &kafka.Hash{},
		BatchSize:    100,
		BatchTimeout: 50 * time.Millisecond,
	}

	return &KafkaProducer{writer: writer, service: serviceName}
}

// PublishMessage отправляет уже сериализованное сообщение
// Hash balancer + key = ID агрегата дают per-key ordering внутри топика
func (p *KafkaProducer) PublishMessage(ctx context.Context, topic, key string, value []byte) error {
	start := time.Now()

	message := kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: value,
		Time:  time.Now(),
	}

	if err := p.writer.WriteMessages(ctx, message); err != nil {
		metrics.KafkaErrors.WithLabelValues(p.service, topic, "produce").Inc()
		return fmt.Errorf("failed to write message to kafka: %w", err)
	}

	metrics.KafkaMessagesProduced.WithLabelValues(p.service, topic).Inc()
	metrics.KafkaProduceDuration.WithLabelValues(p.service, topic).Observe(time.Since(start).Seconds())

	return nil
}

// PublishEvent валидирует, сериализует и отправляет событие
func (p *KafkaProducer) PublishEvent(ctx context.Context, event events.Event) error {
	data, err := events.Marshal(event)
	if err != nil {
		return err
	}

	return p.PublishMessage(ctx, event.Topic(), event.Key(), data)
}

func (p *KafkaProducer) Close() error {
	return p.writer.Close()
}
