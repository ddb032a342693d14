package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// =============================================================================
// HTTP Метрики (общие для всех сервисов)
// =============================================================================

// HttpRequestsTotal - счётчик всех HTTP запросов
// Labels: service, method, path, status
var HttpRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	},
	[]string{"service", "method", "path", "status"},
)

// HttpRequestDuration - гистограмма времени ответа
// Пример: histogram_quantile(0.95, rate(http_request_duration_seconds_bucket[5m]))
var HttpRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name: "http_request_duration_seconds",
		Help: "Duration of HTTP requests in seconds",
		// Бакеты для микросервисов: от 1ms до 10s
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
	},
	[]string{"service", "method", "path"},
)

// HttpRequestsInFlight - текущее количество обрабатываемых запросов
var HttpRequestsInFlight = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "http_requests_in_flight",
		Help: "Current number of HTTP requests being processed",
	},
	[]string{"service"},
)

// =============================================================================
// Database Метрики
// =============================================================================

// DbQueryDuration - время выполнения SQL запросов
var DbQueryDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "db_query_duration_seconds",
		Help:    "Duration of database queries in seconds",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
	},
	[]string{"service", "operation", "table"},
)

// DbErrors - счётчик ошибок базы данных
var DbErrors = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "db_errors_total",
		Help: "Total number of database errors",
	},
	[]string{"service", "operation"},
)

// =============================================================================
// Redis Метрики (кеш списка пивоварен)
// =============================================================================

// RedisCacheHits - попадания в кеш
var RedisCacheHits = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "redis_cache_hits_total",
		Help: "Total number of Redis cache hits",
	},
	[]string{"service", "key_prefix"},
)

// RedisCacheMisses - промахи кеша
var RedisCacheMisses = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "redis_cache_misses_total",
		Help: "Total number of Redis cache misses",
	},
	[]string{"service", "key_prefix"},
)

// RedisErrors - ошибки Redis
var RedisErrors = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "redis_errors_total",
		Help: "Total number of Redis errors",
	},
	[]string{"service", "operation"},
)

// =============================================================================
// Kafka Метрики
// =============================================================================

// KafkaMessagesProduced - отправленные сообщения
var KafkaMessagesProduced = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "kafka_messages_produced_total",
		Help: "Total number of Kafka messages produced",
	},
	[]string{"service", "topic"},
)

// KafkaMessagesConsumed - полученные сообщения
var KafkaMessagesConsumed = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "kafka_messages_consumed_total",
		Help: "Total number of Kafka messages consumed",
	},
	[]string{"service", "topic", "group"},
)

// KafkaProduceDuration - время отправки сообщения
var KafkaProduceDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "kafka_produce_duration_seconds",
		Help:    "Duration of Kafka produce operations",
		Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
	},
	[]string{"service", "topic"},
)

// KafkaConsumeDuration - время обработки сообщения
var KafkaConsumeDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "kafka_consume_duration_seconds",
		Help:    "Duration of Kafka message processing",
		Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10},
	},
	[]string{"service", "topic"},
)

// KafkaErrors - ошибки Kafka
var KafkaErrors = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "kafka_errors_total",
		Help: "Total number of Kafka errors",
	},
	[]string{"service", "topic", "operation"}, // operation: produce, consume
)

// =============================================================================
// Outbox Метрики
// =============================================================================

// OutboxEnqueued - события, записанные в outbox таблицу
var OutboxEnqueued = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "outbox_events_enqueued_total",
		Help: "Total number of events written to the outbox table",
	},
	[]string{"service", "event_type"},
)

// OutboxPublished - события, опубликованные relay в Kafka
var OutboxPublished = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "outbox_events_published_total",
		Help: "Total number of outbox events relayed to Kafka",
	},
	[]string{"service", "event_type"},
)

// OutboxPending - события, ожидающие публикации
var OutboxPending = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "outbox_events_pending",
		Help: "Number of outbox events waiting to be relayed",
	},
	[]string{"service"},
)

// OutboxErrors - ошибки relay
var OutboxErrors = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "outbox_relay_errors_total",
		Help: "Total number of outbox relay errors",
	},
	[]string{"service"},
)

// =============================================================================
// Blob Storage Метрики (image-service)
// =============================================================================

// BlobUploads - загруженные изображения
var BlobUploads = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "blob_uploads_total",
		Help: "Total number of blob uploads",
	},
	[]string{"status"}, // success, failed
)

// BlobDeletes - удалённые изображения
var BlobDeletes = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "blob_deletes_total",
		Help: "Total number of blob deletions",
	},
	[]string{"mode"}, // path, prefix
)

// =============================================================================
// Business Метрики
// =============================================================================

// OpinionsCreated - созданные мнения о пиве
var OpinionsCreated = promauto.NewCounter(
	prometheus.CounterOpts{
		Name: "opinions_created_total",
		Help: "Total number of beer opinions created",
	},
)

// OpinionsRating - распределение оценок
var OpinionsRating = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Name:    "opinions_rating",
		Help:    "Distribution of beer opinion ratings",
		Buckets: []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10},
	},
)

// FavoritesChanged - добавления/удаления из избранного
var FavoritesChanged = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "favorites_changed_total",
		Help: "Total number of favorite additions and removals",
	},
	[]string{"action"}, // added, removed
)

// UsersRegistered - регистрации пользователей
var UsersRegistered = promauto.NewCounter(
	prometheus.CounterOpts{
		Name: "users_registered_total",
		Help: "Total number of user registrations",
	},
)
