package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config содержит все настройки Beer Service
type Config struct {
	Server       ServerConfig
	Database     DatabaseConfig
	Kafka        KafkaConfig
	Redis        RedisConfig
	JWT          JWTConfig
	ImageService ImageServiceConfig
	Outbox       OutboxConfig
	LogLevel     string
}

// ServerConfig - настройки HTTP сервера
type ServerConfig struct {
	Host string
	Port string
}

// DatabaseConfig - настройки подключения к PostgreSQL
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// KafkaConfig - брокеры и consumer group для подписок beer-service
type KafkaConfig struct {
	Brokers []string
	GroupID string
}

// RedisConfig - кеш списка пивоварен
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	CacheTTL time.Duration
}

// JWTConfig - проверка токенов, выпущенных user-service
type JWTConfig struct {
	Secret string
}

// ImageServiceConfig - синхронный HTTP клиент image-service
// TempImageURI - URI заглушки, на который сбрасывается удаленная картинка
type ImageServiceConfig struct {
	URL          string
	TempImageURI string
	Timeout      time.Duration
}

// OutboxConfig - расписание relay (cron с секундами)
type OutboxConfig struct {
	Schedule string
}

// Load загружает конфигурацию из переменных окружения
func Load() (*Config, error) {
	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB value: %w", err)
	}

	cacheTTL, err := time.ParseDuration(getEnv("REDIS_CACHE_TTL", "1h"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_CACHE_TTL value: %w", err)
	}

	imageTimeout, err := time.ParseDuration(getEnv("IMAGE_SERVICE_TIMEOUT", "10s"))
	if err != nil {
		return nil, fmt.Errorf("invalid IMAGE_SERVICE_TIMEOUT value: %w", err)
	}

	return &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnv("SERVER_PORT", "8082"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "beer_service"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Kafka: KafkaConfig{
			Brokers: strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ","),
			GroupID: getEnv("KAFKA_GROUP_ID", "beer-service"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
			CacheTTL: cacheTTL,
		},
		JWT: JWTConfig{
			Secret: getEnv("JWT_SECRET", "your-secret-key-change-this-in-production"),
		},
		ImageService: ImageServiceConfig{
			URL:          getEnv("IMAGE_SERVICE_URL", "http://localhost:8085"),
			TempImageURI: getEnv("TEMP_BEER_IMAGE_URI", "http://localhost:8085/blobs/Beers/temp.jpg"),
			Timeout:      imageTimeout,
		},
		Outbox: OutboxConfig{
			Schedule: getEnv("OUTBOX_SCHEDULE", "*/2 * * * * *"),
		},
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}, nil
}

// DSN возвращает строку подключения к PostgreSQL
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		c.Host, c.User, c.Password, c.DBName, c.Port, c.SSLMode,
	)
}

// Address возвращает адрес сервера в формате host:port
func (c *ServerConfig) Address() string {
	return c.Host + ":" + c.Port
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
