package config

import (
	"os"
	"strings"
)

// Config содержит все настройки Image Service
type Config struct {
	Server   ServerConfig
	MongoDB  MongoDBConfig
	Kafka    KafkaConfig
	Blob     BlobConfig
	LogLevel string
}

// ServerConfig - настройки HTTP сервера
type ServerConfig struct {
	Host string
	Port string
}

// MongoDBConfig - настройки подключения к MongoDB (метаданные блобов)
type MongoDBConfig struct {
	URI      string
	Database string
}

// KafkaConfig - брокеры и consumer group для backstop-подписки
type KafkaConfig struct {
	Brokers []string
	GroupID string
}

// BlobConfig - дисковое хранилище блобов
// BaseURL - внешний адрес сервиса, из него собираются URI блобов
type BlobConfig struct {
	RootDir string
	BaseURL string
}

// Load загружает конфигурацию из переменных окружения
func Load() (*Config, error) {
	return &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnv("SERVER_PORT", "8085"),
		},
		MongoDB: MongoDBConfig{
			URI:      getEnv("MONGODB_URI", "mongodb://localhost:27017"),
			Database: getEnv("MONGODB_DATABASE", "image_service"),
		},
		Kafka: KafkaConfig{
			Brokers: strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ","),
			GroupID: getEnv("KAFKA_GROUP_ID", "image-service"),
		},
		Blob: BlobConfig{
			RootDir: getEnv("BLOB_ROOT_DIR", "/var/lib/hoppyhub/blobs"),
			BaseURL: getEnv("BLOB_BASE_URL", "http://localhost:8085"),
		},
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}, nil
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
