package util

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"hoppyhub/beer-service/internal/app/beer/entity"
	"hoppyhub/pkg/metrics"

	"github.com/redis/go-redis/v9"
)

const breweriesCacheKey = "breweries:all"

type RedisClient struct {
	client *redis.Client
}

func NewRedisClient(addr, password string, db int) (*RedisClient, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisClient{client: client}, nil
}

// NewRedisClientFromConn оборачивает готовое подключение (для тестов с miniredis)
func NewRedisClientFromConn(client *redis.Client) *RedisClient {
	return &RedisClient{client: client}
}

func (r *RedisClient) SetBreweries(ctx context.Context, breweries []entity.Brewery, ttl time.Duration) error {
	data, err := json.Marshal(breweries)
	if err != nil {
		return fmt.Errorf("failed to marshal breweries: %w", err)
	}

	if err := r.client.Set(ctx, breweriesCacheKey, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set breweries in cache: %w", err)
	}

	return nil
}

func (r *RedisClient) GetBreweries(ctx context.Context) ([]entity.Brewery, error) {
	data, err := r.client.Get(ctx, breweriesCacheKey).Bytes()
	if err != nil {
		if err == redis.Nil {
			metrics.RedisCacheMisses.WithLabelValues("beer-service", "breweries").Inc()
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get breweries from cache: %w", err)
	}

	var breweries []entity.Brewery
	if err := json.Unmarshal(data, &breweries); err != nil {
		return nil, fmt.Errorf("failed to unmarshal breweries: %w", err)
	}

	metrics.RedisCacheHits.WithLabelValues("beer-service", "breweries").Inc()
	return breweries, nil
}

func (r *RedisClient) DeleteBreweries(ctx context.Context) error {
	if err := r.client.Del(ctx, breweriesCacheKey).Err(); err != nil {
		return fmt.Errorf("failed to delete breweries from cache: %w", err)
	}
	return nil
}

func (r *RedisClient) Close() error {
	return r.client.Close()
}
