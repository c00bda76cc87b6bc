package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"kucukaslan/gadsconversion/config"
	"kucukaslan/gadsconversion/logger"
)

var redisClient *redis.Client

const RedisKeyPrefix = "gads_conversion:"

// ReplayStore remembers which conversions already reached a terminal success.
type ReplayStore struct {
	*redis.Client
	expirationMilliseconds int64
}

func (r ReplayStore) getExpirationDuration() time.Duration {
	if r.expirationMilliseconds <= 0 {
		return 0
	}
	return time.Duration(r.expirationMilliseconds) * time.Millisecond
}

func (r ReplayStore) MarkProcessed(ctx context.Context, key string) error {
	return r.SetEx(ctx, RedisKeyPrefix+key, "1", r.getExpirationDuration()).Err()
}

func (r ReplayStore) IsProcessed(ctx context.Context, key string) (bool, error) {
	result, err := r.Get(ctx, RedisKeyPrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return result == "1", nil
}

// InitRedis initializes the Redis client connection
func InitRedis(cfg *config.RedisConfig) error {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.GetRedisAddr(),
		Password: cfg.Password,
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	redisClient = client
	logger.Info("Redis connection established", zap.String("addr", cfg.GetRedisAddr()))
	return nil
}

// CloseRedis closes the Redis client connection
func CloseRedis() error {
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			return fmt.Errorf("failed to close Redis connection: %w", err)
		}
		logger.Info("Redis connection closed")
	}
	return nil
}

// RedisHealthCheck verifies that the Redis connection is alive
func RedisHealthCheck(ctx context.Context) error {
	if redisClient == nil {
		return fmt.Errorf("Redis connection is not initialized")
	}
	return redisClient.Ping(ctx).Err()
}

// RedisEnabled reports whether InitRedis has succeeded
func RedisEnabled() bool {
	return redisClient != nil
}

func GetReplayStore(ttlMS int64) ReplayStore {
	return ReplayStore{redisClient, ttlMS}
}

// NewReplayStore wraps an existing client, e.g. one pointed at a test server.
func NewReplayStore(client *redis.Client, ttlMS int64) ReplayStore {
	return ReplayStore{client, ttlMS}
}
