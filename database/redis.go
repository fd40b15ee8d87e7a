package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"realtimesales/config"
	"realtimesales/domain"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

var redisClient *redis.Client

type SalesRedis struct {
	*redis.Client
	expirationMilliseconds int64
	pendingMilliseconds    int64
}

const (
	RedisKeyPrefix       = "realtimesales:"
	idempotencyKeyPrefix = RedisKeyPrefix + "order_key:"
	mirroredKeyPrefix    = RedisKeyPrefix + "mirrored:"

	// pendingValue marks an idempotency key whose order is still being written
	pendingValue = "pending"

	// defaultPendingTTL bounds how long a crashed request can hold a key
	defaultPendingTTL = 30 * time.Second
)

func (r SalesRedis) getExpirationDuration() (durationMilliseconds time.Duration) {
	if r.expirationMilliseconds <= 0 {
		return 0
	}
	return time.Duration(r.expirationMilliseconds) * time.Millisecond
}

// getPendingDuration never exceeds the completed key TTL
func (r SalesRedis) getPendingDuration() time.Duration {
	pending := defaultPendingTTL
	if r.pendingMilliseconds > 0 {
		pending = time.Duration(r.pendingMilliseconds) * time.Millisecond
	}
	if full := r.getExpirationDuration(); full > 0 && full < pending {
		return full
	}
	return pending
}

// WithPendingTTL sets how long an unfinished claim holds its key
func (r SalesRedis) WithPendingTTL(d time.Duration) SalesRedis {
	r.pendingMilliseconds = d.Milliseconds()
	return r
}

// ClaimOrderKey reserves an idempotency key. When the key is already taken
// the stored order is returned, or nil while the first request is in flight.
func (r SalesRedis) ClaimOrderKey(ctx context.Context, key string) (claimed bool, existing *domain.Order, err error) {
	redisKey := idempotencyKeyPrefix + key
	claimed, err = r.SetNX(ctx, redisKey, pendingValue, r.getPendingDuration()).Result()
	if err != nil {
		return false, nil, err
	}
	if claimed {
		return true, nil, nil
	}

	value, err := r.Get(ctx, redisKey).Result()
	if errors.Is(err, redis.Nil) {
		// expired between SETNX and GET; let the caller retry
		return false, nil, nil
	}
	if err != nil {
		return false, nil, err
	}
	if value == pendingValue {
		return false, nil, nil
	}

	var order domain.Order
	if err := json.Unmarshal([]byte(value), &order); err != nil {
		return false, nil, fmt.Errorf("failed to decode stored order for key %s: %w", key, err)
	}
	return false, &order, nil
}

// CompleteOrderKey stores the persisted order under its idempotency key,
// replacing the pending marker with one that lives for the full TTL
func (r SalesRedis) CompleteOrderKey(ctx context.Context, key string, order domain.Order) error {
	payload, err := json.Marshal(order)
	if err != nil {
		return fmt.Errorf("failed to serialize order: %w", err)
	}
	return r.Set(ctx, idempotencyKeyPrefix+key, payload, r.getExpirationDuration()).Err()
}

// ReleaseOrderKey frees a key whose order could not be written
func (r SalesRedis) ReleaseOrderKey(ctx context.Context, key string) error {
	return r.Del(ctx, idempotencyKeyPrefix+key).Err()
}

func (r SalesRedis) SetOrdersMirrored(ctx context.Context, orders []domain.Order) error {
	pipe := r.Pipeline()
	for _, order := range orders {
		pipe.Set(ctx, mirroredKeyPrefix+order.ID, "1", r.getExpirationDuration())
	}
	_, err := pipe.Exec(ctx)
	return err
}

func (r SalesRedis) AreOrdersMirrored(ctx context.Context, orders []domain.Order) (map[string]bool, error) {
	if len(orders) == 0 {
		return map[string]bool{}, nil
	}
	keys := make([]string, len(orders))
	for i, order := range orders {
		keys[i] = mirroredKeyPrefix + order.ID
	}

	results, err := r.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	mirrored := make(map[string]bool, len(orders))
	for i, result := range results {
		str, ok := result.(string)
		mirrored[orders[i].ID] = ok && str == "1"
	}
	return mirrored, nil
}

// InitRedis initializes the Redis client connection
func InitRedis(cfg *config.RedisConfig) error {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.GetRedisAddr(),
		Password: cfg.Password,
		DB:       0, // default DB
	})

	// Test the connection
	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	redisClient = client
	logrus.Info("Redis connection established successfully")
	return nil
}

// CloseRedis closes the Redis client connection
func CloseRedis() error {
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			return fmt.Errorf("failed to close Redis connection: %w", err)
		}
		logrus.Info("Redis connection closed")
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

func GetRedisClient(cacheDurationMS int64) SalesRedis {
	return NewSalesRedis(redisClient, cacheDurationMS)
}

func NewSalesRedis(client *redis.Client, cacheDurationMS int64) SalesRedis {
	return SalesRedis{Client: client, expirationMilliseconds: cacheDurationMS}
}
