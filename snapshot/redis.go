package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const snapshotKey = "seo-dashboard:snapshot"

// RedisConfig describes the redis connection backing RedisStore
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// RedisStore keeps the snapshot as a JSON value in redis
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisStore connects to redis and verifies the connection with a ping
func NewRedisStore(cfg RedisConfig, logger *zap.Logger) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     4,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Addr, err)
	}

	logger.Info("Redis connected",
		zap.String("addr", cfg.Addr),
		zap.Int("db", cfg.DB),
	)

	return &RedisStore{client: client, ttl: cfg.TTL, logger: logger}, nil
}

func (r *RedisStore) Load(ctx context.Context) (*Snapshot, error) {
	value, err := r.client.Get(ctx, snapshotKey).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", snapshotKey, err)
	}

	var snap Snapshot
	if err := json.Unmarshal([]byte(value), &snap); err != nil {
		r.logger.Error("Snapshot unmarshal failed", zap.String("key", snapshotKey), zap.Error(err))
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return &snap, nil
}

func (r *RedisStore) Save(ctx context.Context, snap Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	if err := r.client.Set(ctx, snapshotKey, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", snapshotKey, err)
	}
	return nil
}

// Clear removes the stored snapshot
func (r *RedisStore) Clear(ctx context.Context) error {
	return r.client.Del(ctx, snapshotKey).Err()
}

func (r *RedisStore) Close() error {
	return r.client.Close()
}
