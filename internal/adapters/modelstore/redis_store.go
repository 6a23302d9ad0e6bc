package modelstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/mikey/spam-classifier/internal/classifier"
	"github.com/mikey/spam-classifier/internal/core"
)

// RedisStore keeps the model artifact under a single Redis key
type RedisStore struct {
	client *redis.Client
	key    string
	logger *zap.Logger
}

// NewRedisStore connects to Redis
func NewRedisStore(ctx context.Context, addr string, db int, key string, logger *zap.Logger) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		DB:           db,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisStore{
		client: client,
		key:    key,
		logger: logger,
	}, nil
}

// Load reads the model key
func (s *RedisStore) Load(ctx context.Context) (*classifier.Model, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, core.ErrModelNotFound
		}
		return nil, fmt.Errorf("failed to get model: %w", err)
	}
	return decode(data)
}

// Save replaces the model key
func (s *RedisStore) Save(ctx context.Context, model *classifier.Model) error {
	data, err := encode(model)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, s.key, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to set model: %w", err)
	}

	s.logger.Info("Saved model", zap.String("key", s.key), zap.Int("bytes", len(data)))
	return nil
}

// Close closes the Redis client
func (s *RedisStore) Close() error {
	return s.client.Close()
}
