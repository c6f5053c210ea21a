package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"scq-risk-api/config"

	"github.com/redis/go-redis/v9"
)

// EvaluationsChannel carries newly stored evaluations to live
// subscribers (the websocket feed).
const EvaluationsChannel = "scq:evaluations"

// CacheService wraps Redis for response caching and pub/sub. A nil
// client means Redis is unavailable; every method then degrades to a
// no-op so the API keeps serving from the database.
type CacheService struct {
	client *redis.Client
}

func NewCacheService(cfg config.RedisConfig) (*CacheService, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	var lastErr error
	for i := 0; i < 5; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		lastErr = client.Ping(ctx).Err()
		cancel()
		if lastErr == nil {
			return &CacheService{client: client}, nil
		}
		log.Printf("redis ping attempt %d/5 failed: %v", i+1, lastErr)
		time.Sleep(time.Second)
	}

	return &CacheService{client: nil}, fmt.Errorf("redis ping failed after 5 attempts: %w", lastErr)
}

// NewDisabledCache returns a cache that never hits Redis. Used in tests
// and when Redis is down at startup.
func NewDisabledCache() *CacheService {
	return &CacheService{client: nil}
}

func (s *CacheService) Available() bool {
	return s.client != nil
}

func (s *CacheService) Get(ctx context.Context, key string, dest interface{}) error {
	if s.client == nil {
		return redis.Nil
	}
	val, err := s.client.Get(ctx, key).Result()
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(val), dest)
}

func (s *CacheService) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if s.client == nil {
		return nil
	}
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, key, data, ttl).Err()
}

func (s *CacheService) Delete(ctx context.Context, keys ...string) error {
	if s.client == nil || len(keys) == 0 {
		return nil
	}
	return s.client.Del(ctx, keys...).Err()
}

// DeleteByPattern removes every key matching a glob pattern, for
// invalidating parameterized key families such as cached listing pages.
func (s *CacheService) DeleteByPattern(ctx context.Context, pattern string) error {
	if s.client == nil {
		return nil
	}
	iter := s.client.Scan(ctx, 0, pattern, 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return s.client.Del(ctx, keys...).Err()
}

func (s *CacheService) Publish(ctx context.Context, channel string, message interface{}) error {
	if s.client == nil {
		return nil
	}
	data, err := json.Marshal(message)
	if err != nil {
		return err
	}
	return s.client.Publish(ctx, channel, data).Err()
}

func (s *CacheService) Subscribe(ctx context.Context, channel string) *redis.PubSub {
	if s.client == nil {
		return nil
	}
	return s.client.Subscribe(ctx, channel)
}

func (s *CacheService) Close() error {
	if s.client == nil {
		return nil
	}
	return s.client.Close()
}
