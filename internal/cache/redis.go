package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/fjod/go_lessons/internal/domain"
	"github.com/redis/go-redis/v9"
)

func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{
		client:  client,
		baseTTL: 5 * time.Minute,
	}
}

// RedisCache holds remote search responses keyed by normalized term.
// Entries are short-lived; lesson availability drifts as orders land.
type RedisCache struct {
	client  *redis.Client
	baseTTL time.Duration
}

func (r RedisCache) Get(ctx context.Context, term string) ([]domain.Lesson, error) {
	key := cacheKey(term)

	data, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var lessons []domain.Lesson
	if err2 := json.Unmarshal(data, &lessons); err2 != nil {
		return nil, fmt.Errorf("unmarshal cached lessons failed: %w", err2)
	}

	return lessons, nil
}

func (r RedisCache) Set(ctx context.Context, term string, lessons []domain.Lesson) error {
	key := cacheKey(term)
	data, err := json.Marshal(lessons)
	if err != nil {
		return fmt.Errorf("marshal lessons failed: %w", err)
	}

	jitter := time.Duration(rand.Intn(30)) * time.Second
	ttl := r.baseTTL + jitter
	if ret := r.client.Set(ctx, key, string(data), ttl); ret.Err() != nil {
		return fmt.Errorf("redis set failed: %w", ret.Err())
	}
	return nil
}

func (r RedisCache) Delete(ctx context.Context, term string) error {
	if err := r.client.Del(ctx, cacheKey(term)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func cacheKey(term string) string {
	return fmt.Sprintf("search:%s", strings.ToLower(strings.TrimSpace(term)))
}
