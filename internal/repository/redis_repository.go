package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	redis_v9 "github.com/redis/go-redis/v9"
)

// RedisRepo caches JSON-encoded structs with a TTL. Used by the user
// repository to avoid re-resolving directory summaries on every listing.
type RedisRepo struct {
	client *redis_v9.Client
}

func NewRedisRepo(client *redis_v9.Client) *RedisRepo {
	return &RedisRepo{
		client: client,
	}
}

func (r *RedisRepo) SaveStructCached(ctx context.Context, key string, model any, expiry time.Duration) error {
	val, err := json.Marshal(model)
	if err != nil {
		return fmt.Errorf("error saving struct to cache: %w", err)
	}
	if err := r.client.Set(ctx, key, val, expiry).Err(); err != nil {
		return fmt.Errorf("error saving struct to cache: %w", err)
	}
	return nil
}

// GetStructCached decodes the cached value into model. Returns false on a
// cache miss; any other failure is returned as an error.
func (r *RedisRepo) GetStructCached(ctx context.Context, key string, model any) (bool, error) {
	encoded, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis_v9.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("error getting struct from cache: %w", err)
	}
	if err := json.Unmarshal(encoded, model); err != nil {
		return false, fmt.Errorf("error decoding cached struct: %w", err)
	}
	return true, nil
}

func (r *RedisRepo) DeleteKey(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("error deleting key %s: %w", key, err)
	}
	return nil
}
