package cache

import (
	"context"
	"encoding/json"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/kavindus/autoparts_pos_app/internal/core/domain"
)

const productKeyPrefix = "product:"

// RedisProductCache caches products in redis.
type RedisProductCache struct {
	client *redis.Client
}

// NewRedisProductCache connects a product cache to the given redis instance.
func NewRedisProductCache(addr string, password string, db int) *RedisProductCache {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &RedisProductCache{client: client}
}

func (c *RedisProductCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisProductCache) Close() error {
	return c.client.Close()
}

func (c *RedisProductCache) Get(ctx context.Context, productID string) (*domain.Product, bool, error) {
	val, err := c.client.Get(ctx, productKeyPrefix+productID).Result()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var p domain.Product
	if err := json.Unmarshal([]byte(val), &p); err != nil {
		return nil, false, err
	}
	return &p, true, nil
}

func (c *RedisProductCache) Set(ctx context.Context, productID string, product *domain.Product, ttl time.Duration) error {
	if product == nil {
		return nil
	}
	payload, err := json.Marshal(product)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, productKeyPrefix+productID, payload, ttl).Err()
}
