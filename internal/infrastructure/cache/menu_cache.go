package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	redis "github.com/redis/go-redis/v9"

	"github.com/mesaposte/mesa-api/internal/domain/entity"
)

// MenuCache caches the active product list per tenant. The menu is read on
// every line added to an account, so it is the hottest read path in the
// system.
type MenuCache interface {
	Get(ctx context.Context, tenantID uuid.UUID) ([]entity.Product, bool, error)
	Set(ctx context.Context, tenantID uuid.UUID, products []entity.Product, ttl time.Duration) error
	Invalidate(ctx context.Context, tenantID uuid.UUID) error
}

// NoopMenuCache is used when no Redis address is configured. Every lookup
// misses, so reads fall through to Postgres.
type NoopMenuCache struct{}

func (NoopMenuCache) Get(_ context.Context, _ uuid.UUID) ([]entity.Product, bool, error) {
	return nil, false, nil
}

func (NoopMenuCache) Set(_ context.Context, _ uuid.UUID, _ []entity.Product, _ time.Duration) error {
	return nil
}

func (NoopMenuCache) Invalidate(_ context.Context, _ uuid.UUID) error {
	return nil
}

type RedisMenuCache struct {
	client *redis.Client
}

func NewRedisMenuCache(addr string, password string, db int) *RedisMenuCache {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	return &RedisMenuCache{client: client}
}

func (c *RedisMenuCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisMenuCache) Close() error {
	return c.client.Close()
}

func menuKey(tenantID uuid.UUID) string {
	return fmt.Sprintf("menu:%s", tenantID)
}

func (c *RedisMenuCache) Get(ctx context.Context, tenantID uuid.UUID) ([]entity.Product, bool, error) {
	val, err := c.client.Get(ctx, menuKey(tenantID)).Result()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var products []entity.Product
	if err := json.Unmarshal([]byte(val), &products); err != nil {
		return nil, false, err
	}
	return products, true, nil
}

func (c *RedisMenuCache) Set(ctx context.Context, tenantID uuid.UUID, products []entity.Product, ttl time.Duration) error {
	payload, err := json.Marshal(products)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, menuKey(tenantID), payload, ttl).Err()
}

func (c *RedisMenuCache) Invalidate(ctx context.Context, tenantID uuid.UUID) error {
	return c.client.Del(ctx, menuKey(tenantID)).Err()
}
