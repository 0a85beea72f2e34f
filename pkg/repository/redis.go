package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/example/primepulse/pkg/config"
	"github.com/example/primepulse/pkg/models"
	"github.com/go-redis/redis/v8"
)

const productCacheTTL = 30 * time.Minute

type RedisRepository struct {
	client *redis.Client
	config *config.RedisConfig
}

func NewRedisRepository(cfg *config.RedisConfig) *RedisRepository {
	return &RedisRepository{
		client: redis.NewClient(&redis.Options{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
			PoolSize: cfg.PoolSize,
		}),
		config: cfg,
	}
}

func (r *RedisRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisRepository) Close() error {
	return r.client.Close()
}

func (r *RedisRepository) SetJSON(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, key, data, expiration).Err()
}

func (r *RedisRepository) GetJSON(ctx context.Context, key string, dest interface{}) error {
	data, err := r.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(data), dest)
}

func (r *RedisRepository) Del(ctx context.Context, keys ...string) error {
	return r.client.Del(ctx, keys...).Err()
}

// Product read-through cache. Entries are invalidated on every product
// write before the write is acknowledged.

func productKey(id string) string {
	return fmt.Sprintf("product:%s", id)
}

func (r *RedisRepository) CacheProduct(ctx context.Context, product *models.Product) error {
	return r.SetJSON(ctx, productKey(product.ID.Hex()), product, productCacheTTL)
}

func (r *RedisRepository) GetCachedProduct(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	if err := r.GetJSON(ctx, productKey(id), &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *RedisRepository) InvalidateProduct(ctx context.Context, id string) error {
	return r.Del(ctx, productKey(id))
}

// Password-reset codes, keyed by user, single-use, expiring.

func resetCodeKey(userID string) string {
	return fmt.Sprintf("reset-code:%s", userID)
}

func (r *RedisRepository) StoreResetCode(ctx context.Context, userID, code string, ttl time.Duration) error {
	return r.client.Set(ctx, resetCodeKey(userID), code, ttl).Err()
}

func (r *RedisRepository) GetResetCode(ctx context.Context, userID string) (string, error) {
	code, err := r.client.Get(ctx, resetCodeKey(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return code, nil
}

func (r *RedisRepository) ConsumeResetCode(ctx context.Context, userID string) error {
	return r.Del(ctx, resetCodeKey(userID))
}
