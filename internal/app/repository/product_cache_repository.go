package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ikkim/udonggeum-storefront/pkg/commerce"
	"github.com/redis/go-redis/v9"
)

var ErrCacheMiss = errors.New("product not cached")

// ProductCacheRepository keeps backend product records for a bounded time.
type ProductCacheRepository interface {
	Get(ctx context.Context, id string) (*commerce.Product, error)
	Set(ctx context.Context, product *commerce.Product) error
}

type redisProductCacheRepository struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func NewRedisProductCacheRepository(client *redis.Client, prefix string, ttl time.Duration) ProductCacheRepository {
	return &redisProductCacheRepository{client: client, prefix: prefix, ttl: ttl}
}

func (r *redisProductCacheRepository) key(id string) string {
	return r.prefix + "product:" + id
}

func (r *redisProductCacheRepository) Get(ctx context.Context, id string) (*commerce.Product, error) {
	data, err := r.client.Get(ctx, r.key(id)).Bytes()
	if err == redis.Nil {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cached product: %w", err)
	}

	var product commerce.Product
	if err := json.Unmarshal(data, &product); err != nil {
		return nil, fmt.Errorf("failed to decode cached product: %w", err)
	}
	return &product, nil
}

func (r *redisProductCacheRepository) Set(ctx context.Context, product *commerce.Product) error {
	data, err := json.Marshal(product)
	if err != nil {
		return fmt.Errorf("failed to encode product: %w", err)
	}
	if err := r.client.Set(ctx, r.key(product.ID), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache product: %w", err)
	}
	return nil
}

type noopProductCacheRepository struct{}

// NewNoopProductCacheRepository is used when Redis is not configured.
func NewNoopProductCacheRepository() ProductCacheRepository {
	return noopProductCacheRepository{}
}

func (noopProductCacheRepository) Get(context.Context, string) (*commerce.Product, error) {
	return nil, ErrCacheMiss
}

func (noopProductCacheRepository) Set(context.Context, *commerce.Product) error {
	return nil
}
