package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/ikkim/udonggeum-storefront/pkg/commerce"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisProductCacheRepository(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	repo := NewRedisProductCacheRepository(client, "storefront:", time.Minute)
	ctx := context.Background()

	_, err := repo.Get(ctx, "42")
	assert.ErrorIs(t, err, ErrCacheMiss)

	price := 12.5
	require.NoError(t, repo.Set(ctx, &commerce.Product{
		ID:      "42",
		Name:    "Brake Pad",
		Price:   &price,
		Images:  []string{"pad.png"},
		Gallery: []int{3},
	}))

	got, err := repo.Get(ctx, "42")
	require.NoError(t, err)
	assert.Equal(t, "Brake Pad", got.Name)
	require.NotNil(t, got.Price)
	assert.Equal(t, 12.5, *got.Price)
	assert.Equal(t, []string{"pad.png"}, got.Images)
	assert.Equal(t, []int{3}, got.Gallery)

	assert.True(t, mr.Exists("storefront:product:42"))
	mr.FastForward(2 * time.Minute)
	_, err = repo.Get(ctx, "42")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestNoopProductCacheRepository(t *testing.T) {
	repo := NewNoopProductCacheRepository()
	require.NoError(t, repo.Set(context.Background(), &commerce.Product{ID: "1"}))

	_, err := repo.Get(context.Background(), "1")
	assert.ErrorIs(t, err, ErrCacheMiss)
}
