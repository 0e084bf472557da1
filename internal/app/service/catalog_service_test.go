package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/ikkim/udonggeum-storefront/internal/app/model"
	"github.com/ikkim/udonggeum-storefront/internal/app/repository"
	"github.com/ikkim/udonggeum-storefront/internal/asset"
	"github.com/ikkim/udonggeum-storefront/pkg/commerce"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testProducts = map[string]string{
	"pad":   `{"product":{"id":"pad","name":"Brake Pad","price":20,"salePrice":15,"imageUrl":"/uploads/brake-pad.png","category":"Brakes"}}`,
	"rotor": `{"id":"rotor","title":"Disc Rotor","price":"45.5","images":["https://cdn.test/rotor.png"]}`,
	"hub":   `{"id":"hub","name":"Wheel Hub","images":[4]}`,
}

func setupCatalogTest(t *testing.T, cache repository.ProductCacheRepository) (CatalogService, *int32) {
	t.Helper()
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		body, ok := testProducts[strings.TrimPrefix(r.URL.Path, "/products/")]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)

	client, err := commerce.NewClient(commerce.Config{BaseURL: server.URL})
	require.NoError(t, err)

	index := asset.NewIndex(map[string]model.AssetHandle{"brake pad": 1})
	resolver := asset.NewResolver(index, asset.Options{Origin: "http://api.test"})
	return NewCatalogService(client, cache, resolver), &hits
}

func TestCatalogService_GetProduct(t *testing.T) {
	svc, _ := setupCatalogTest(t, nil)

	p, err := svc.GetProduct(context.Background(), "pad")
	require.NoError(t, err)

	assert.Equal(t, "pad", p.ID)
	assert.Equal(t, "Brake Pad", p.Product.Name)
	assert.Equal(t, 15.0, p.Product.EffectivePrice())
	assert.Equal(t, model.Local(1), p.Image)
}

func TestCatalogService_GetProduct_ImageFallbacks(t *testing.T) {
	svc, _ := setupCatalogTest(t, nil)

	rotor, err := svc.GetProduct(context.Background(), "rotor")
	require.NoError(t, err)
	assert.Equal(t, "Disc Rotor", rotor.Product.DisplayName())
	assert.Equal(t, 45.5, rotor.Product.Price)
	assert.Equal(t, model.Network("https://cdn.test/rotor.png"), rotor.Image)

	hub, err := svc.GetProduct(context.Background(), "hub")
	require.NoError(t, err)
	assert.Equal(t, model.Local(4), hub.Image)
}

func TestCatalogService_GetProduct_NotFound(t *testing.T) {
	svc, _ := setupCatalogTest(t, nil)

	_, err := svc.GetProduct(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrProductNotFound)

	_, err = svc.GetProduct(context.Background(), " ")
	assert.ErrorIs(t, err, ErrInvalidProduct)
}

func TestCatalogService_UsesCache(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	cache := repository.NewRedisProductCacheRepository(client, "test:", time.Minute)
	svc, hits := setupCatalogTest(t, cache)

	for i := 0; i < 3; i++ {
		p, err := svc.GetProduct(context.Background(), "pad")
		require.NoError(t, err)
		assert.Equal(t, model.Local(1), p.Image)
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(hits))
}

func TestCatalogService_CacheFailureFallsBackToBackend(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { client.Close() })
	mr.Close()

	cache := repository.NewRedisProductCacheRepository(client, "test:", time.Minute)
	svc, _ := setupCatalogTest(t, cache)

	p, err := svc.GetProduct(context.Background(), "rotor")
	require.NoError(t, err)
	assert.Equal(t, "rotor", p.ID)
}

func TestCatalogService_Hydrate(t *testing.T) {
	svc, _ := setupCatalogTest(t, nil)

	products, err := svc.Hydrate(context.Background(), []string{"rotor", "missing", "pad"})
	require.NoError(t, err)

	require.Len(t, products, 2)
	assert.Equal(t, "rotor", products[0].ID)
	assert.Equal(t, "pad", products[1].ID)
}

func TestCatalogService_DecorateLines(t *testing.T) {
	svc, _ := setupCatalogTest(t, nil)

	lines := model.CartLines{}.
		Add("pad", model.ProductSnapshot{Name: "Brake Pad", Price: 10}, 2).
		Add("x", model.ProductSnapshot{ImageURL: "x.jpg"}, 1)

	views := svc.DecorateLines(lines)
	require.Len(t, views, 2)

	assert.Equal(t, "x", views[0].ID)
	assert.Equal(t, model.Network("http://api.test/images/x.jpg"), views[0].Image)
	assert.Equal(t, model.Local(1), views[1].Image)
	assert.Equal(t, 20.0, views[1].Subtotal)
}
