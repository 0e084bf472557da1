package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ikkim/udonggeum-storefront/internal/app/model"
	"github.com/ikkim/udonggeum-storefront/internal/app/repository"
	"github.com/ikkim/udonggeum-storefront/internal/asset"
	"github.com/ikkim/udonggeum-storefront/pkg/commerce"
	"github.com/ikkim/udonggeum-storefront/pkg/logger"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrInvalidProduct  = errors.New("invalid product id")
)

// ProductFetcher is the read side of the commerce backend.
type ProductFetcher interface {
	GetProduct(ctx context.Context, id string) (*commerce.Product, error)
}

// CatalogService turns bare product ids into renderable records and resolves
// images for anything product-shaped.
type CatalogService interface {
	GetProduct(ctx context.Context, id string) (*model.CatalogProduct, error)
	Hydrate(ctx context.Context, ids []string) ([]model.CatalogProduct, error)
	ResolveImage(hint asset.Hint, ref *model.ProductRef) model.ResolvedImage
	DecorateLines(lines model.CartLines) []model.CartLineView
}

type catalogService struct {
	fetcher  ProductFetcher
	cache    repository.ProductCacheRepository
	resolver *asset.Resolver
}

func NewCatalogService(fetcher ProductFetcher, cache repository.ProductCacheRepository, resolver *asset.Resolver) CatalogService {
	if cache == nil {
		cache = repository.NewNoopProductCacheRepository()
	}
	return &catalogService{
		fetcher:  fetcher,
		cache:    cache,
		resolver: resolver,
	}
}

func (s *catalogService) GetProduct(ctx context.Context, id string) (*model.CatalogProduct, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrInvalidProduct
	}

	product, err := s.cache.Get(ctx, id)
	if err != nil {
		if !errors.Is(err, repository.ErrCacheMiss) {
			logger.Warn("Product cache read failed", map[string]interface{}{
				"product_id": id,
				"error":      err.Error(),
			})
		}

		product, err = s.fetcher.GetProduct(ctx, id)
		if err != nil {
			if errors.Is(err, commerce.ErrProductNotFound) {
				return nil, ErrProductNotFound
			}
			return nil, fmt.Errorf("failed to fetch product: %w", err)
		}

		if err := s.cache.Set(ctx, product); err != nil {
			logger.Warn("Product cache write failed", map[string]interface{}{
				"product_id": id,
				"error":      err.Error(),
			})
		}
	}

	snapshot := snapshotFromProduct(product)
	ref := snapshot.Ref()
	return &model.CatalogProduct{
		ID:      id,
		Product: snapshot,
		Image:   s.resolver.Resolve(asset.HintFor(ref), ref),
	}, nil
}

// Hydrate fetches every id in order. Unknown ids are skipped; any other failure
// aborts.
func (s *catalogService) Hydrate(ctx context.Context, ids []string) ([]model.CatalogProduct, error) {
	products := make([]model.CatalogProduct, 0, len(ids))
	for _, id := range ids {
		p, err := s.GetProduct(ctx, id)
		if errors.Is(err, ErrProductNotFound) || errors.Is(err, ErrInvalidProduct) {
			logger.Warn("Skipping unknown product during hydration", map[string]interface{}{
				"product_id": id,
			})
			continue
		}
		if err != nil {
			return nil, err
		}
		products = append(products, *p)
	}
	return products, nil
}

func (s *catalogService) ResolveImage(hint asset.Hint, ref *model.ProductRef) model.ResolvedImage {
	return s.resolver.Resolve(hint, ref)
}

func (s *catalogService) DecorateLines(lines model.CartLines) []model.CartLineView {
	views := make([]model.CartLineView, 0, len(lines))
	for _, line := range lines {
		ref := line.Product.Ref()
		views = append(views, model.CartLineView{
			CartLine: line,
			Image:    s.resolver.Resolve(asset.HintFor(ref), ref),
			Subtotal: line.Subtotal(),
		})
	}
	return views
}

func snapshotFromProduct(p *commerce.Product) model.ProductSnapshot {
	snapshot := model.ProductSnapshot{
		Name:          p.Name,
		Title:         p.Title,
		ImageURL:      p.PrimaryImageURL(),
		ImageFilename: p.ImageFilename,
		Category:      p.Category,
		SKU:           p.SKU,
	}
	if p.Price != nil {
		snapshot.Price = *p.Price
	}
	if p.SalePrice != nil {
		sale := *p.SalePrice
		snapshot.SalePrice = &sale
	}
	for _, h := range p.Gallery {
		snapshot.Gallery = append(snapshot.Gallery, model.AssetHandle(h))
	}
	return snapshot
}
