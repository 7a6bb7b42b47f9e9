package catalog

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/imrishuroy/go-storefront-gateway/internal/backend"
	"github.com/imrishuroy/go-storefront-gateway/internal/cache"
)

// Service exposes the catalog read/write operations against the commerce
// API. Reads are cached under the Product/Category/Color tags; mutations
// invalidate the tags they affect so the next read refetches.
type Service struct {
	api   *backend.Client
	cache *cache.Store
}

func NewService(api *backend.Client, store *cache.Store) *Service {
	return &Service{api: api, cache: store}
}

func (f ProductFilter) query() url.Values {
	q := url.Values{}
	if f.CategoryID != "" {
		q.Set("categoryId", f.CategoryID)
	}
	if f.ColorID != "" {
		q.Set("colorId", f.ColorID)
	}
	if f.SortBy != "" {
		q.Set("sortBy", f.SortBy)
	}
	if f.SortOrder != "" {
		q.Set("sortOrder", f.SortOrder)
	}
	return q
}

// ListProducts returns products matching the filter.
func (s *Service) ListProducts(ctx context.Context, f ProductFilter) ([]Product, error) {
	q := f.query()
	key := cache.Key{Tag: cache.TagProduct, Qualifier: "list?" + q.Encode()}
	return cache.GetOrFetch(ctx, s.cache, key, func(ctx context.Context) ([]Product, error) {
		var out []Product
		if err := s.api.Do(ctx, http.MethodGet, "/products", q, nil, &out); err != nil {
			return nil, err
		}
		return out, nil
	})
}

// SearchProducts runs a full-text search. An empty or whitespace-only query
// short-circuits to an empty result without issuing a request.
func (s *Service) SearchProducts(ctx context.Context, query string) ([]Product, error) {
	if strings.TrimSpace(query) == "" {
		return []Product{}, nil
	}
	q := url.Values{"search": []string{query}}
	key := cache.Key{Tag: cache.TagProduct, Qualifier: "search?" + q.Encode()}
	return cache.GetOrFetch(ctx, s.cache, key, func(ctx context.Context) ([]Product, error) {
		var out []Product
		if err := s.api.Do(ctx, http.MethodGet, "/products/search", q, nil, &out); err != nil {
			return nil, err
		}
		return out, nil
	})
}

// TrendingKey is the cache key for a trending read. Exported along with
// CategoriesKey and ColorsKey so the cache warmer can subscribe to the
// entries it keeps fresh.
func TrendingKey(categoryID string, limit int) cache.Key {
	q := url.Values{}
	if categoryID != "" {
		q.Set("categoryId", categoryID)
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	return cache.Key{Tag: cache.TagProduct, Qualifier: "trending?" + q.Encode()}
}

func CategoriesKey() cache.Key {
	return cache.Key{Tag: cache.TagCategory, Qualifier: "list"}
}

func ColorsKey() cache.Key {
	return cache.Key{Tag: cache.TagColor, Qualifier: "list"}
}

// TrendingProducts returns products ranked upstream by historical order
// volume, optionally narrowed to a category and capped at limit.
func (s *Service) TrendingProducts(ctx context.Context, categoryID string, limit int) ([]Product, error) {
	q := url.Values{}
	if categoryID != "" {
		q.Set("categoryId", categoryID)
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	key := TrendingKey(categoryID, limit)
	return cache.GetOrFetch(ctx, s.cache, key, func(ctx context.Context) ([]Product, error) {
		var out []Product
		if err := s.api.Do(ctx, http.MethodGet, "/products/trending", q, nil, &out); err != nil {
			return nil, err
		}
		return out, nil
	})
}

func productKey(id string) cache.Key {
	return cache.Key{Tag: cache.TagProduct, Qualifier: id}
}

// GetProduct fetches one product, reviews included.
func (s *Service) GetProduct(ctx context.Context, id string) (Product, error) {
	return cache.GetOrFetch(ctx, s.cache, productKey(id), func(ctx context.Context) (Product, error) {
		var out Product
		if err := s.api.Do(ctx, http.MethodGet, "/products/"+id, nil, nil, &out); err != nil {
			return Product{}, err
		}
		return out, nil
	})
}

// ListCategories returns all categories.
func (s *Service) ListCategories(ctx context.Context) ([]Category, error) {
	key := CategoriesKey()
	return cache.GetOrFetch(ctx, s.cache, key, func(ctx context.Context) ([]Category, error) {
		var out []Category
		if err := s.api.Do(ctx, http.MethodGet, "/categories", nil, nil, &out); err != nil {
			return nil, err
		}
		return out, nil
	})
}

// ListColors returns all colors.
func (s *Service) ListColors(ctx context.Context) ([]Color, error) {
	key := ColorsKey()
	return cache.GetOrFetch(ctx, s.cache, key, func(ctx context.Context) ([]Color, error) {
		var out []Color
		if err := s.api.Do(ctx, http.MethodGet, "/colors", nil, nil, &out); err != nil {
			return nil, err
		}
		return out, nil
	})
}

// CreateProduct creates a product and invalidates product reads.
func (s *Service) CreateProduct(ctx context.Context, in ProductInput) (Product, error) {
	var out Product
	if err := s.api.Do(ctx, http.MethodPost, "/products", nil, in, &out); err != nil {
		return Product{}, fmt.Errorf("create product: %w", err)
	}
	s.cache.Invalidate(cache.TagProduct)
	return out, nil
}

// UpdateProduct updates a product and invalidates product reads, including
// the product's own entry.
func (s *Service) UpdateProduct(ctx context.Context, id string, in ProductInput) (Product, error) {
	var out Product
	if err := s.api.Do(ctx, http.MethodPut, "/products/"+id, nil, in, &out); err != nil {
		return Product{}, fmt.Errorf("update product %s: %w", id, err)
	}
	s.cache.Invalidate(cache.TagProduct)
	s.cache.InvalidateKey(productKey(id))
	return out, nil
}

// DeleteProduct deletes a product and invalidates product reads.
func (s *Service) DeleteProduct(ctx context.Context, id string) error {
	if err := s.api.Do(ctx, http.MethodDelete, "/products/"+id, nil, nil, nil); err != nil {
		return fmt.Errorf("delete product %s: %w", id, err)
	}
	s.cache.Invalidate(cache.TagProduct)
	s.cache.InvalidateKey(productKey(id))
	return nil
}

// CreateReview posts a review. Reviews ride along in the product read
// model, so the product tag and the product's entry are invalidated.
func (s *Service) CreateReview(ctx context.Context, in ReviewInput) (Review, error) {
	var out Review
	if err := s.api.Do(ctx, http.MethodPost, "/reviews", nil, in, &out); err != nil {
		return Review{}, fmt.Errorf("create review: %w", err)
	}
	s.cache.Invalidate(cache.TagProduct)
	s.cache.InvalidateKey(productKey(in.ProductID))
	return out, nil
}
