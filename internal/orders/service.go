package orders

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/imrishuroy/go-storefront-gateway/internal/auth"
	"github.com/imrishuroy/go-storefront-gateway/internal/backend"
	"github.com/imrishuroy/go-storefront-gateway/internal/cache"
)

// Service exposes order operations against the commerce API. Order reads
// are cached under the Order tag. Every read key carries a caller scope
// derived from the identity the fetch runs as, so a payload fetched with
// one bearer token is never served to a caller holding another: the
// upstream's ownership and role checks apply per scope, not just on the
// first miss.
type Service struct {
	api   *backend.Client
	cache *cache.Store
}

func NewService(api *backend.Client, store *cache.Store) *Service {
	return &Service{api: api, cache: store}
}

// callerScope keys order reads by fetch identity. The bearer token is
// hashed so cache keys never hold credentials. Requests without a caller
// token all run as the configured service identity and share one scope.
func callerScope(ctx context.Context) string {
	tok, ok := auth.FromContext(ctx)
	if !ok {
		return "svc"
	}
	sum := sha256.Sum256([]byte(tok))
	return hex.EncodeToString(sum[:8])
}

// Create submits a new order. Deliberately invalidates no read tag: callers
// that need a fresh order list refetch it explicitly.
func (s *Service) Create(ctx context.Context, in CreateOrderInput) (Order, error) {
	var out Order
	if err := s.api.Do(ctx, http.MethodPost, "/orders", nil, in, &out); err != nil {
		return Order{}, fmt.Errorf("create order: %w", err)
	}
	return out, nil
}

// UserOrders lists the calling user's orders.
func (s *Service) UserOrders(ctx context.Context) ([]Order, error) {
	key := cache.Key{Tag: cache.TagOrder, Qualifier: "user/" + callerScope(ctx)}
	return cache.GetOrFetch(ctx, s.cache, key, func(ctx context.Context) ([]Order, error) {
		var out []Order
		if err := s.api.Do(ctx, http.MethodGet, "/orders/user", nil, nil, &out); err != nil {
			return nil, err
		}
		return out, nil
	})
}

// AllOrders lists every order. Privileged; the upstream enforces the role
// claim on the bearer token, so the entry is scoped to that token and a
// caller the upstream rejects never rides on an admin's cache hit.
func (s *Service) AllOrders(ctx context.Context) ([]Order, error) {
	key := cache.Key{Tag: cache.TagOrder, Qualifier: "admin/all/" + callerScope(ctx)}
	return cache.GetOrFetch(ctx, s.cache, key, func(ctx context.Context) ([]Order, error) {
		var out []Order
		if err := s.api.Do(ctx, http.MethodGet, "/orders/admin/all", nil, nil, &out); err != nil {
			return nil, err
		}
		return out, nil
	})
}

// Get fetches one order by id. The upstream checks ownership, so the entry
// is per caller as well as per id.
func (s *Service) Get(ctx context.Context, id string) (Order, error) {
	key := cache.Key{Tag: cache.TagOrder, Qualifier: "one/" + callerScope(ctx) + "/" + id}
	return cache.GetOrFetch(ctx, s.cache, key, func(ctx context.Context) (Order, error) {
		var out Order
		if err := s.api.Do(ctx, http.MethodGet, "/orders/"+id, nil, nil, &out); err != nil {
			return Order{}, err
		}
		return out, nil
	})
}

// UpdateStatus patches order and/or payment status and invalidates order
// reads.
func (s *Service) UpdateStatus(ctx context.Context, id string, in StatusUpdate) (Order, error) {
	var out Order
	if err := s.api.Do(ctx, http.MethodPut, "/orders/admin/"+id, nil, in, &out); err != nil {
		return Order{}, fmt.Errorf("update order %s: %w", id, err)
	}
	s.cache.Invalidate(cache.TagOrder)
	return out, nil
}

// Sales returns the aggregated per-day sales for a trailing window of days.
// Cached under the Order tag so status updates refresh it; privileged, so
// scoped per caller like AllOrders.
func (s *Service) Sales(ctx context.Context, days int) ([]SalesDay, error) {
	q := url.Values{"days": []string{strconv.Itoa(days)}}
	key := cache.Key{Tag: cache.TagOrder, Qualifier: "sales/" + callerScope(ctx) + "?" + q.Encode()}
	return cache.GetOrFetch(ctx, s.cache, key, func(ctx context.Context) ([]SalesDay, error) {
		var out []SalesDay
		if err := s.api.Do(ctx, http.MethodGet, "/orders/admin/sales", q, nil, &out); err != nil {
			return nil, err
		}
		return out, nil
	})
}
