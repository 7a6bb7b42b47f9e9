package orders

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imrishuroy/go-storefront-gateway/internal/auth"
	"github.com/imrishuroy/go-storefront-gateway/internal/backend"
	"github.com/imrishuroy/go-storefront-gateway/internal/cache"
)

type recordedRequest struct {
	method string
	uri    string
	body   []byte
}

type fakeAPI struct {
	mu       sync.Mutex
	requests []recordedRequest
	server   *httptest.Server
}

func newFakeAPI(t *testing.T, handler http.HandlerFunc) *fakeAPI {
	f := &fakeAPI{}
	f.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		f.mu.Lock()
		f.requests = append(f.requests, recordedRequest{method: r.Method, uri: r.URL.RequestURI(), body: body})
		f.mu.Unlock()
		handler(w, r)
	}))
	t.Cleanup(f.server.Close)
	return f
}

func (f *fakeAPI) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

func (f *fakeAPI) last() recordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests[len(f.requests)-1]
}

func newTestService(f *fakeAPI) *Service {
	waiter := &auth.Waiter{Source: auth.StaticSource("tok"), Interval: time.Millisecond, MaxAttempts: 2}
	return NewService(backend.NewClient(f.server.URL, waiter, nil), cache.New())
}

func TestCreate_PostsItemsAndAddress(t *testing.T) {
	f := newFakeAPI(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(Order{ID: "o1", OrderStatus: StatusPending, PaymentStatus: PaymentPending})
	})
	s := newTestService(f)

	in := CreateOrderInput{
		OrderItems: []OrderItem{
			{ProductID: "p1", Quantity: 2},
			{ProductID: "p2", Quantity: 1},
		},
		ShippingAddress: ShippingAddress{Line1: "123/5", City: "Colombo", Phone: "0771234567"},
	}
	order, err := s.Create(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, "o1", order.ID)
	assert.Equal(t, StatusPending, order.OrderStatus)

	last := f.last()
	assert.Equal(t, http.MethodPost, last.method)
	assert.Equal(t, "/orders", last.uri)
	assert.JSONEq(t, `{
		"orderItems": [
			{"productId":"p1","quantity":2},
			{"productId":"p2","quantity":1}
		],
		"shippingAddress": {"line_1":"123/5","city":"Colombo","phone":"0771234567"}
	}`, string(last.body))
}

func TestCreate_DoesNotInvalidateOrderReads(t *testing.T) {
	f := newFakeAPI(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			json.NewEncoder(w).Encode(Order{ID: "o1"})
			return
		}
		json.NewEncoder(w).Encode([]Order{})
	})
	s := newTestService(f)

	_, err := s.UserOrders(context.Background())
	require.NoError(t, err)

	_, err = s.Create(context.Background(), CreateOrderInput{
		OrderItems:      []OrderItem{{ProductID: "p1", Quantity: 1}},
		ShippingAddress: ShippingAddress{Line1: "a", City: "b", Phone: "c"},
	})
	require.NoError(t, err)

	// list is still served from cache; creating an order invalidates nothing
	_, err = s.UserOrders(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, f.count())
}

func TestUserOrders_ScopedByBearerToken(t *testing.T) {
	f := newFakeAPI(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "Bearer token-alice" {
			json.NewEncoder(w).Encode([]Order{{ID: "alice-order-1"}})
			return
		}
		json.NewEncoder(w).Encode([]Order{})
	})
	s := newTestService(f)

	alice := auth.WithToken(context.Background(), "token-alice")
	bob := auth.WithToken(context.Background(), "token-bob")

	got, err := s.UserOrders(alice)
	require.NoError(t, err)
	require.Len(t, got, 1)

	// a different token must never see alice's cached list
	got, err = s.UserOrders(bob)
	require.NoError(t, err)
	assert.Empty(t, got)

	// same token hits the cache
	_, err = s.UserOrders(alice)
	require.NoError(t, err)
	assert.Equal(t, 2, f.count())
}

func TestAllOrders_AdminCacheNotServedToOtherTokens(t *testing.T) {
	f := newFakeAPI(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer admin-token" {
			w.WriteHeader(http.StatusForbidden)
			w.Write([]byte(`{"message":"admin role required"}`))
			return
		}
		json.NewEncoder(w).Encode([]Order{{ID: "o1"}, {ID: "o2"}})
	})
	s := newTestService(f)

	admin := auth.WithToken(context.Background(), "admin-token")
	shopper := auth.WithToken(context.Background(), "shopper-token")

	got, err := s.AllOrders(admin)
	require.NoError(t, err)
	require.Len(t, got, 2)

	// the warmed admin entry must not answer for a caller the upstream
	// would reject
	_, err = s.AllOrders(shopper)
	require.Error(t, err)
	apiErr, ok := backend.AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusForbidden, apiErr.StatusCode)
}

func TestGet_ScopedPerCaller(t *testing.T) {
	f := newFakeAPI(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer owner-token" {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"message":"order not found"}`))
			return
		}
		json.NewEncoder(w).Encode(Order{ID: "o1"})
	})
	s := newTestService(f)

	owner := auth.WithToken(context.Background(), "owner-token")
	stranger := auth.WithToken(context.Background(), "stranger-token")

	_, err := s.Get(owner, "o1")
	require.NoError(t, err)

	_, err = s.Get(stranger, "o1")
	require.Error(t, err, "ownership check must run for every caller")
	assert.Equal(t, 2, f.count())
}

func TestUpdateStatus_InvalidatesOrderReads(t *testing.T) {
	f := newFakeAPI(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPut {
			json.NewEncoder(w).Encode(Order{ID: "o1", OrderStatus: StatusShipped})
			return
		}
		json.NewEncoder(w).Encode([]Order{{ID: "o1", OrderStatus: StatusPending}})
	})
	s := newTestService(f)

	_, err := s.AllOrders(context.Background())
	require.NoError(t, err)

	updated, err := s.UpdateStatus(context.Background(), "o1", StatusUpdate{OrderStatus: StatusShipped})
	require.NoError(t, err)
	assert.Equal(t, StatusShipped, updated.OrderStatus)

	last := f.last()
	assert.Equal(t, "PUT", last.method)
	assert.Equal(t, "/orders/admin/o1", last.uri)
	assert.JSONEq(t, `{"orderStatus":"SHIPPED"}`, string(last.body))

	_, err = s.AllOrders(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, f.count(), "order list must refetch after a status update")
}

func TestGet_FetchesAndCachesOneOrder(t *testing.T) {
	f := newFakeAPI(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(Order{ID: "o1"})
	})
	s := newTestService(f)

	order, err := s.Get(context.Background(), "o1")
	require.NoError(t, err)
	assert.Equal(t, "o1", order.ID)
	assert.Equal(t, "/orders/o1", f.last().uri)

	_, err = s.Get(context.Background(), "o1")
	require.NoError(t, err)
	assert.Equal(t, 1, f.count())
}

func TestSales_ForwardsWindowAndCaches(t *testing.T) {
	f := newFakeAPI(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]SalesDay{
			{Date: "2026-08-27", TotalSales: 120.50, OrderCount: 3},
		})
	})
	s := newTestService(f)

	sales, err := s.Sales(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, sales, 1)
	assert.Equal(t, 120.50, sales[0].TotalSales)
	assert.Equal(t, "/orders/admin/sales?days=7", f.last().uri)

	// 7 and 30 day windows are separate entries
	_, err = s.Sales(context.Background(), 30)
	require.NoError(t, err)
	assert.Equal(t, "/orders/admin/sales?days=30", f.last().uri)

	_, _ = s.Sales(context.Background(), 7)
	assert.Equal(t, 2, f.count())
}

func TestUpstreamFault_SurfacesAPIError(t *testing.T) {
	f := newFakeAPI(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"message":"insufficient stock"}`))
	})
	s := newTestService(f)

	_, err := s.Create(context.Background(), CreateOrderInput{
		OrderItems:      []OrderItem{{ProductID: "p1", Quantity: 99}},
		ShippingAddress: ShippingAddress{Line1: "a", City: "b", Phone: "c"},
	})
	require.Error(t, err)

	apiErr, ok := backend.AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.StatusCode)
	assert.Equal(t, "insufficient stock", apiErr.Message)
}
