package catalog

import (
	"context"
	"encoding/json"
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

// fakeAPI is an httptest commerce API recording every request it serves.
type fakeAPI struct {
	mu       sync.Mutex
	requests []string
	server   *httptest.Server
}

func newFakeAPI(t *testing.T, handler http.HandlerFunc) *fakeAPI {
	f := &fakeAPI{}
	f.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.requests = append(f.requests, r.Method+" "+r.URL.RequestURI())
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

func (f *fakeAPI) last() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.requests) == 0 {
		return ""
	}
	return f.requests[len(f.requests)-1]
}

func newTestService(f *fakeAPI) *Service {
	waiter := &auth.Waiter{Source: auth.StaticSource("tok"), Interval: time.Millisecond, MaxAttempts: 2}
	client := backend.NewClient(f.server.URL, waiter, nil)
	return NewService(client, cache.New())
}

func productsHandler(products []Product) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(products)
	}
}

func TestListProducts_CachedAcrossReads(t *testing.T) {
	f := newFakeAPI(t, productsHandler([]Product{{ID: "p1", Name: "Shirt"}}))
	s := newTestService(f)

	first, err := s.ListProducts(context.Background(), ProductFilter{})
	require.NoError(t, err)
	second, err := s.ListProducts(context.Background(), ProductFilter{})
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, f.count(), "second read must come from cache")
}

func TestListProducts_FilterParamsForwarded(t *testing.T) {
	f := newFakeAPI(t, productsHandler(nil))
	s := newTestService(f)

	_, err := s.ListProducts(context.Background(), ProductFilter{
		CategoryID: "c1",
		ColorID:    "col1",
		SortBy:     "price",
		SortOrder:  "desc",
	})
	require.NoError(t, err)

	assert.Equal(t, "GET /products?categoryId=c1&colorId=col1&sortBy=price&sortOrder=desc", f.last())
}

func TestListProducts_DistinctFiltersAreDistinctEntries(t *testing.T) {
	f := newFakeAPI(t, productsHandler(nil))
	s := newTestService(f)

	_, _ = s.ListProducts(context.Background(), ProductFilter{CategoryID: "c1"})
	_, _ = s.ListProducts(context.Background(), ProductFilter{CategoryID: "c2"})
	_, _ = s.ListProducts(context.Background(), ProductFilter{CategoryID: "c1"})

	assert.Equal(t, 2, f.count())
}

func TestSearchProducts_EmptyQuerySkipsNetwork(t *testing.T) {
	f := newFakeAPI(t, productsHandler(nil))
	s := newTestService(f)

	out, err := s.SearchProducts(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, out)

	out, err = s.SearchProducts(context.Background(), "   ")
	require.NoError(t, err)
	assert.Empty(t, out)

	assert.Equal(t, 0, f.count(), "empty search must not issue a request")
}

func TestSearchProducts_ForwardsQuery(t *testing.T) {
	f := newFakeAPI(t, productsHandler([]Product{{ID: "p1"}}))
	s := newTestService(f)

	out, err := s.SearchProducts(context.Background(), "denim")
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "GET /products/search?search=denim", f.last())
}

func TestTrendingProducts_LimitAndCategoryForwarded(t *testing.T) {
	ranked := []Product{{ID: "p9"}, {ID: "p3"}, {ID: "p7"}}
	f := newFakeAPI(t, productsHandler(ranked))
	s := newTestService(f)

	out, err := s.TrendingProducts(context.Background(), "", 8)
	require.NoError(t, err)
	assert.Equal(t, "GET /products/trending?limit=8", f.last())
	// upstream ranking is preserved as-is
	assert.Equal(t, ranked, out)

	_, err = s.TrendingProducts(context.Background(), "c1", 4)
	require.NoError(t, err)
	assert.Equal(t, "GET /products/trending?categoryId=c1&limit=4", f.last())
}

func TestCreateProduct_InvalidatesListReads(t *testing.T) {
	f := newFakeAPI(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			json.NewEncoder(w).Encode(Product{ID: "p-new"})
		default:
			json.NewEncoder(w).Encode([]Product{})
		}
	})
	s := newTestService(f)

	_, err := s.ListProducts(context.Background(), ProductFilter{})
	require.NoError(t, err)
	require.Equal(t, 1, f.count())

	_, err = s.CreateProduct(context.Background(), ProductInput{Name: "New", CategoryID: "c1", Image: "i", Price: 1})
	require.NoError(t, err)

	// next list read reflects the mutation without a manual refetch call
	_, err = s.ListProducts(context.Background(), ProductFilter{})
	require.NoError(t, err)
	assert.Equal(t, 3, f.count(), "list must refetch after the mutation")
}

func TestUpdateProduct_InvalidatesProductEntry(t *testing.T) {
	f := newFakeAPI(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(Product{ID: "p1", Name: "v2"})
	})
	s := newTestService(f)

	_, err := s.GetProduct(context.Background(), "p1")
	require.NoError(t, err)

	_, err = s.UpdateProduct(context.Background(), "p1", ProductInput{Name: "v2", CategoryID: "c1", Image: "i"})
	require.NoError(t, err)
	assert.Equal(t, "PUT /products/p1", f.last())

	_, err = s.GetProduct(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, 3, f.count())
}

func TestDeleteProduct_InvalidatesProductReads(t *testing.T) {
	f := newFakeAPI(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodDelete {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		json.NewEncoder(w).Encode([]Product{})
	})
	s := newTestService(f)

	_, err := s.ListProducts(context.Background(), ProductFilter{})
	require.NoError(t, err)

	require.NoError(t, s.DeleteProduct(context.Background(), "p1"))

	_, err = s.ListProducts(context.Background(), ProductFilter{})
	require.NoError(t, err)
	assert.Equal(t, 3, f.count())
}

func TestCreateReview_InvalidatesProductAndEntry(t *testing.T) {
	f := newFakeAPI(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/reviews":
			json.NewEncoder(w).Encode(Review{ID: "r1", Rating: 5})
		default:
			json.NewEncoder(w).Encode(Product{ID: "p1"})
		}
	})
	s := newTestService(f)

	_, err := s.GetProduct(context.Background(), "p1")
	require.NoError(t, err)

	review, err := s.CreateReview(context.Background(), ReviewInput{ProductID: "p1", Review: "great", Rating: 5})
	require.NoError(t, err)
	assert.Equal(t, "r1", review.ID)

	// the product read embeds reviews, so it must refetch
	_, err = s.GetProduct(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, 3, f.count())
}

func TestCategoriesAndColors_CachedIndependently(t *testing.T) {
	f := newFakeAPI(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/categories":
			json.NewEncoder(w).Encode([]Category{{ID: "c1", Name: "Shoes"}})
		case "/colors":
			json.NewEncoder(w).Encode([]Color{{ID: "col1", Name: "Black"}})
		}
	})
	s := newTestService(f)

	cats, err := s.ListCategories(context.Background())
	require.NoError(t, err)
	require.Len(t, cats, 1)
	colors, err := s.ListColors(context.Background())
	require.NoError(t, err)
	require.Len(t, colors, 1)

	_, _ = s.ListCategories(context.Background())
	_, _ = s.ListColors(context.Background())
	assert.Equal(t, 2, f.count())
}
