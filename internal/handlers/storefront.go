package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/imrishuroy/go-storefront-gateway/internal/cart"
	"github.com/imrishuroy/go-storefront-gateway/internal/catalog"
	"github.com/imrishuroy/go-storefront-gateway/internal/orders"
	"github.com/imrishuroy/go-storefront-gateway/internal/payments"
	"github.com/imrishuroy/go-storefront-gateway/internal/validation"
)

// RegisterStorefrontRoutes registers the shopper-facing routes: catalog
// browsing, the session cart, checkout, order history, payments and
// reviews.
func RegisterStorefrontRoutes(r *gin.Engine, cfg HandlerConfig) {
	v := validation.New()

	r.GET("/products", func(c *gin.Context) {
		f := catalog.ProductFilter{
			CategoryID: c.Query("categoryId"),
			ColorID:    c.Query("colorId"),
			SortBy:     c.Query("sortBy"),
			SortOrder:  c.Query("sortOrder"),
		}
		if !validSort(f.SortBy, f.SortOrder) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "sortBy must be name|price and sortOrder asc|desc"})
			return
		}
		products, err := cfg.Catalog.ListProducts(c.Request.Context(), f)
		if err != nil {
			writeUpstreamError(c, err)
			return
		}
		c.JSON(http.StatusOK, products)
	})

	r.GET("/products/search", func(c *gin.Context) {
		products, err := cfg.Catalog.SearchProducts(c.Request.Context(), c.Query("search"))
		if err != nil {
			writeUpstreamError(c, err)
			return
		}
		c.JSON(http.StatusOK, products)
	})

	r.GET("/products/trending", func(c *gin.Context) {
		limit := 0
		if raw := c.Query("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 0 {
				c.JSON(http.StatusBadRequest, gin.H{"message": "limit must be a non-negative integer"})
				return
			}
			limit = n
		}
		products, err := cfg.Catalog.TrendingProducts(c.Request.Context(), c.Query("categoryId"), limit)
		if err != nil {
			writeUpstreamError(c, err)
			return
		}
		c.JSON(http.StatusOK, products)
	})

	r.GET("/products/:id", func(c *gin.Context) {
		product, err := cfg.Catalog.GetProduct(c.Request.Context(), c.Param("id"))
		if err != nil {
			writeUpstreamError(c, err)
			return
		}
		c.JSON(http.StatusOK, product)
	})

	r.GET("/categories", func(c *gin.Context) {
		categories, err := cfg.Catalog.ListCategories(c.Request.Context())
		if err != nil {
			writeUpstreamError(c, err)
			return
		}
		c.JSON(http.StatusOK, categories)
	})

	r.GET("/colors", func(c *gin.Context) {
		colors, err := cfg.Catalog.ListColors(c.Request.Context())
		if err != nil {
			writeUpstreamError(c, err)
			return
		}
		c.JSON(http.StatusOK, colors)
	})

	r.GET("/cart", func(c *gin.Context) {
		sc := cfg.Carts.Get(sessionID(c))
		c.JSON(http.StatusOK, gin.H{"items": sc.Items(), "total": sc.Total()})
	})

	r.POST("/cart", func(c *gin.Context) {
		var req validation.CartAddRequest
		if err := validation.BindAndValidate(c, &req, v); err != nil {
			return
		}
		sc := cfg.Carts.Get(sessionID(c))
		sc.Add(cart.ProductSnapshot{
			ID:    req.ProductID,
			Name:  req.Name,
			Price: req.Price,
			Image: req.Image,
		})
		c.JSON(http.StatusOK, gin.H{"items": sc.Items(), "total": sc.Total()})
	})

	r.PUT("/cart/:productId", func(c *gin.Context) {
		var req validation.CartQuantityRequest
		if err := validation.BindAndValidate(c, &req, v); err != nil {
			return
		}
		sc := cfg.Carts.Get(sessionID(c))
		sc.UpdateQuantity(c.Param("productId"), req.Quantity)
		c.JSON(http.StatusOK, gin.H{"items": sc.Items(), "total": sc.Total()})
	})

	r.DELETE("/cart/:productId", func(c *gin.Context) {
		sc := cfg.Carts.Get(sessionID(c))
		sc.Remove(c.Param("productId"))
		c.JSON(http.StatusOK, gin.H{"items": sc.Items(), "total": sc.Total()})
	})

	r.DELETE("/cart", func(c *gin.Context) {
		sc := cfg.Carts.Get(sessionID(c))
		sc.Clear()
		c.JSON(http.StatusOK, gin.H{"items": sc.Items(), "total": sc.Total()})
	})

	r.POST("/checkout", func(c *gin.Context) {
		var req validation.CheckoutRequest
		if err := validation.BindAndValidate(c, &req, v); err != nil {
			return
		}
		sc := cfg.Carts.Get(sessionID(c))
		items := sc.Items()
		if len(items) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"message": "cart is empty"})
			return
		}

		in := orders.CreateOrderInput{
			ShippingAddress: orders.ShippingAddress{
				Line1: req.ShippingAddress.Line1,
				Line2: req.ShippingAddress.Line2,
				City:  req.ShippingAddress.City,
				Phone: req.ShippingAddress.Phone,
			},
		}
		for _, it := range items {
			in.OrderItems = append(in.OrderItems, orders.OrderItem{
				ProductID: it.Product.ID,
				Quantity:  it.Quantity,
			})
		}

		order, err := cfg.Orders.Create(c.Request.Context(), in)
		if err != nil {
			writeUpstreamError(c, err)
			return
		}
		// cart survives until payment completes; see the session-status route
		c.JSON(http.StatusCreated, order)
	})

	r.GET("/orders", func(c *gin.Context) {
		list, err := cfg.Orders.UserOrders(c.Request.Context())
		if err != nil {
			writeUpstreamError(c, err)
			return
		}
		c.JSON(http.StatusOK, list)
	})

	r.GET("/orders/:id", func(c *gin.Context) {
		order, err := cfg.Orders.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			writeUpstreamError(c, err)
			return
		}
		c.JSON(http.StatusOK, order)
	})

	r.POST("/payments/session", func(c *gin.Context) {
		var req validation.CreatePaymentSessionRequest
		if err := validation.BindAndValidate(c, &req, v); err != nil {
			return
		}
		session, err := cfg.Payments.CreateSession(c.Request.Context(), req.OrderID)
		if err != nil {
			writeUpstreamError(c, err)
			return
		}
		c.JSON(http.StatusOK, session)
	})

	r.GET("/payments/session-status", func(c *gin.Context) {
		sid := c.Query("session_id")
		if sid == "" {
			c.JSON(http.StatusBadRequest, gin.H{"message": "session_id is required"})
			return
		}
		status, err := cfg.Payments.GetSessionStatus(c.Request.Context(), sid)
		if err != nil {
			writeUpstreamError(c, err)
			return
		}
		if status.Status == payments.SessionStatusComplete {
			cfg.Carts.Get(sessionID(c)).Clear()
		}
		c.JSON(http.StatusOK, status)
	})

	r.POST("/reviews", func(c *gin.Context) {
		var req validation.CreateReviewRequest
		if err := validation.BindAndValidate(c, &req, v); err != nil {
			return
		}
		review, err := cfg.Catalog.CreateReview(c.Request.Context(), catalog.ReviewInput{
			ProductID: req.ProductID,
			Review:    req.Review,
			Rating:    req.Rating,
		})
		if err != nil {
			writeUpstreamError(c, err)
			return
		}
		c.JSON(http.StatusCreated, review)
	})
}

func validSort(sortBy, sortOrder string) bool {
	switch sortBy {
	case "", "name", "price":
	default:
		return false
	}
	switch sortOrder {
	case "", "asc", "desc":
	default:
		return false
	}
	return true
}
