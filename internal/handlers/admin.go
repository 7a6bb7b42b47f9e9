package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/imrishuroy/go-storefront-gateway/internal/catalog"
	"github.com/imrishuroy/go-storefront-gateway/internal/orders"
	"github.com/imrishuroy/go-storefront-gateway/internal/validation"
)

// RegisterAdminRoutes registers the admin console routes: product CRUD,
// image uploads, order status updates and the sales dashboard feed. Role
// enforcement happens upstream against the caller's token; the gateway
// only forwards it.
func RegisterAdminRoutes(r *gin.Engine, cfg HandlerConfig) {
	v := validation.New()
	admin := r.Group("/admin")

	admin.POST("/products", func(c *gin.Context) {
		var req validation.CreateProductRequest
		if err := validation.BindAndValidate(c, &req, v); err != nil {
			return
		}
		product, err := cfg.Catalog.CreateProduct(c.Request.Context(), productInput(req))
		if err != nil {
			writeUpstreamError(c, err)
			return
		}
		c.JSON(http.StatusCreated, product)
	})

	admin.PUT("/products/:id", func(c *gin.Context) {
		var req validation.CreateProductRequest
		if err := validation.BindAndValidate(c, &req, v); err != nil {
			return
		}
		product, err := cfg.Catalog.UpdateProduct(c.Request.Context(), c.Param("id"), productInput(req))
		if err != nil {
			writeUpstreamError(c, err)
			return
		}
		c.JSON(http.StatusOK, product)
	})

	admin.DELETE("/products/:id", func(c *gin.Context) {
		if err := cfg.Catalog.DeleteProduct(c.Request.Context(), c.Param("id")); err != nil {
			writeUpstreamError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	})

	// presign only: the browser PUTs the file straight to object storage
	admin.POST("/products/images", func(c *gin.Context) {
		var req validation.ImageUploadRequest
		if err := validation.BindAndValidate(c, &req, v); err != nil {
			return
		}
		presign, err := cfg.Uploader.RequestPresign(c.Request.Context(), req.FileType)
		if err != nil {
			writeUpstreamError(c, err)
			return
		}
		c.JSON(http.StatusOK, presign)
	})

	// full flow for clients that cannot PUT to storage themselves: raw
	// file bytes in, public URL out
	admin.POST("/products/images/content", func(c *gin.Context) {
		fileType := c.ContentType()
		if fileType == "" {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Content-Type is required"})
			return
		}
		file, err := c.GetRawData()
		if err != nil || len(file) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"message": "file body is required"})
			return
		}
		publicURL, err := cfg.Uploader.Upload(c.Request.Context(), fileType, file)
		if err != nil {
			writeUpstreamError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"publicURL": publicURL})
	})

	admin.GET("/orders", func(c *gin.Context) {
		list, err := cfg.Orders.AllOrders(c.Request.Context())
		if err != nil {
			writeUpstreamError(c, err)
			return
		}
		c.JSON(http.StatusOK, list)
	})

	admin.PUT("/orders/:id", func(c *gin.Context) {
		var req validation.UpdateOrderStatusRequest
		if err := validation.BindAndValidate(c, &req, v); err != nil {
			return
		}
		order, err := cfg.Orders.UpdateStatus(c.Request.Context(), c.Param("id"), orders.StatusUpdate{
			OrderStatus:   req.OrderStatus,
			PaymentStatus: req.PaymentStatus,
		})
		if err != nil {
			writeUpstreamError(c, err)
			return
		}
		c.JSON(http.StatusOK, order)
	})

	admin.GET("/sales", func(c *gin.Context) {
		days := 7
		if raw := c.Query("days"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n <= 0 {
				c.JSON(http.StatusBadRequest, gin.H{"message": "days must be a positive integer"})
				return
			}
			days = n
		}
		sales, err := cfg.Orders.Sales(c.Request.Context(), days)
		if err != nil {
			writeUpstreamError(c, err)
			return
		}
		c.JSON(http.StatusOK, sales)
	})
}

func productInput(req validation.CreateProductRequest) catalog.ProductInput {
	return catalog.ProductInput{
		CategoryID:  req.CategoryID,
		ColorID:     req.ColorID,
		Name:        req.Name,
		Image:       req.Image,
		Stock:       req.Stock,
		Price:       req.Price,
		Description: req.Description,
	}
}
