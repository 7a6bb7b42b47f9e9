package main

import (
	"context"
	"log"
	"net/http"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"
	"github.com/gin-gonic/gin"

	"github.com/imrishuroy/go-storefront-gateway/internal/auth"
	"github.com/imrishuroy/go-storefront-gateway/internal/backend"
	"github.com/imrishuroy/go-storefront-gateway/internal/cache"
	"github.com/imrishuroy/go-storefront-gateway/internal/cart"
	"github.com/imrishuroy/go-storefront-gateway/internal/catalog"
	"github.com/imrishuroy/go-storefront-gateway/internal/handlers"
	"github.com/imrishuroy/go-storefront-gateway/internal/orders"
	"github.com/imrishuroy/go-storefront-gateway/internal/payments"
	"github.com/imrishuroy/go-storefront-gateway/internal/uploads"
)

func setupRouter(cfg handlers.HandlerConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(handlers.TokenPassthrough())

	// health
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	handlers.RegisterStorefrontRoutes(r, cfg)
	handlers.RegisterAdminRoutes(r, cfg)

	return r
}

func main() {
	apiBase := os.Getenv("COMMERCE_API_BASE_URL")
	if apiBase == "" {
		log.Fatal("COMMERCE_API_BASE_URL is required")
	}

	// fallback token source for calls without a caller token; shoppers and
	// admins normally bring their own bearer token, which takes precedence
	waiter := auth.NewWaiter(auth.StaticSource(os.Getenv("SERVICE_TOKEN")))

	client := backend.NewClient(apiBase, waiter, nil)
	store := cache.New()

	cfg := handlers.HandlerConfig{
		Catalog:  catalog.NewService(client, store),
		Orders:   orders.NewService(client, store),
		Payments: payments.NewService(client),
		Uploader: uploads.NewUploader(client, nil),
		Carts:    cart.NewSessions(),
	}

	r := setupRouter(cfg)

	// if environment variable RUN_LOCAL is set to "true", run local HTTP server for development.
	if os.Getenv("RUN_LOCAL") == "true" {
		addr := ":8080"
		log.Printf("running local server on %s", addr)
		if err := r.Run(addr); err != nil {
			log.Fatalf("failed to run local server: %v", err)
		}
		return
	}

	// lambda adapter
	adapter := ginadapter.New(r)

	lambda.Start(func(ctx context.Context, req events.APIGatewayProxyRequest) (interface{}, error) {
		return adapter.ProxyWithContext(ctx, req)
	})
}
