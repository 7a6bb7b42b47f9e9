package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"

	"github.com/imrishuroy/go-storefront-gateway/internal/auth"
	internalaws "github.com/imrishuroy/go-storefront-gateway/internal/aws"
	"github.com/imrishuroy/go-storefront-gateway/internal/backend"
	"github.com/imrishuroy/go-storefront-gateway/internal/cache"
	"github.com/imrishuroy/go-storefront-gateway/internal/catalog"
)

const metricsNamespace = "StorefrontGateway"

func main() {
	apiBase := os.Getenv("COMMERCE_API_BASE_URL")
	if apiBase == "" {
		log.Fatal("COMMERCE_API_BASE_URL is required")
	}

	waiter := auth.NewWaiter(auth.StaticSource(os.Getenv("SERVICE_TOKEN")))
	client := backend.NewClient(apiBase, waiter, nil)
	store := cache.New()
	svc := catalog.NewService(client, store)

	var metrics *internalaws.MetricsPublisher
	clients, err := internalaws.NewAWSClients(context.Background())
	if err != nil {
		// metrics are best-effort; warming still works without them
		log.Printf("[warmer] aws clients unavailable, metrics disabled: %v", err)
	} else {
		metrics = internalaws.NewMetricsPublisher(clients.CloudWatch, metricsNamespace)
	}

	warmer := NewWarmer(svc, store, metrics)

	// If RUN_LOCAL=true, warm on a ticker instead of waiting for scheduled events.
	if os.Getenv("RUN_LOCAL") == "true" {
		interval := 5 * time.Minute
		if raw := os.Getenv("WARM_INTERVAL"); raw != "" {
			if d, err := time.ParseDuration(raw); err == nil {
				interval = d
			}
		}
		log.Printf("[warmer] running locally every %s", interval)
		warmer.Run(context.Background(), interval)
		return
	}

	lambda.Start(func(ctx context.Context, ev events.CloudWatchEvent) error {
		log.Printf("[warmer] scheduled event %s", ev.ID)
		return warmer.WarmOnce(ctx)
	})
}
