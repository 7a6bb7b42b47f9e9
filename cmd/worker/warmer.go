package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/imrishuroy/go-storefront-gateway/internal/aws"
	"github.com/imrishuroy/go-storefront-gateway/internal/cache"
	"github.com/imrishuroy/go-storefront-gateway/internal/catalog"
)

// trendingLimit matches the storefront's trending section size so the warm
// entry is the one shoppers actually hit.
const trendingLimit = 8

// cacheIdleTTL is how long an unread, unsubscribed entry may linger before
// a warm cycle sweeps it. Distinct searches, filters and order ids each
// create an entry, so without the sweep a long-lived process grows without
// bound.
const cacheIdleTTL = time.Minute

// warmTarget is one entry the warmer keeps fresh: the cache key it
// subscribes to and a direct fetch for priming and recovery.
type warmTarget struct {
	name  string
	key   cache.Key
	fetch func(ctx context.Context) error
}

// Warmer keeps the hottest catalog reads fresh and reports cache health.
// It subscribes to the trending, category and color entries; each cycle
// sweeps idle entries, invalidates the catalog tags and waits for the
// cache's background refetch to push the new payloads to its
// subscriptions. Targets whose push never arrives are refetched directly.
type Warmer struct {
	cache   *cache.Store
	metrics *aws.MetricsPublisher
	nowFunc func() time.Time

	targets        []warmTarget
	subs           []<-chan interface{}
	cancels        []func()
	refreshTimeout time.Duration
}

// NewWarmer creates a warmer over the shared catalog service and cache.
func NewWarmer(svc *catalog.Service, store *cache.Store, metrics *aws.MetricsPublisher) *Warmer {
	return &Warmer{
		cache:   store,
		metrics: metrics,
		nowFunc: time.Now,
		targets: []warmTarget{
			{
				name: "trending",
				key:  catalog.TrendingKey("", trendingLimit),
				fetch: func(ctx context.Context) error {
					_, err := svc.TrendingProducts(ctx, "", trendingLimit)
					return err
				},
			},
			{
				name: "categories",
				key:  catalog.CategoriesKey(),
				fetch: func(ctx context.Context) error {
					_, err := svc.ListCategories(ctx)
					return err
				},
			},
			{
				name: "colors",
				key:  catalog.ColorsKey(),
				fetch: func(ctx context.Context) error {
					_, err := svc.ListColors(ctx)
					return err
				},
			},
		},
		refreshTimeout: 10 * time.Second,
	}
}

// WarmOnce runs a single warm cycle. Individual target failures are
// collected, not fatal: a partially warm cache is still a win.
func (w *Warmer) WarmOnce(ctx context.Context) error {
	started := w.nowFunc()

	if evicted := w.cache.EvictIdle(cacheIdleTTL); evicted > 0 {
		log.Printf("[warmer] evicted %d idle entries", evicted)
	}

	var errs []error
	if w.subs == nil {
		errs = w.prime(ctx)
	} else {
		errs = w.refresh(ctx)
	}

	elapsed := w.nowFunc().Sub(started)
	stats := w.cache.Stats()
	log.Printf("[warmer] cycle done in %s (hits=%d misses=%d errors=%d)",
		elapsed, stats.Hits, stats.Misses, len(errs))

	if w.metrics != nil {
		if err := w.metrics.PublishCacheStats(ctx, stats.Hits, stats.Misses); err != nil {
			log.Printf("[warmer] publish cache stats: %v", err)
		}
		if err := w.metrics.PublishWarmLatency(ctx, elapsed); err != nil {
			log.Printf("[warmer] publish latency: %v", err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("warm cycle finished with %d errors, first: %w", len(errs), errs[0])
	}
	return nil
}

// prime fetches every target once to seed the entries, then subscribes to
// them so later cycles ride the cache's own refetch path.
func (w *Warmer) prime(ctx context.Context) []error {
	var errs []error
	for _, t := range w.targets {
		if err := t.fetch(ctx); err != nil {
			errs = append(errs, fmt.Errorf("warm %s: %w", t.name, err))
		}
	}
	for _, t := range w.targets {
		ch, cancel := w.cache.Subscribe(t.key)
		w.subs = append(w.subs, ch)
		w.cancels = append(w.cancels, cancel)
	}
	return errs
}

// refresh invalidates the catalog tags and waits for the background
// refetch of each subscribed entry. A target whose push does not arrive
// within the timeout is fetched directly.
func (w *Warmer) refresh(ctx context.Context) []error {
	// drop pushes left over from mutations between cycles so the waits
	// below only see this cycle's refetches
	for _, ch := range w.subs {
		select {
		case <-ch:
		default:
		}
	}

	w.cache.Invalidate(cache.TagProduct, cache.TagCategory, cache.TagColor)

	var errs []error
	for i, t := range w.targets {
		select {
		case <-w.subs[i]:
		case <-ctx.Done():
			errs = append(errs, fmt.Errorf("warm %s: %w", t.name, ctx.Err()))
		case <-time.After(w.refreshTimeout):
			if err := t.fetch(ctx); err != nil {
				errs = append(errs, fmt.Errorf("warm %s: %w", t.name, err))
			}
		}
	}
	return errs
}

// Close releases the warmer's cache subscriptions.
func (w *Warmer) Close() {
	for _, cancel := range w.cancels {
		cancel()
	}
	w.subs = nil
	w.cancels = nil
}

// Run warms on a fixed interval until ctx is cancelled. Used in local mode;
// the Lambda deployment triggers WarmOnce per scheduled event instead.
func (w *Warmer) Run(ctx context.Context, interval time.Duration) {
	defer w.Close()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		if err := w.WarmOnce(ctx); err != nil {
			log.Printf("[warmer] %v", err)
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
