package aws

import (
	"context"
	"fmt"
	"time"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
)

// MetricsPublisher pushes gateway metrics (cache hit/miss counters, warm
// latency) to CloudWatch under a fixed namespace.
type MetricsPublisher struct {
	CloudWatch CloudWatchAPI
	Namespace  string
	nowFunc    func() time.Time
}

// NewMetricsPublisher returns a publisher bound to a namespace.
func NewMetricsPublisher(cw CloudWatchAPI, namespace string) *MetricsPublisher {
	return &MetricsPublisher{
		CloudWatch: cw,
		Namespace:  namespace,
		nowFunc:    time.Now,
	}
}

// PublishCacheStats records the cache hit and miss counters.
func (p *MetricsPublisher) PublishCacheStats(ctx context.Context, hits, misses uint64) error {
	now := p.nowFunc()
	data := []cwtypes.MetricDatum{
		{
			MetricName: sdkaws.String("CacheHits"),
			Timestamp:  &now,
			Unit:       cwtypes.StandardUnitCount,
			Value:      sdkaws.Float64(float64(hits)),
		},
		{
			MetricName: sdkaws.String("CacheMisses"),
			Timestamp:  &now,
			Unit:       cwtypes.StandardUnitCount,
			Value:      sdkaws.Float64(float64(misses)),
		},
	}
	return p.put(ctx, data)
}

// PublishWarmLatency records how long one cache warm cycle took.
func (p *MetricsPublisher) PublishWarmLatency(ctx context.Context, d time.Duration) error {
	now := p.nowFunc()
	data := []cwtypes.MetricDatum{
		{
			MetricName: sdkaws.String("WarmLatency"),
			Timestamp:  &now,
			Unit:       cwtypes.StandardUnitMilliseconds,
			Value:      sdkaws.Float64(float64(d.Milliseconds())),
		},
	}
	return p.put(ctx, data)
}

func (p *MetricsPublisher) put(ctx context.Context, data []cwtypes.MetricDatum) error {
	input := &cloudwatch.PutMetricDataInput{
		Namespace:  sdkaws.String(p.Namespace),
		MetricData: data,
	}
	if _, err := p.CloudWatch.PutMetricData(ctx, input); err != nil {
		return fmt.Errorf("put metric data: %w", err)
	}
	return nil
}
