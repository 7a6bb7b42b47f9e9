package aws

import (
	"context"
	"fmt"
	"os"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
)

// defaultRegion is used when the environment does not pin one; the gateway
// stack deploys to us-east-1 unless told otherwise.
const defaultRegion = "us-east-1"

// resolveRegion picks the region for the metrics client: AWS_REGION when
// set, defaultRegion otherwise.
func resolveRegion() string {
	if region := os.Getenv("AWS_REGION"); region != "" {
		return region
	}
	return defaultRegion
}

// LoadAWSConfig loads the default AWS config pinned to the resolved region.
func LoadAWSConfig(ctx context.Context) (sdkaws.Config, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(resolveRegion()))
	if err != nil {
		return sdkaws.Config{}, fmt.Errorf("load aws config: %w", err)
	}
	return cfg, nil
}
