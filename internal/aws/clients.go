package aws

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
)

// CloudWatchAPI is the subset of the CloudWatch client this service uses.
// Kept as an interface so tests can inject a mock.
type CloudWatchAPI interface {
	PutMetricData(ctx context.Context, params *cloudwatch.PutMetricDataInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error)
}

// AWSClients bundles the service clients for convenience.
type AWSClients struct {
	CloudWatch CloudWatchAPI
}

// NewAWSClients loads AWS config and returns concrete service clients that
// implement our interfaces.
func NewAWSClients(ctx context.Context) (*AWSClients, error) {
	cfg, err := LoadAWSConfig(ctx)
	if err != nil {
		return nil, err
	}

	return &AWSClients{
		CloudWatch: cloudwatch.NewFromConfig(cfg),
	}, nil
}
