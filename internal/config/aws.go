package config

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
)

// AWSConfig covers the SQS queues used for search indexing and snapshot
// export, and the S3 bucket snapshots are written to.
type AWSConfig struct {
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	IndexQueueURL   string
	ExportQueueURL  string
	ExportBucket    string
	ExportPrefix    string
}

func DefaultAWSConfig() *AWSConfig {
	return &AWSConfig{
		Region:          getEnvOrDefault("AWS_REGION", "us-east-1"),
		Endpoint:        getEnvOrDefault("AWS_ENDPOINT_URL", ""),
		AccessKeyID:     getEnvOrDefault("AWS_ACCESS_KEY_ID", "dummy"),
		SecretAccessKey: getEnvOrDefault("AWS_SECRET_ACCESS_KEY", "dummy"),
		IndexQueueURL:   getEnvOrDefault("AWS_SQS_INDEX_QUEUE_URL", ""),
		ExportQueueURL:  getEnvOrDefault("AWS_SQS_EXPORT_QUEUE_URL", ""),
		ExportBucket:    getEnvOrDefault("S3_EXPORT_BUCKET", "remote-config-snapshots"),
		ExportPrefix:    getEnvOrDefault("S3_EXPORT_PREFIX", "configs"),
	}
}

// QueuesEnabled reports whether both queue URLs are configured.
func (c *AWSConfig) QueuesEnabled() bool {
	return c.IndexQueueURL != "" && c.ExportQueueURL != ""
}

func (c *AWSConfig) load(ctx context.Context) (aws.Config, error) {
	options := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(c.Region)}

	// Custom endpoint means LocalStack: static credentials, fixed resolver.
	if c.Endpoint != "" {
		resolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, opts ...interface{}) (aws.Endpoint, error) {
			return aws.Endpoint{
				PartitionID:   "aws",
				URL:           c.Endpoint,
				SigningRegion: c.Region,
			}, nil
		})
		options = append(options,
			awsconfig.WithEndpointResolverWithOptions(resolver),
			awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
				c.AccessKeyID,
				c.SecretAccessKey,
				"",
			)),
		)
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, options...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("unable to load SDK config: %w", err)
	}
	return cfg, nil
}

func (c *AWSConfig) SQSClient(ctx context.Context) (*sqs.Client, error) {
	cfg, err := c.load(ctx)
	if err != nil {
		return nil, err
	}
	return sqs.NewFromConfig(cfg), nil
}

func (c *AWSConfig) S3Client(ctx context.Context) (*s3.Client, error) {
	cfg, err := c.load(ctx)
	if err != nil {
		return nil, err
	}
	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		if c.Endpoint != "" {
			o.UsePathStyle = true
		}
	}), nil
}
