package hosting

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/roomify-labs/roomify-backend/config"
)

// S3Backend implements Backend on S3-compatible storage. A namespace slug
// maps to a bucket; directories are zero-byte prefix markers.
type S3Backend struct {
	client *s3.Client
	region string
}

func NewS3Backend(ctx context.Context, cfg *config.HostingConfig) (*S3Backend, error) {
	opts := []func(*awscfg.LoadOptions) error{
		awscfg.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, awscfg.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")))
	}

	awsCfg, err := awscfg.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3Backend{client: client, region: cfg.Region}, nil
}

func (b *S3Backend) NamespaceExists(ctx context.Context, slug string) (bool, error) {
	_, err := b.client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(slug),
	})
	if err != nil {
		var notFound *types.NotFound
		if errors.As(err, &notFound) {
			return false, nil
		}
		return false, fmt.Errorf("head bucket %s: %w", slug, err)
	}
	return true, nil
}

func (b *S3Backend) CreateNamespace(ctx context.Context, slug string) error {
	input := &s3.CreateBucketInput{
		Bucket: aws.String(slug),
	}
	// us-east-1 rejects an explicit location constraint
	if b.region != "us-east-1" {
		input.CreateBucketConfiguration = &types.CreateBucketConfiguration{
			LocationConstraint: types.BucketLocationConstraint(b.region),
		}
	}

	_, err := b.client.CreateBucket(ctx, input)
	if err != nil {
		var owned *types.BucketAlreadyOwnedByYou
		if errors.As(err, &owned) {
			return nil
		}
		return fmt.Errorf("create bucket %s: %w", slug, err)
	}
	return nil
}

func (b *S3Backend) EnsureDir(ctx context.Context, slug, dir string) error {
	if dir == "" {
		return nil
	}
	// Zero-byte prefix marker; repeated puts overwrite the marker.
	_, err := b.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(slug),
		Key:    aws.String(dir + "/"),
		Body:   bytes.NewReader(nil),
	})
	if err != nil {
		return fmt.Errorf("ensure dir %s/%s: %w", slug, dir, err)
	}
	return nil
}

func (b *S3Backend) Write(ctx context.Context, slug, path string, body []byte, contentType string) error {
	_, err := b.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(slug),
		Key:         aws.String(path),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("write %s/%s: %w", slug, path, err)
	}
	return nil
}
