package internal

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sts"
)

// Uploader pushes downloaded report artifacts to S3 for warehouse ingestion.
type Uploader struct {
	cfg aws.Config

	// Identity is the caller ARN confirmed via STS before any upload.
	Identity string
}

// NewUploader loads AWS configuration and verifies the caller identity.
// Static credentials from the environment take priority over a shared-config
// profile.
func NewUploader(ctx context.Context, profile, region string) (*Uploader, error) {
	var opts []func(*config.LoadOptions) error
	if region != "" {
		opts = append(opts, config.WithRegion(region))
	}

	accessKey := os.Getenv("AWS_ACCESS_KEY_ID")
	secretKey := os.Getenv("AWS_SECRET_ACCESS_KEY")
	if accessKey != "" && secretKey != "" {
		opts = append(opts, config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			accessKey,
			secretKey,
			os.Getenv("AWS_SESSION_TOKEN"),
		)))
	} else if profile != "" {
		opts = append(opts, config.WithSharedConfigProfile(profile))
	}

	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	stsClient := sts.NewFromConfig(cfg)
	identity, err := stsClient.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return nil, fmt.Errorf("AWS identity check failed: %w", err)
	}

	return &Uploader{cfg: cfg, Identity: aws.ToString(identity.Arn)}, nil
}

// Upload puts a local file at s3://bucket/[prefix/]basename and returns the
// resulting S3 URI.
func (u *Uploader) Upload(ctx context.Context, bucket, prefix, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	key := filepath.Base(path)
	if prefix != "" {
		key = strings.TrimSuffix(prefix, "/") + "/" + key
	}

	client := s3.NewFromConfig(u.cfg)
	_, err = client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
		Body:   f,
	})
	if err != nil {
		return "", fmt.Errorf("upload of %s failed: %w", path, err)
	}
	return "s3://" + bucket + "/" + key, nil
}
