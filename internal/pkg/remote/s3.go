package remote

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gofiber/fiber/v2/log"
)

// S3Storage implements the sync engine's object storage over any
// S3-compatible service.
type S3Storage struct {
	client *s3.Client
	config *Config
}

// NewS3Storage creates an S3 object storage client from the config
func NewS3Storage(cfg *Config) (*S3Storage, error) {
	if !cfg.StorageConfigured() {
		return nil, fmt.Errorf("object storage is not configured")
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.TODO(),
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.EndpointURL != "" {
			o.BaseEndpoint = aws.String(cfg.EndpointURL)
			// S3-compatible services need path-style URLs
			o.UsePathStyle = true
			o.UseAccelerate = false
		}
	})

	log.Infof("[Remote] object storage client ready for bucket %s", cfg.BucketName)
	return &S3Storage{client: client, config: cfg}, nil
}

// Upload puts one blob under the given key and returns its public URL
func (s *S3Storage) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.config.BucketName),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	url := s.publicURL(key)
	log.Infof("[Remote] uploaded s3://%s/%s (%d bytes)", s.config.BucketName, key, len(data))
	return url, nil
}

// publicURL builds the public link for an uploaded object
func (s *S3Storage) publicURL(key string) string {
	if s.config.PublicBaseURL != "" {
		return strings.TrimRight(s.config.PublicBaseURL, "/") + "/" + key
	}
	if s.config.Region == "us-east-1" {
		return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.config.BucketName, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.config.BucketName, s.config.Region, key)
}
