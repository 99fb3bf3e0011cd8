package remote

import (
	"errors"

	"github.com/hhtelecom/fieldcapture/internal/pkg/env"
)

// Config holds the remote sync target configuration
type Config struct {
	// Object storage
	AccessKeyID     string
	SecretAccessKey string
	Region          string
	BucketName      string
	EndpointURL     string // Optional for S3-compatible services
	PublicBaseURL   string // Optional CDN/base URL for public links

	// Remote database (row upserts)
	DatabaseURL string
	DatabaseKey string
}

// LoadConfig loads the remote sync configuration from environment variables
func LoadConfig() (*Config, error) {
	config := &Config{
		AccessKeyID:     env.GetEnv("S3_ACCESS_KEY_ID", ""),
		SecretAccessKey: env.GetEnv("S3_SECRET_ACCESS_KEY", ""),
		Region:          env.GetEnv("S3_REGION", "us-east-1"),
		BucketName:      env.GetEnv("S3_BUCKET_NAME", ""),
		EndpointURL:     env.GetEnv("S3_ENDPOINT_URL", ""),
		PublicBaseURL:   env.GetEnv("S3_PUBLIC_BASE_URL", ""),
		DatabaseURL:     env.GetEnv("REMOTE_DB_URL", ""),
		DatabaseKey:     env.GetEnv("REMOTE_DB_KEY", ""),
	}

	if config.StorageConfigured() {
		if config.AccessKeyID == "" {
			return nil, errors.New("S3_ACCESS_KEY_ID is required when object storage is configured")
		}
		if config.SecretAccessKey == "" {
			return nil, errors.New("S3_SECRET_ACCESS_KEY is required when object storage is configured")
		}
	}

	return config, nil
}

// StorageConfigured returns true when an upload bucket is configured.
// An unconfigured backend is normal in the field: capture keeps working
// and sync passes are skipped.
func (c *Config) StorageConfigured() bool {
	return c.BucketName != ""
}

// DatabaseConfigured returns true when the row-upsert endpoint is configured
func (c *Config) DatabaseConfigured() bool {
	return c.DatabaseURL != ""
}
