package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/apexwis/AudioSplitterFaaS/config"
	"github.com/apexwis/AudioSplitterFaaS/logger"
)

// ErrStoreUnavailable indicates the object store rejected an operation due to
// missing/invalid credentials or connectivity. Retryable by the caller,
// unlike an extraction failure.
var ErrStoreUnavailable = errors.New("object store unavailable")

// ObjectStore is the contract the publisher needs from the backing store.
// Implementations must be safe for concurrent use by multiple requests.
type ObjectStore interface {
	// Upload writes data under key with the given content type.
	Upload(ctx context.Context, key string, data []byte, contentType string) error

	// PresignGet mints a time-limited retrieval URL for key. Signing is local;
	// no network call is made.
	PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error)
}

// MinioStore is an ObjectStore backed by a MinIO/S3 bucket.
type MinioStore struct {
	client *minio.Client
	bucket string
}

// NewMinioStore connects to the object store and verifies the bucket exists,
// creating it when absent. Called once at startup.
func NewMinioStore(cfg *config.Config) (*MinioStore, error) {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: cfg.MinioUseSSL,
		Region: cfg.MinioRegion,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create object store client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	exists, err := client.BucketExists(ctx, cfg.MinioBucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket %s: %w", cfg.MinioBucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.MinioBucket, minio.MakeBucketOptions{Region: cfg.MinioRegion}); err != nil {
			return nil, fmt.Errorf("failed to create bucket %s: %w", cfg.MinioBucket, err)
		}
		logger.Info("created bucket", logger.String("bucket", cfg.MinioBucket))
	}

	logger.Info("object store client initialized",
		logger.String("endpoint", cfg.MinioEndpoint),
		logger.String("bucket", cfg.MinioBucket))

	return &MinioStore{client: client, bucket: cfg.MinioBucket}, nil
}

// Upload writes one segment's bytes to the bucket.
func (s *MinioStore) Upload(ctx context.Context, key string, data []byte, contentType string) error {
	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return fmt.Errorf("%w: put %s: %v", ErrStoreUnavailable, key, err)
	}
	return nil
}

// PresignGet returns a GET URL for key valid for expiry.
func (s *MinioStore) PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error) {
	u, err := s.client.PresignedGetObject(ctx, s.bucket, key, expiry, url.Values{})
	if err != nil {
		return "", fmt.Errorf("%w: presign %s: %v", ErrStoreUnavailable, key, err)
	}
	return u.String(), nil
}
