// Package storage mirrors catalog artwork into S3-compatible object storage.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/pokedex/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

const defaultEndpoint = "localhost:9000"

var errEmptyKey = errors.New("storage key is required")

// s3API is the slice of the S3 client the mirror needs
type s3API interface {
	HeadBucket(ctx context.Context, in *s3.HeadBucketInput, opts ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
	CreateBucket(ctx context.Context, in *s3.CreateBucketInput, opts ...func(*s3.Options)) (*s3.CreateBucketOutput, error)
	HeadObject(ctx context.Context, in *s3.HeadObjectInput, opts ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	PutObject(ctx context.Context, in *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3ObjectStorage writes sprites to an S3-compatible bucket (AWS, MinIO,
// RustFS). Requests are path-style so self-hosted servers need no DNS.
type S3ObjectStorage struct {
	client     s3API
	bucket     string
	publicBase string
	logger     *zap.Logger
}

type S3ObjectStorageOption func(*S3ObjectStorage)

func WithLogger(logger *zap.Logger) S3ObjectStorageOption {
	return func(s *S3ObjectStorage) { s.logger = logger }
}

// NewS3ObjectStorage builds a client from static credentials. Nothing is
// contacted until the first call.
func NewS3ObjectStorage(cfg *config.StorageConfig, opts ...S3ObjectStorageOption) (*S3ObjectStorage, error) {
	switch {
	case cfg == nil:
		return nil, errors.New("storage configuration is required")
	case cfg.Bucket == "":
		return nil, errors.New("storage bucket is required")
	case cfg.AccessKey == "":
		return nil, errors.New("storage access key is required")
	case cfg.SecretKey == "":
		return nil, errors.New("storage secret key is required")
	}

	endpoint := normalizeEndpoint(cfg.Endpoint, cfg.UseSSL)
	if _, err := url.ParseRequestURI(endpoint); err != nil {
		return nil, fmt.Errorf("invalid storage endpoint %q: %w", endpoint, err)
	}

	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	publicBase := strings.TrimRight(cfg.PublicURL, "/")
	if publicBase == "" {
		publicBase = endpoint + "/" + cfg.Bucket
	}

	s := &S3ObjectStorage{
		client: s3.NewFromConfig(awsCfg, func(o *s3.Options) {
			o.UsePathStyle = true
			o.BaseEndpoint = aws.String(endpoint)
		}),
		bucket:     cfg.Bucket,
		publicBase: publicBase,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// normalizeEndpoint adds a scheme when the endpoint is a bare host:port
func normalizeEndpoint(endpoint string, useSSL bool) string {
	if endpoint == "" {
		endpoint = defaultEndpoint
	}
	if !strings.Contains(endpoint, "://") {
		scheme := "http://"
		if useSSL {
			scheme = "https://"
		}
		endpoint = scheme + endpoint
	}
	return strings.TrimSuffix(endpoint, "/")
}

// EnsureBucket creates the bucket unless it already exists. Losing a create
// race to a concurrent seeder counts as success.
func (s *S3ObjectStorage) EnsureBucket(ctx context.Context) error {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(s.bucket)})
	if err == nil {
		return nil
	}
	if !isMissing(err) {
		return fmt.Errorf("check bucket %s: %w", s.bucket, err)
	}

	_, err = s.client.CreateBucket(ctx, &s3.CreateBucketInput{Bucket: aws.String(s.bucket)})
	var owned *types.BucketAlreadyOwnedByYou
	switch {
	case err == nil:
		s.logger.Info("Storage bucket created", zap.String("bucket", s.bucket))
		return nil
	case errors.As(err, &owned):
		return nil
	default:
		return fmt.Errorf("create bucket %s: %w", s.bucket, err)
	}
}

// ObjectExists reports whether key is already stored
func (s *S3ObjectStorage) ObjectExists(ctx context.Context, key string) (bool, error) {
	if key == "" {
		return false, errEmptyKey
	}
	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{Bucket: aws.String(s.bucket), Key: aws.String(key)})
	switch {
	case err == nil:
		return true, nil
	case isMissing(err):
		return false, nil
	default:
		return false, fmt.Errorf("head object %s: %w", key, err)
	}
}

// Upload stores data under key, replacing any existing object
func (s *S3ObjectStorage) Upload(ctx context.Context, key string, data []byte, contentType string) error {
	if key == "" {
		return errEmptyKey
	}
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("put object %s: %w", key, err)
	}
	return nil
}

func (s *S3ObjectStorage) PublicURL(key string) string {
	return s.publicBase + "/" + strings.TrimLeft(key, "/")
}

func (s *S3ObjectStorage) GetBucket() string {
	return s.bucket
}

// isMissing recognises a 404 from HEAD. HEAD responses carry no body, so
// some servers only surface the generic NotFound code.
func isMissing(err error) bool {
	var (
		notFound     *types.NotFound
		noSuchKey    *types.NoSuchKey
		noSuchBucket *types.NoSuchBucket
		apiErr       smithy.APIError
	)
	switch {
	case errors.As(err, &notFound), errors.As(err, &noSuchKey), errors.As(err, &noSuchBucket):
		return true
	case errors.As(err, &apiErr):
		code := apiErr.ErrorCode()
		return code == "NotFound" || code == "NoSuchKey" || code == "NoSuchBucket"
	}
	return false
}

var _ ObjectStore = (*S3ObjectStorage)(nil)
