// Package uploads stores item cover images in S3-compatible object storage.
package uploads

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// ObjectStore is the S3 client subset the service needs; *s3.Client
// satisfies it, tests substitute a stub.
type ObjectStore interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// Config carries the object-storage connection settings (MinIO in
// development, any S3 endpoint in production).
type Config struct {
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
	PublicURL string
}

// NewClient builds an S3 client against a custom endpoint with static
// credentials. Path-style addressing is required by MinIO.
func NewClient(ctx context.Context, cfg Config) (*s3.Client, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("uploads: load aws config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.Endpoint)
		o.UsePathStyle = true
	})
	return client, nil
}

// Service uploads and removes objects in a single bucket.
type Service struct {
	store     ObjectStore
	bucket    string
	publicURL string
}

// NewService constructs the upload service.
func NewService(store ObjectStore, bucket, publicURL string) *Service {
	return &Service{store: store, bucket: bucket, publicURL: publicURL}
}

// Upload stores the file under a random key, keeping the original extension,
// and returns the public URL to persist on the item.
func (s *Service) Upload(ctx context.Context, data []byte, originalName, contentType string) (string, error) {
	key := uuid.NewString() + strings.ToLower(filepath.Ext(originalName))
	_, err := s.store.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("uploads: put object: %w", err)
	}
	return fmt.Sprintf("%s/%s/%s", strings.TrimSuffix(s.publicURL, "/"), s.bucket, key), nil
}

// Delete removes an object by key.
func (s *Service) Delete(ctx context.Context, key string) error {
	_, err := s.store.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("uploads: delete object: %w", err)
	}
	return nil
}
