package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/tour-guide-api/internal/config"
)

// S3Store works with AWS S3 and any S3 compatible server (MinIO etc).
type S3Store struct {
	client    *s3.Client
	bucket    string
	publicURL string
	log       *zap.Logger
}

func NewS3Store(cfg config.UploadConfig, log *zap.Logger) (*S3Store, error) {
	if cfg.S3Bucket == "" {
		return nil, errors.New("S3_BUCKET is required for the s3 upload driver")
	}

	opts := s3.Options{
		Region:       cfg.S3Region,
		UsePathStyle: cfg.S3UsePathStyle,
	}
	if cfg.S3AccessKey != "" {
		opts.Credentials = credentials.NewStaticCredentialsProvider(cfg.S3AccessKey, cfg.S3SecretKey, "")
	}
	if cfg.S3Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.S3Endpoint)
	}

	return &S3Store{
		client:    s3.New(opts),
		bucket:    cfg.S3Bucket,
		publicURL: publicURL(cfg),
		log:       log.Named("s3"),
	}, nil
}

func (s *S3Store) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(s.bucket),
		Key:          aws.String(key),
		Body:         bytes.NewReader(data),
		ContentType:  aws.String(contentType),
		CacheControl: aws.String("public, max-age=31536000, immutable"),
	})
	if err != nil {
		return "", fmt.Errorf("put object %s: %w", key, err)
	}

	s.log.Debug("object stored", zap.String("key", key), zap.Int("bytes", len(data)))
	return s.publicURL + "/" + key, nil
}

func (s *S3Store) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete object %s: %w", key, err)
	}
	return nil
}

// publicURL is where stored objects can be fetched. S3_PUBLIC_URL wins,
// otherwise it is derived from the endpoint or the AWS virtual host.
func publicURL(cfg config.UploadConfig) string {
	if cfg.S3PublicURL != "" {
		return cfg.S3PublicURL
	}
	if cfg.S3Endpoint != "" {
		return strings.TrimRight(cfg.S3Endpoint, "/") + "/" + cfg.S3Bucket
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.S3Bucket, cfg.S3Region)
}

var _ AvatarStore = (*S3Store)(nil)
