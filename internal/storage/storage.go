// Package storage keeps avatar files on local disk or in an S3 bucket.
package storage

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/tour-guide-api/internal/config"
)

// AvatarStore saves objects under a key and serves them from a public URL.
type AvatarStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (url string, err error)
	Delete(ctx context.Context, key string) error
}

// New builds the store selected by UPLOAD_DRIVER.
func New(cfg config.UploadConfig, log *zap.Logger) (AvatarStore, error) {
	switch cfg.Driver {
	case "", "local":
		return NewLocalStore(cfg.Dir, cfg.PublicBaseURL+"/uploads")
	case "s3":
		return NewS3Store(cfg, log)
	default:
		return nil, fmt.Errorf("unknown upload driver %q", cfg.Driver)
	}
}
