package media

import (
	"bytes"
	"context"
	"fmt"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/townlist/townlist-services/api/internal/config"
)

// MinioContentArea stores photos in a MinIO/S3 bucket. The bucket is served
// as static content by the web layer.
type MinioContentArea struct {
	client *minio.Client
	bucket string
}

// NewMinioContentArea connects to MinIO and makes sure the photo bucket
// exists.
func NewMinioContentArea(ctx context.Context, cfg config.MinioConfig) (*MinioContentArea, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket %q: %w", cfg.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket %q: %w", cfg.Bucket, err)
		}
	}

	return &MinioContentArea{client: client, bucket: cfg.Bucket}, nil
}

// Write uploads one photo under its generated filename. PutObject does not
// return until MinIO has accepted the full object, which gives the pipeline
// its durability guarantee.
func (a *MinioContentArea) Write(ctx context.Context, filename string, data []byte, contentType string) error {
	_, err := a.client.PutObject(ctx, a.bucket, filename, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("upload %q: %w", filename, err)
	}
	return nil
}
