package storage

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinIOOptions configures MinIO client initialization.
type MinIOOptions struct {
	Endpoint     string
	AccessKey    string
	SecretKey    string
	SessionToken string
	Region       string
	UseSSL       bool
}

// MinIOAdapter implements Storage on MinIO. Unlike S3 the bucket is created
// on first use, which suits a self-hosted deployment.
type MinIOAdapter struct {
	client *minio.Client
	region string

	mu    sync.Mutex
	ready map[string]bool
}

func NewMinIO(opts MinIOOptions) (*MinIOAdapter, error) {
	client, err := minio.New(opts.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, opts.SessionToken),
		Secure: opts.UseSSL,
		Region: opts.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("storage: minio client: %w", err)
	}

	return &MinIOAdapter{client: client, region: opts.Region, ready: make(map[string]bool)}, nil
}

func (m *MinIOAdapter) PutObject(ctx context.Context, bucket, key string, r io.Reader, opts PutOptions) (ObjectInfo, error) {
	if err := checkKey(key); err != nil {
		return ObjectInfo{}, err
	}
	if err := m.bucket(ctx, bucket); err != nil {
		return ObjectInfo{}, err
	}

	body, size, err := seekable(r, opts.Size)
	if err != nil {
		return ObjectInfo{}, err
	}

	info, err := m.client.PutObject(ctx, bucket, key, body, size, minio.PutObjectOptions{
		ContentType:  opts.ContentType,
		UserMetadata: opts.Metadata,
	})
	if err != nil {
		return ObjectInfo{}, fmt.Errorf("storage: minio put %s/%s: %w", bucket, key, err)
	}

	return ObjectInfo{
		Bucket:      bucket,
		Key:         key,
		Size:        info.Size,
		ETag:        info.ETag,
		ContentType: opts.ContentType,
		UpdatedAt:   info.LastModified,
	}, nil
}

// bucket creates name once per process. A bucket created concurrently by
// another instance counts as ready.
func (m *MinIOAdapter) bucket(ctx context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ready[name] {
		return nil
	}

	err := m.client.MakeBucket(ctx, name, minio.MakeBucketOptions{Region: m.region})
	if err != nil {
		exists, existsErr := m.client.BucketExists(ctx, name)
		if existsErr != nil || !exists {
			return fmt.Errorf("storage: minio make bucket %s: %w", name, err)
		}
	}

	m.ready[name] = true
	return nil
}

func (m *MinIOAdapter) Close() error {
	return nil
}
