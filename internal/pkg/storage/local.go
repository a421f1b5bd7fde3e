package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// LocalAdapter implements Storage on the local filesystem. The bucket is a
// directory, created on demand, and the key is a file name inside it.
type LocalAdapter struct{}

// NewLocal constructs a local filesystem adapter.
func NewLocal() *LocalAdapter {
	return &LocalAdapter{}
}

// PutObject writes r to bucket/key atomically with owner-only permissions.
func (l *LocalAdapter) PutObject(ctx context.Context, bucket, key string, r io.Reader, opts PutOptions) (ObjectInfo, error) {
	if err := ctx.Err(); err != nil {
		return ObjectInfo{}, err
	}

	if err := checkKey(key); err != nil {
		return ObjectInfo{}, err
	}

	if err := os.MkdirAll(bucket, 0o750); err != nil {
		return ObjectInfo{}, fmt.Errorf("storage: create dir: %w", err)
	}

	tmp, err := os.CreateTemp(bucket, ".put-*")
	if err != nil {
		return ObjectInfo{}, fmt.Errorf("storage: create temp: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	n, err := io.Copy(tmp, io.LimitReader(r, MaxObjectSize+1))
	if err != nil {
		_ = tmp.Close()
		return ObjectInfo{}, fmt.Errorf("storage: write: %w", err)
	}
	if n > MaxObjectSize {
		_ = tmp.Close()
		return ObjectInfo{}, ErrObjectTooLarge
	}
	if err := tmp.Close(); err != nil {
		return ObjectInfo{}, fmt.Errorf("storage: close: %w", err)
	}

	dst := filepath.Join(bucket, key)
	if err := os.Rename(tmp.Name(), dst); err != nil {
		return ObjectInfo{}, fmt.Errorf("storage: rename: %w", err)
	}

	stat, err := os.Stat(dst)
	if err != nil {
		return ObjectInfo{}, fmt.Errorf("storage: stat: %w", err)
	}

	return ObjectInfo{
		Bucket:      bucket,
		Key:         key,
		Size:        n,
		ContentType: opts.ContentType,
		UpdatedAt:   stat.ModTime(),
	}, nil
}

// Close implements io.Closer.
func (l *LocalAdapter) Close() error {
	return nil
}
