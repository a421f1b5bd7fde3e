package storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	gcs "cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// GCSOptions configures GCS client initialization.
type GCSOptions struct {
	// CredentialsFile is a service account JSON file. Application default
	// credentials are used when empty.
	CredentialsFile string
	// Endpoint points at an emulator; requests are then unauthenticated.
	Endpoint string
}

// GCSAdapter implements Storage using Google Cloud Storage.
type GCSAdapter struct {
	client *gcs.Client
}

func NewGCS(ctx context.Context, opts GCSOptions) (*GCSAdapter, error) {
	var clientOpts []option.ClientOption
	if opts.CredentialsFile != "" {
		clientOpts = append(clientOpts, option.WithCredentialsFile(opts.CredentialsFile))
	}
	if opts.Endpoint != "" {
		clientOpts = append(clientOpts, option.WithEndpoint(opts.Endpoint), option.WithoutAuthentication())
	}

	client, err := gcs.NewClient(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("storage: gcs client: %w", err)
	}

	return &GCSAdapter{client: client}, nil
}

// PutObject streams r in one request; the object only becomes visible once
// the writer closes cleanly.
func (g *GCSAdapter) PutObject(ctx context.Context, bucket, key string, r io.Reader, opts PutOptions) (ObjectInfo, error) {
	if err := checkKey(key); err != nil {
		return ObjectInfo{}, err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	w := g.client.Bucket(bucket).Object(key).NewWriter(ctx)
	w.ContentType = opts.ContentType
	w.Metadata = opts.Metadata
	// small objects fit in a single chunk, which skips the resumable session
	w.ChunkSize = 0

	n, err := io.Copy(w, io.LimitReader(r, MaxObjectSize+1))
	if err == nil && n > MaxObjectSize {
		err = ErrObjectTooLarge
	}
	if err != nil {
		// cancelling before Close aborts the upload
		cancel()
		return ObjectInfo{}, errors.Join(err, w.Close())
	}
	if err := w.Close(); err != nil {
		return ObjectInfo{}, fmt.Errorf("storage: gcs put %s/%s: %w", bucket, key, err)
	}

	attrs := w.Attrs()
	return ObjectInfo{
		Bucket:      bucket,
		Key:         key,
		Size:        attrs.Size,
		ETag:        attrs.Etag,
		ContentType: attrs.ContentType,
		UpdatedAt:   attrs.Updated,
	}, nil
}

func (g *GCSAdapter) Close() error {
	return g.client.Close()
}
