// Package storage writes objects to a local directory or a remote object
// store (MinIO, S3, GCS) behind one Storage interface. The OTP file channel
// is its only writer, so objects are small text files.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"
)

// MaxObjectSize bounds what PutObject accepts from a stream of unknown length.
const MaxObjectSize = 1 << 20

var (
	// ErrInvalidKey indicates an object key that is empty or escapes its bucket.
	ErrInvalidKey = errors.New("storage: invalid object key")
	// ErrObjectTooLarge is returned for bodies over MaxObjectSize.
	ErrObjectTooLarge = errors.New("storage: object too large")
)

// Storage defines object storage operations.
type Storage interface {
	io.Closer

	// PutObject stores r under bucket/key, replacing any object already there.
	PutObject(ctx context.Context, bucket, key string, r io.Reader, opts PutOptions) (ObjectInfo, error)
}

// PutOptions configures upload behavior.
type PutOptions struct {
	// Size is the content length; zero or negative when unknown.
	Size        int64
	ContentType string
	Metadata    map[string]string
}

// ObjectInfo describes a stored object.
type ObjectInfo struct {
	// Bucket is a directory for the local driver.
	Bucket      string
	Key         string
	Size        int64
	ETag        string
	ContentType string
	UpdatedAt   time.Time
}

// checkKey accepts flat names only: no separators, no dot files.
func checkKey(key string) error {
	if key == "" || strings.HasPrefix(key, ".") || strings.ContainsAny(key, `/\`) || path.Base(key) != key {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return nil
}

// seekable returns r with its length. Remote stores need both to sign and
// size a single part upload, so a stream of unknown length is buffered.
func seekable(r io.Reader, size int64) (io.ReadSeeker, int64, error) {
	if rs, ok := r.(io.ReadSeeker); ok && size > 0 {
		return rs, size, nil
	}

	buf, err := io.ReadAll(io.LimitReader(r, MaxObjectSize+1))
	if err != nil {
		return nil, 0, fmt.Errorf("storage: read body: %w", err)
	}
	if len(buf) > MaxObjectSize {
		return nil, 0, ErrObjectTooLarge
	}
	return bytes.NewReader(buf), int64(len(buf)), nil
}
