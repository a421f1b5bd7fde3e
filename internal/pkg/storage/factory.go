package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Driver names accepted by Open. An empty driver means DriverLocal.
const (
	DriverLocal = "local"
	DriverS3    = "s3"
	DriverGCS   = "gcs"
	DriverMinIO = "minio"
)

// ErrUnknownDriver indicates an unsupported storage driver.
var ErrUnknownDriver = errors.New("storage: unknown driver")

// Options selects where code files land. Only the block matching Driver is read.
type Options struct {
	Driver string

	S3    S3Options
	GCS   GCSOptions
	MinIO MinIOOptions
}

// Open builds the Storage named by opts.Driver. The local filesystem needs no
// settings, which keeps the file channel usable out of the box.
func Open(ctx context.Context, opts Options) (Storage, error) {
	switch driver := strings.ToLower(strings.TrimSpace(opts.Driver)); driver {
	case "", DriverLocal:
		return NewLocal(), nil
	case DriverS3:
		return NewS3(ctx, opts.S3)
	case DriverGCS:
		return NewGCS(ctx, opts.GCS)
	case DriverMinIO:
		return NewMinIO(opts.MinIO)
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownDriver, driver)
	}
}
