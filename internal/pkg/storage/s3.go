package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// defaultS3Region is used for S3 compatible endpoints that ignore the region
// but still need one to sign requests.
const defaultS3Region = "us-east-1"

// S3Options configures S3 client initialization.
type S3Options struct {
	Region   string
	Endpoint string
	// AccessKey, SecretKey and SessionToken replace the default AWS
	// credential chain when a key is given.
	AccessKey    string
	SecretKey    string
	SessionToken string
	UsePathStyle bool
}

// S3Adapter implements Storage using AWS S3.
type S3Adapter struct {
	client *s3.Client
}

func NewS3(ctx context.Context, opts S3Options) (*S3Adapter, error) {
	var load []func(*config.LoadOptions) error

	switch {
	case opts.Region != "":
		load = append(load, config.WithRegion(opts.Region))
	case opts.Endpoint != "":
		load = append(load, config.WithRegion(defaultS3Region))
	}
	if opts.AccessKey != "" {
		load = append(load, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, opts.SessionToken),
		))
	}

	cfg, err := config.LoadDefaultConfig(ctx, load...)
	if err != nil {
		return nil, fmt.Errorf("storage: load aws config: %w", err)
	}

	return &S3Adapter{client: s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.UsePathStyle = opts.UsePathStyle
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
		}
	})}, nil
}

func (s *S3Adapter) PutObject(ctx context.Context, bucket, key string, r io.Reader, opts PutOptions) (ObjectInfo, error) {
	if err := checkKey(key); err != nil {
		return ObjectInfo{}, err
	}

	body, size, err := seekable(r, opts.Size)
	if err != nil {
		return ObjectInfo{}, err
	}

	in := &s3.PutObjectInput{
		Bucket:        aws.String(bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentLength: aws.Int64(size),
		Metadata:      opts.Metadata,
	}
	if opts.ContentType != "" {
		in.ContentType = aws.String(opts.ContentType)
	}

	out, err := s.client.PutObject(ctx, in)
	if err != nil {
		return ObjectInfo{}, fmt.Errorf("storage: s3 put %s/%s: %w", bucket, key, err)
	}

	// S3 does not echo a modification time on put.
	return ObjectInfo{
		Bucket:      bucket,
		Key:         key,
		Size:        size,
		ETag:        aws.ToString(out.ETag),
		ContentType: opts.ContentType,
	}, nil
}

// Close is a no-op; the SDK client holds no long-lived connections of its own.
func (s *S3Adapter) Close() error {
	return nil
}
