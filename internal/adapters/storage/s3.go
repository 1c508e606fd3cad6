package storage

import (
	"context"
	"errors"
	"io"
	"net/url"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.trai.ch/firecast/internal/core/domain"
	"go.trai.ch/zerr"
)

// S3Store reads rasters addressed as s3://bucket/key from an S3-compatible object store.
type S3Store struct {
	client *minio.Client
}

// NewS3Store connects to the configured object store.
func NewS3Store(settings domain.S3Settings) (*S3Store, error) {
	client, err := minio.New(settings.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(settings.AccessKey, settings.SecretKey, ""),
		Secure: settings.UseSSL,
	})
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to create object store client"), "endpoint", settings.Endpoint)
	}
	return &S3Store{client: client}, nil
}

// ParseS3Address splits s3://bucket/key.
func ParseS3Address(address string) (bucket, key string, err error) {
	u, err := url.Parse(address)
	if err != nil || u.Scheme != "s3" || u.Host == "" || strings.Trim(u.Path, "/") == "" {
		return "", "", zerr.With(zerr.Wrap(domain.ErrUnsupportedAddress, "expected s3://bucket/key"), "address", address)
	}
	return u.Host, strings.TrimPrefix(u.Path, "/"), nil
}

// Exists stats the object.
func (s *S3Store) Exists(ctx context.Context, address string) bool {
	bucket, key, err := ParseS3Address(address)
	if err != nil {
		return false
	}
	_, err = s.client.StatObject(ctx, bucket, key, minio.StatObjectOptions{})
	return err == nil
}

// Fetch downloads the object.
func (s *S3Store) Fetch(ctx context.Context, address string) ([]byte, error) {
	bucket, key, err := ParseS3Address(address)
	if err != nil {
		return nil, err
	}

	obj, err := s.client.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, zerr.With(errors.Join(domain.ErrRasterFetch, err), "address", address)
	}
	defer func() { _ = obj.Close() }()

	data, err := io.ReadAll(io.LimitReader(obj, maxRasterBytes))
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, zerr.With(zerr.Wrap(domain.ErrRasterNotFound, "object does not exist"), "address", address)
		}
		return nil, zerr.With(errors.Join(domain.ErrRasterFetch, err), "address", address)
	}
	return data, nil
}
