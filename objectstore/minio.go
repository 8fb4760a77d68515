package objectstore

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioStore implements gallery.ObjectStore for S3-compatible servers.
type MinioStore struct {
	client *minio.Client
	bucket string
	urls   URLTemplate
}

// NewMinioStore creates a minio client for cfg.Endpoint. The endpoint may be
// a bare host:port or a URL; a URL scheme overrides UseSSL.
//
// The region is always set explicitly so presigning never triggers a bucket
// location lookup.
func NewMinioStore(cfg Config) (*MinioStore, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("new minio store: bucket is required")
	}
	if cfg.Endpoint == "" {
		return nil, errors.New("new minio store: endpoint is required")
	}

	host, secure, err := splitEndpoint(cfg.Endpoint, cfg.UseSSL)
	if err != nil {
		return nil, fmt.Errorf("new minio store: %w", err)
	}

	client, err := minio.New(host, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: secure,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("new minio store: %w", err)
	}

	template := cfg.PublicURLTemplate
	if template == "" {
		scheme := "http"
		if secure {
			scheme = "https"
		}
		template = scheme + "://" + host + "/{bucket}/{key}"
	}

	return &MinioStore{
		client: client,
		bucket: cfg.Bucket,
		urls:   NewURLTemplate(template, cfg.Bucket, cfg.Region),
	}, nil
}

func splitEndpoint(endpoint string, useSSL bool) (string, bool, error) {
	if !strings.Contains(endpoint, "://") {
		return endpoint, useSSL, nil
	}

	u, err := url.Parse(endpoint)
	if err != nil {
		return "", false, fmt.Errorf("parse endpoint: %w", err)
	}
	if u.Host == "" {
		return "", false, fmt.Errorf("parse endpoint: missing host in %q", endpoint)
	}
	return u.Host, u.Scheme == "https", nil
}

// PresignPut signs a PUT of contentType to key. Content-Type is part of the
// signed headers.
func (s *MinioStore) PresignPut(ctx context.Context, key, contentType string, expires time.Duration) (string, error) {
	headers := http.Header{}
	headers.Set("Content-Type", contentType)

	u, err := s.client.PresignHeader(ctx, http.MethodPut, s.bucket, key, expires, url.Values{}, headers)
	if err != nil {
		return "", fmt.Errorf("presign put %s: %w", key, err)
	}
	return u.String(), nil
}

// PublicURL returns the retrieval URL for key.
func (s *MinioStore) PublicURL(key string) string {
	return s.urls.URL(key)
}

// Delete removes key from the bucket.
func (s *MinioStore) Delete(ctx context.Context, key string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("remove object %s: %w", key, err)
	}
	return nil
}
