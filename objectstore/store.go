package objectstore

import (
	"context"
	"fmt"

	"github.com/sagarc03/gallery"
)

// Config holds object store settings.
type Config struct {
	// Driver selects the client: "s3" or "minio".
	Driver string `mapstructure:"driver" validate:"required,oneof=s3 minio"`
	Bucket string `mapstructure:"bucket" validate:"required"`
	Region string `mapstructure:"region" validate:"required"`
	// Endpoint overrides the AWS endpoint. Required for minio.
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	UseSSL    bool   `mapstructure:"use_ssl"`
	// PublicURLTemplate renders retrieval URLs; see URLTemplate.
	PublicURLTemplate string `mapstructure:"public_url_template"`
}

// Store is the object store plus the bucket root URL shown by the UI.
type Store interface {
	gallery.ObjectStore
	BucketURL() string
}

// New creates the object store selected by cfg.Driver.
func New(ctx context.Context, cfg Config) (Store, error) {
	switch cfg.Driver {
	case "s3", "":
		s, err := NewS3Store(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return s, nil
	case "minio":
		s, err := NewMinioStore(cfg)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unsupported storage driver: %s", cfg.Driver)
	}
}

// BucketURL returns the bucket root URL.
func (s *S3Store) BucketURL() string {
	return s.urls.BucketURL()
}

// BucketURL returns the bucket root URL.
func (s *MinioStore) BucketURL() string {
	return s.urls.BucketURL()
}
