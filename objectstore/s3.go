package objectstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
)

// S3DeleteAPI is the part of *s3.Client used for deletes.
type S3DeleteAPI interface {
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3PresignAPI is the part of *s3.PresignClient used for upload authorizations.
type S3PresignAPI interface {
	PresignPutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// S3Store implements gallery.ObjectStore with aws-sdk-go-v2.
type S3Store struct {
	api       S3DeleteAPI
	presigner S3PresignAPI
	bucket    string
	urls      URLTemplate
}

// NewS3Store builds an S3 client from cfg. Credentials come from the static
// access key pair when set, otherwise from the default AWS chain.
func NewS3Store(ctx context.Context, cfg Config) (*S3Store, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("new s3 store: bucket is required")
	}

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("new s3 store: load aws config: %w", err)
	}

	return NewS3StoreFromConfig(awsCfg, cfg), nil
}

// NewS3StoreFromConfig builds the store from an already loaded aws.Config.
// A custom endpoint switches the client to path-style addressing.
func NewS3StoreFromConfig(awsCfg aws.Config, cfg Config) *S3Store {
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return NewS3StoreFromClients(client, s3.NewPresignClient(client), cfg)
}

// NewS3StoreFromClients wires the store to explicit API implementations.
func NewS3StoreFromClients(api S3DeleteAPI, presigner S3PresignAPI, cfg Config) *S3Store {
	return &S3Store{
		api:       api,
		presigner: presigner,
		bucket:    cfg.Bucket,
		urls:      NewURLTemplate(cfg.PublicURLTemplate, cfg.Bucket, cfg.Region),
	}
}

// PresignPut signs a PUT of contentType to key. The signature covers the
// Content-Type header, so the uploader must send the same value.
func (s *S3Store) PresignPut(ctx context.Context, key, contentType string, expires time.Duration) (string, error) {
	req, err := s.presigner.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(expires))
	if err != nil {
		return "", fmt.Errorf("presign put %s: %w", key, err)
	}
	return req.URL, nil
}

// PublicURL returns the retrieval URL for key.
func (s *S3Store) PublicURL(key string) string {
	return s.urls.URL(key)
}

// Delete removes key from the bucket. S3 reports success for missing keys;
// S3-compatible servers that answer NoSuchKey are treated the same way.
func (s *S3Store) Delete(ctx context.Context, key string) error {
	_, err := s.api.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) && apiErr.ErrorCode() == "NoSuchKey" {
			return nil
		}
		return fmt.Errorf("delete object %s: %w", key, err)
	}
	return nil
}
