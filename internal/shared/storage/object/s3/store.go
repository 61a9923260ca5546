package s3

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"athlete-backend/internal/shared/storage/object"
)

// Config carries the connection settings for an S3-compatible backend.
// Cloudflare R2 is the production target; MinIO works for local development
// with ForcePathStyle set.
type Config struct {
	EndpointURL     string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	PublicDomain    string
	ForcePathStyle  bool
}

// Store implements object.Store against an S3-compatible backend.
type Store struct {
	client     *s3.Client
	presigner  *s3.PresignClient
	bucket     string
	publicBase string
}

// New constructs the backend client once; callers inject the returned handle
// wherever storage access is needed.
func New(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("r2 bucket is required")
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{
		// R2 ignores the region but the SDK requires one.
		awsconfig.WithRegion("auto"),
		awsconfig.WithRetryMaxAttempts(3),
		awsconfig.WithRetryMode(aws.RetryModeAdaptive),
	}
	if cfg.AccessKeyID != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.EndpointURL != "" {
			o.BaseEndpoint = aws.String(cfg.EndpointURL)
		}
		if cfg.ForcePathStyle {
			o.UsePathStyle = true
		}
	})

	return &Store{
		client:     client,
		presigner:  s3.NewPresignClient(client),
		bucket:     cfg.Bucket,
		publicBase: strings.TrimRight(strings.TrimSpace(cfg.PublicDomain), "/"),
	}, nil
}

// PresignUpload returns a signed PUT URL valid for ttl from issuance.
func (s *Store) PresignUpload(ctx context.Context, key, contentType string, ttl time.Duration) (string, error) {
	input := &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
		Metadata: map[string]string{
			"uploaded-at":           time.Now().UTC().Format(time.RFC3339),
			"original-content-type": contentType,
		},
	}
	out, err := s.presigner.PresignPutObject(ctx, input, func(opts *s3.PresignOptions) {
		opts.Expires = ttl
	})
	if err != nil {
		return "", &object.Error{Op: "presign upload", Key: key, Err: err}
	}
	return out.URL, nil
}

// PresignDownload returns a signed GET URL valid for ttl from issuance.
func (s *Store) PresignDownload(ctx context.Context, key string, ttl time.Duration) (string, error) {
	input := &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}
	out, err := s.presigner.PresignGetObject(ctx, input, func(opts *s3.PresignOptions) {
		opts.Expires = ttl
	})
	if err != nil {
		return "", &object.Error{Op: "presign download", Key: key, Err: err}
	}
	return out.URL, nil
}

// Upload writes the reader contents under key. Backend put semantics are
// atomic per object; there is no partial write to clean up on failure.
func (s *Store) Upload(ctx context.Context, key string, body io.Reader, contentType string, metadata map[string]string) error {
	meta := map[string]string{
		"uploaded-at":           time.Now().UTC().Format(time.RFC3339),
		"original-content-type": contentType,
	}
	for k, v := range metadata {
		meta[k] = v
	}

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
		Metadata:    meta,
	})
	if err != nil {
		return &object.Error{Op: "put", Key: key, Err: err}
	}
	return nil
}

// Delete removes the object. S3 delete is idempotent, so a missing key
// succeeds here too.
func (s *Store) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return &object.Error{Op: "delete", Key: key, Err: err}
	}
	return nil
}

// Exists reports object presence. Fails closed: anything but a clean 404
// surfaces as an error rather than false.
func (s *Store) Exists(ctx context.Context, key string) (bool, error) {
	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, &object.Error{Op: "head", Key: key, Err: err}
	}
	return true, nil
}

// GetMetadata performs a single authoritative HEAD against the backend.
func (s *Store) GetMetadata(ctx context.Context, key string) (object.Metadata, error) {
	out, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFound(err) {
			return object.Metadata{}, fmt.Errorf("head key=%s: %w", key, object.ErrNotFound)
		}
		return object.Metadata{}, &object.Error{Op: "head", Key: key, Err: err}
	}

	meta := object.Metadata{
		ContentType:  aws.ToString(out.ContentType),
		ETag:         aws.ToString(out.ETag),
		UserMetadata: out.Metadata,
	}
	if out.ContentLength != nil {
		meta.SizeBytes = *out.ContentLength
	}
	if out.LastModified != nil {
		meta.LastModified = *out.LastModified
	}
	return meta, nil
}

// Copy performs a server-side copy within the bucket.
func (s *Store) Copy(ctx context.Context, sourceKey, destKey string) error {
	_, err := s.client.CopyObject(ctx, &s3.CopyObjectInput{
		Bucket:     aws.String(s.bucket),
		Key:        aws.String(destKey),
		CopySource: aws.String(s.bucket + "/" + sourceKey),
	})
	if err != nil {
		return &object.Error{Op: "copy", Key: sourceKey, Err: err}
	}
	return nil
}

// PublicURL builds a public URL from the configured base domain. Pure string
// construction; no network call.
func (s *Store) PublicURL(key string) (string, bool) {
	if s.publicBase == "" {
		return "", false
	}
	return s.publicBase + "/" + strings.TrimLeft(key, "/"), true
}

func isNotFound(err error) bool {
	var notFound *s3types.NotFound
	if errors.As(err, &notFound) {
		return true
	}
	var noSuchKey *s3types.NoSuchKey
	if errors.As(err, &noSuchKey) {
		return true
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		code := apiErr.ErrorCode()
		return code == "NotFound" || code == "NoSuchKey"
	}
	return false
}

var _ object.Store = (*Store)(nil)
