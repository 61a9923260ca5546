package object

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"
)

// ErrNotFound signals that the requested object does not exist in the backend.
var ErrNotFound = errors.New("object not found")

// Error wraps a backend failure with the operation that produced it. The
// underlying SDK error stays inside the chain; callers branch on ErrNotFound
// or treat everything else as a storage failure.
type Error struct {
	Op  string
	Key string
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("storage %s key=%s: %v", e.Op, e.Key, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Metadata is the authoritative object state as reported by the backend.
// It is fetched fresh per request and never cached.
type Metadata struct {
	SizeBytes    int64
	ContentType  string
	LastModified time.Time
	ETag         string
	UserMetadata map[string]string
}

// Store defines the contract for the object-storage access layer.
type Store interface {
	// PresignUpload returns a signed PUT URL valid for ttl. No object is
	// created by issuing the URL.
	PresignUpload(ctx context.Context, key, contentType string, ttl time.Duration) (string, error)

	// PresignDownload returns a signed GET URL valid for ttl. Existence of
	// the target object is not verified.
	PresignDownload(ctx context.Context, key string, ttl time.Duration) (string, error)

	// Upload writes the reader contents to the backend under key.
	Upload(ctx context.Context, key string, body io.Reader, contentType string, metadata map[string]string) error

	// Delete removes the object. Deleting a nonexistent key is not an error.
	Delete(ctx context.Context, key string) error

	// Exists reports whether the object is present. A 404-class backend
	// response maps to false; any other failure is an error.
	Exists(ctx context.Context, key string) (bool, error)

	// GetMetadata performs a single authoritative metadata read.
	GetMetadata(ctx context.Context, key string) (Metadata, error)

	// Copy performs a server-side copy from sourceKey to destKey.
	Copy(ctx context.Context, sourceKey, destKey string) error

	// PublicURL builds the public URL for key when a public base domain is
	// configured. The second return is false when none is configured.
	PublicURL(key string) (string, bool)
}
