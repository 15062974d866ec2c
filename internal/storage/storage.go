// Package storage holds the blob stores that keep uploaded images and hand
// back stable URLs for them.
package storage

import (
	"context"
	"errors"
	"fmt"
	"path"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

var ErrBlobNotFound = errors.New("blob not found")

// BlobStore uploads opaque image bytes and returns a URL clients can fetch.
type BlobStore interface {
	Upload(ctx context.Context, data []byte, contentType string) (string, error)
	Delete(ctx context.Context, url string) error
}

type BackendType string

const (
	S3     BackendType = "s3"
	Memory BackendType = "memory"
)

// NewObjectKey returns a date-partitioned key such as
// images/2024/3/1/<uuid>.png.
func NewObjectKey(now time.Time, ext string) string {
	return path.Join("images", fmt.Sprintf("%d/%d/%d", now.Year(), now.Month(), now.Day()), uuid.NewString()+ext)
}

func extensionFor(contentType string) string {
	if m := mimetype.Lookup(contentType); m != nil {
		return m.Extension()
	}
	return ""
}

// NewBlobStore creates the blob store for backend. cfg is only read for S3.
func NewBlobStore(ctx context.Context, backend BackendType, cfg S3Config) (BlobStore, error) {
	switch backend {
	case S3:
		store, err := NewS3Store(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return store, nil
	case Memory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unsupported blob backend: %s", backend)
	}
}
