// Package storage abstracts the object store so services and tests can swap
// the MinIO client for a fake.
package storage

import (
	"context"
	"time"
)

type ObjectInfo struct {
	Key          string    `json:"s3_key"`
	Size         int64     `json:"size"`
	LastModified time.Time `json:"last_modified"`
}

// ObjectStore is the capability the upload pipeline consumes: put bytes under
// a key and get back a stable public URL. Delete/List/PresignedGet serve the
// admin endpoints.
type ObjectStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
	List(ctx context.Context, prefix string) ([]ObjectInfo, error)
	PresignedGet(ctx context.Context, key string, expiry time.Duration) (string, error)
}
