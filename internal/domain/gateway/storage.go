package gateway

import (
	"context"
	"errors"
)

// ErrObjectNotFound is returned by ObjectStorage.Download for a missing object
var ErrObjectNotFound = errors.New("object not found")

// ObjectStorage is the bucket-addressed file store of the hosted backend
type ObjectStorage interface {
	Upload(ctx context.Context, bucket, path string, content []byte, contentType string) error
	Download(ctx context.Context, bucket, path string) ([]byte, error)
}
