package ports

import (
	"context"
	"errors"
	"io"
)

// ErrObjectNotFound is returned (possibly wrapped) by ObjectStore
// implementations when bucket/key does not exist
var ErrObjectNotFound = errors.New("object not found")

// ObjectStore is the object-storage collaborator the dataset loader and the
// upload handler depend on. Implementations do not retry.
type ObjectStore interface {
	// GetObject opens the object for reading. Callers close the reader.
	GetObject(ctx context.Context, bucket, key string) (io.ReadCloser, error)

	// PutObject stores the object, replacing any object already at bucket/key.
	// size may be -1 when unknown.
	PutObject(ctx context.Context, bucket, key string, body io.Reader, size int64) error
}
