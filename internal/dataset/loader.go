package dataset

import (
	"context"
	"time"

	"datalens/domain/table"
	"datalens/internal"
	"datalens/internal/errors"
	"datalens/ports"
)

// Loader fetches a dataset object from storage and parses it into a table.
// One attempt per call, no retries, no caching.
type Loader struct {
	store  ports.ObjectStore
	logger *internal.Logger
}

// NewLoader creates a loader over the given object store
func NewLoader(store ports.ObjectStore, logger *internal.Logger) *Loader {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Loader{store: store, logger: logger.With("Loader")}
}

// Load reads bucket/key and parses it. Storage failures come back as
// STORAGE_ERROR, undecodable bytes as PARSE_ERROR.
func (l *Loader) Load(ctx context.Context, bucket, key string) (*table.Table, error) {
	start := time.Now()

	body, err := l.store.GetObject(ctx, bucket, key)
	if err != nil {
		l.logger.Error("failed to fetch %s/%s: %v", bucket, key, err)
		return nil, errors.StorageError(bucket, key, err)
	}
	defer body.Close()

	tbl, err := Parse(key, body)
	if err != nil {
		l.logger.Error("failed to load %s/%s: %v", bucket, key, err)
		return nil, err
	}

	l.logger.Info("loaded %s/%s (%d columns, %d rows) in %.2fms",
		bucket, key, len(tbl.Columns()), tbl.RowCount(), float64(time.Since(start).Nanoseconds())/1e6)
	return tbl, nil
}
