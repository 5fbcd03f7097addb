package storage

import (
	"context"
	"io"

	"datalens/internal/config"
	"datalens/internal/errors"
	"datalens/ports"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// Open builds the object store selected by cfg.Backend. The returned closer
// releases backend resources (the database handle for postgres) and is
// never nil.
func Open(ctx context.Context, cfg config.StorageConfig) (ports.ObjectStore, io.Closer, error) {
	switch cfg.Backend {
	case config.BackendFilesystem:
		return NewFilesystemStore(cfg.BaseDir), nopCloser{}, nil

	case config.BackendPostgres:
		db, err := sqlx.ConnectContext(ctx, "postgres", cfg.DatabaseURL)
		if err != nil {
			return nil, nil, errors.Wrap(err, "failed to connect to database")
		}
		store := NewPostgresStore(db)
		if err := store.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, nil, errors.Wrap(err, "database migration failed")
		}
		return store, db, nil

	case config.BackendS3:
		store, err := NewS3Store(S3Config{
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			Region:    cfg.S3Region,
			UseSSL:    cfg.S3UseSSL,
		})
		if err != nil {
			return nil, nil, err
		}
		return store, nopCloser{}, nil
	}
	return nil, nil, errors.ConfigInvalid("unknown storage backend: " + cfg.Backend)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
