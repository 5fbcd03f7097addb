package storage

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"io"

	"datalens/ports"

	"github.com/jmoiron/sqlx"
)

const objectsSchema = `
CREATE TABLE IF NOT EXISTS objects (
	bucket     TEXT NOT NULL,
	key        TEXT NOT NULL,
	body       BYTEA NOT NULL,
	size       BIGINT NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	PRIMARY KEY (bucket, key)
)`

// PostgresStore keeps objects as rows in a single objects table
type PostgresStore struct {
	db *sqlx.DB
}

// NewPostgresStore wraps an open database handle
func NewPostgresStore(db *sqlx.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// EnsureSchema creates the objects table if it does not exist
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, objectsSchema); err != nil {
		return fmt.Errorf("failed to create objects table: %w", err)
	}
	return nil
}

// GetObject reads the whole object into memory and returns a reader over it
func (s *PostgresStore) GetObject(ctx context.Context, bucket, key string) (io.ReadCloser, error) {
	var body []byte
	err := s.db.GetContext(ctx, &body, `SELECT body FROM objects WHERE bucket = $1 AND key = $2`, bucket, key)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("%w: %s/%s", ports.ErrObjectNotFound, bucket, key)
		}
		return nil, fmt.Errorf("failed to query object: %w", err)
	}
	return io.NopCloser(bytes.NewReader(body)), nil
}

// PutObject upserts bucket/key
func (s *PostgresStore) PutObject(ctx context.Context, bucket, key string, body io.Reader, size int64) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return fmt.Errorf("failed to read object body: %w", err)
	}

	query := `INSERT INTO objects (bucket, key, body, size, updated_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (bucket, key) DO UPDATE
		SET body = EXCLUDED.body, size = EXCLUDED.size, updated_at = NOW()`

	if _, err := s.db.ExecContext(ctx, query, bucket, key, data, int64(len(data))); err != nil {
		return fmt.Errorf("failed to store object: %w", err)
	}
	return nil
}
