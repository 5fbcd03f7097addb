package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"datalens/ports"
)

const copyChunkSize = 32 * 1024

// FilesystemStore keeps each bucket as a directory under BaseDir
type FilesystemStore struct {
	baseDir string
}

// NewFilesystemStore creates a filesystem-backed object store
func NewFilesystemStore(baseDir string) *FilesystemStore {
	return &FilesystemStore{baseDir: baseDir}
}

// GetObject opens bucket/key for reading
func (s *FilesystemStore) GetObject(ctx context.Context, bucket, key string) (io.ReadCloser, error) {
	path, err := s.objectPath(bucket, key)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s/%s", ports.ErrObjectNotFound, bucket, key)
		}
		return nil, fmt.Errorf("failed to open object: %w", err)
	}
	return file, nil
}

// PutObject writes bucket/key, overwriting an existing object
func (s *FilesystemStore) PutObject(ctx context.Context, bucket, key string, body io.Reader, size int64) error {
	path, err := s.objectPath(bucket, key)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create bucket directory: %w", err)
	}

	// Staged in a sibling temp file, then renamed over the object
	tmp, err := os.CreateTemp(filepath.Dir(path), ".upload-*")
	if err != nil {
		return fmt.Errorf("failed to create destination file: %w", err)
	}
	defer os.Remove(tmp.Name())

	buf := make([]byte, copyChunkSize)
	if _, err := io.CopyBuffer(tmp, body, buf); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to copy object contents: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to flush object: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to move object into place: %w", err)
	}
	return nil
}

// objectPath rejects keys that would escape the bucket directory
func (s *FilesystemStore) objectPath(bucket, key string) (string, error) {
	if bucket == "" || key == "" {
		return "", fmt.Errorf("bucket and key are required")
	}
	if strings.Contains(bucket, "..") || strings.ContainsAny(bucket, `/\`) {
		return "", fmt.Errorf("invalid bucket name %q", bucket)
	}
	clean := filepath.Clean("/" + key)
	if clean == "/" {
		return "", fmt.Errorf("invalid object key %q", key)
	}
	return filepath.Join(s.baseDir, bucket, clean), nil
}
