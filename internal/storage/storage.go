// Package storage persists generated PDF files. The local driver is
// the default; the s3 driver targets any S3-compatible service.
package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/content365/content365/internal/config"
)

// Storage defines the interface for generated-file operations.
type Storage interface {
	// Save stores a file under the given name.
	Save(ctx context.Context, name string, file io.Reader) error

	// Open returns the file contents for download or attachment.
	// Returns an error satisfying errors.Is(err, fs.ErrNotExist) when
	// the file does not exist.
	Open(ctx context.Context, name string) (io.ReadCloser, error)

	// Delete removes a stored file.
	Delete(ctx context.Context, name string) error
}

// New creates the storage backend selected by STORAGE_DRIVER.
func New(cfg *config.Config) (Storage, error) {
	switch cfg.StorageDriver {
	case "", "local":
		return NewLocalStorage(cfg.OutputDir)
	case "s3":
		return NewS3Storage(S3Config{
			Region:    cfg.S3Region,
			Bucket:    cfg.S3Bucket,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			Endpoint:  cfg.S3Endpoint,
		})
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}
