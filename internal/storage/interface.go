package storage

import (
	"context"
	"io"
)

// Storage is the backing store for cover images. The local implementation
// keeps files on disk; a cloud backend can replace it behind this interface.
type Storage interface {
	// Save writes the file under key, creating parent directories as needed.
	Save(ctx context.Context, key string, r io.Reader) error

	// Open returns the file for reading. The caller closes it.
	Open(ctx context.Context, key string) (io.ReadCloser, error)

	Delete(ctx context.Context, key string) error

	// URL returns the public URL the file is served from.
	URL(key string) string
}
