package service

import (
	"context"
	"io"
)

// ImageStore defines the interface for product image blob storage.
// Images are stored as uploaded; resizing is a client concern.
type ImageStore interface {
	// Put stores an image under the given key, overwriting any previous object.
	Put(ctx context.Context, key string, contentType string, body io.Reader) error

	// Get opens the image stored under the given key. The caller closes the reader.
	Get(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes the image stored under the given key.
	Delete(ctx context.Context, key string) error
}
