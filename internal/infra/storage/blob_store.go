// Package storage implements product image persistence on top of gocloud.dev blob buckets.
package storage

import (
	"context"
	"io"
	"log/slog"

	"storefront/config"
	"storefront/internal/domain/service"

	"github.com/pkg/errors"
	"go.uber.org/fx"
	"gocloud.dev/blob"

	// Register the file and in-memory bucket drivers; cloud drivers are
	// selected the same way through the bucket URL scheme.
	_ "gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/memblob"
)

// blobImageStore implements the ImageStore interface using a gocloud.dev bucket.
// The bucket URL scheme decides the backend (file://, mem://, gs://, s3://).
type blobImageStore struct {
	bucket *blob.Bucket
	logger *slog.Logger
}

// Params holds dependencies for the image store, injected by Fx.
type Params struct {
	fx.In

	Lc     fx.Lifecycle
	Ctx    context.Context
	Config *config.Config
	Logger *slog.Logger
}

// NewBlobImageStore opens the configured bucket and registers its shutdown hook.
func NewBlobImageStore(params Params) (service.ImageStore, error) {
	if params.Config.Blob == nil || params.Config.Blob.BucketURL == "" {
		return nil, errors.New("blob bucket URL must be provided")
	}

	bucket, err := blob.OpenBucket(params.Ctx, params.Config.Blob.BucketURL)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open bucket %s", params.Config.Blob.BucketURL)
	}

	params.Lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			params.Logger.Info("Closing blob bucket")

			return bucket.Close()
		},
	})

	return &blobImageStore{
		bucket: bucket,
		logger: params.Logger,
	}, nil
}

// NewBlobImageStoreWithBucket wraps an already opened bucket, primarily for tests.
func NewBlobImageStoreWithBucket(bucket *blob.Bucket, logger *slog.Logger) service.ImageStore {
	return &blobImageStore{
		bucket: bucket,
		logger: logger,
	}
}

// Put stores an image under the given key, overwriting any previous object.
func (s *blobImageStore) Put(ctx context.Context, key, contentType string, body io.Reader) error {
	w, err := s.bucket.NewWriter(ctx, key, &blob.WriterOptions{ContentType: contentType})
	if err != nil {
		return errors.Wrapf(err, "failed to open writer for %s", key)
	}

	if _, err := io.Copy(w, body); err != nil {
		_ = w.Close()

		return errors.Wrapf(err, "failed to write image %s", key)
	}

	if err := w.Close(); err != nil {
		return errors.Wrapf(err, "failed to finalize image %s", key)
	}

	s.logger.Debug("Stored product image", slog.String("key", key))

	return nil
}

// Get opens the image stored under the given key. The caller closes the reader.
func (s *blobImageStore) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	r, err := s.bucket.NewReader(ctx, key, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open image %s", key)
	}

	return r, nil
}

// Delete removes the image stored under the given key.
func (s *blobImageStore) Delete(ctx context.Context, key string) error {
	if err := s.bucket.Delete(ctx, key); err != nil {
		return errors.Wrapf(err, "failed to delete image %s", key)
	}

	return nil
}
