// Package blobstore keeps client state as small objects in a gocloud bucket.
package blobstore

import (
	"context"
	"log/slog"
	"strings"

	"dinein/config"
	"dinein/internal/domain/lifecycle"
	"dinein/internal/domain/repository"
	"dinein/internal/errors"

	"go.uber.org/fx"
	"gocloud.dev/blob"
	_ "gocloud.dev/blob/fileblob" // file:// buckets
	_ "gocloud.dev/blob/memblob"  // mem:// buckets
	"gocloud.dev/gcerrors"
)

const keyPrefix = "state/"

// Params defines the required parameters
type Params struct {
	fx.In
	fx.Lifecycle

	Config *config.Config
	Logger *slog.Logger
}

// Store is a StateStore backed by a gocloud bucket.
type Store struct {
	bucket *blob.Bucket
	logger *slog.Logger
}

// New opens the bucket named by storage.url and closes it on stop.
func New(params Params) (repository.StateStore, error) {
	ctx, cancel := context.WithTimeout(context.Background(), lifecycle.DefaultTimeout)
	defer cancel()

	store, err := Open(ctx, params.Config.Storage.URL, params.Logger)
	if err != nil {
		return nil, err
	}

	params.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return store.Close()
		},
	})

	return store, nil
}

// Open opens a bucket by gocloud URL, e.g. mem:// or file:///var/lib/dinein.
func Open(ctx context.Context, bucketURL string, logger *slog.Logger) (*Store, error) {
	bucket, err := blob.OpenBucket(ctx, bucketURL)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open state bucket %q", bucketURL)
	}

	logger.Info("State store opened", slog.String("driver", "blob"), slog.String("url", bucketURL))

	return &Store{bucket: bucket, logger: logger}, nil
}

func objectKey(key string) string {
	return keyPrefix + strings.TrimSpace(key)
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	data, err := s.bucket.ReadAll(ctx, objectKey(key))
	if err != nil {
		if gcerrors.Code(err) == gcerrors.NotFound {
			return "", repository.ErrStateNotFound
		}

		return "", errors.Wrapf(err, "failed to read state %q", key)
	}

	return string(data), nil
}

func (s *Store) Set(ctx context.Context, key, value string) error {
	opts := &blob.WriterOptions{ContentType: "text/plain; charset=utf-8"}
	if err := s.bucket.WriteAll(ctx, objectKey(key), []byte(value), opts); err != nil {
		return errors.Wrapf(err, "failed to write state %q", key)
	}

	return nil
}

func (s *Store) Delete(ctx context.Context, keys ...string) error {
	var errs []error
	for _, key := range keys {
		err := s.bucket.Delete(ctx, objectKey(key))
		if err != nil && gcerrors.Code(err) != gcerrors.NotFound {
			errs = append(errs, errors.Wrapf(err, "failed to delete state %q", key))
		}
	}

	return errors.Join(errs...)
}

// Close releases the bucket.
func (s *Store) Close() error {
	return errors.Wrap(s.bucket.Close(), "failed to close state bucket")
}
