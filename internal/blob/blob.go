// Package blob abstracts the remote artifact store that backs the
// local model cache. The production implementation is S3; a
// filesystem-backed store serves development and tests.
package blob

import (
	"context"
	"errors"
	"io"

	"github.com/dryerd/dryerd/internal/config"
)

// ErrNotFound is returned when the requested object does not exist in
// the store.
var ErrNotFound = errors.New("blob: object not found")

// Store fetches objects from a remote artifact store. Fetch returns
// the object body and its size in bytes (-1 when unknown); the caller
// owns the ReadCloser.
type Store interface {
	Fetch(ctx context.Context, bucket, key string) (io.ReadCloser, int64, error)
}

// Open returns the store selected by the configuration: a filesystem
// store when blob.local_dir is set, S3 otherwise.
func Open(ctx context.Context, cfg *config.Config) (Store, error) {
	if cfg.Blob.LocalDir != "" {
		return NewFSStore(cfg.Blob.LocalDir), nil
	}
	return NewS3Store(ctx, cfg.Blob.Region, cfg.Blob.Endpoint)
}
