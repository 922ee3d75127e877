package blob

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// FSStore is a filesystem-backed Store. Buckets map to directories
// under the root, keys to files within them.
type FSStore struct {
	root string
}

// NewFSStore creates a store rooted at the given directory.
func NewFSStore(root string) *FSStore {
	return &FSStore{root: root}
}

// Fetch opens the file at <root>/<bucket>/<key>.
func (s *FSStore) Fetch(ctx context.Context, bucket, key string) (io.ReadCloser, int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}

	path := filepath.Join(s.root, bucket, filepath.FromSlash(key))
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, 0, fmt.Errorf("%s/%s: %w", bucket, key, ErrNotFound)
		}
		return nil, 0, fmt.Errorf("failed to open %s: %w", path, err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, 0, err
	}

	return f, info.Size(), nil
}
