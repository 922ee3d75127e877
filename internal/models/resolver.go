package models

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/dryerd/dryerd/internal/blob"
	"github.com/dryerd/dryerd/internal/storage"
)

// Resolver loads model artifacts cache-aside: the local mount is
// probed first and repaired from the remote store on a miss. The
// cache has no expiry; once an artifact is cached it is trusted until
// evicted. Concurrent resolves for the same identifier are not
// coordinated; a race costs a redundant fetch, never a torn file,
// because population goes through an atomic rename.
type Resolver struct {
	paths  *storage.Paths
	store  blob.Store
	bucket string
	prefix string

	// Progress, when set, receives a writer-producing callback for
	// each remote fetch so callers can render download progress.
	Progress func(identifier string, size int64) io.Writer
}

// NewResolver creates a resolver over a local mount and a remote store.
func NewResolver(paths *storage.Paths, store blob.Store, bucket, prefix string) *Resolver {
	return &Resolver{
		paths:  paths,
		store:  store,
		bucket: bucket,
		prefix: prefix,
	}
}

// Resolve returns the deserialized model for an identifier. With
// force set the local probe is skipped and the artifact is refetched.
// At most one remote fetch happens per call.
func (r *Resolver) Resolve(ctx context.Context, identifier string, force bool) (Predictor, error) {
	if err := validateIdentifier(identifier); err != nil {
		return nil, err
	}

	if !force {
		model, hit, err := r.loadLocal(identifier)
		if err != nil {
			return nil, err
		}
		if hit {
			return model, nil
		}
	}

	if err := r.fetchRemote(ctx, identifier); err != nil {
		if errors.Is(err, blob.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", identifier, ErrRemoteNotFound)
		}
		return nil, err
	}

	return r.decodeFile(identifier)
}

// Evict removes a cached artifact and its checksum sidecar.
func (r *Resolver) Evict(identifier string) error {
	if err := validateIdentifier(identifier); err != nil {
		return err
	}
	if err := os.Remove(r.paths.ModelPath(identifier)); err != nil && !os.IsNotExist(err) {
		return err
	}
	if err := os.Remove(r.paths.ChecksumPath(identifier)); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// loadLocal probes the cache. It returns (model, true, nil) on a
// verified hit and (nil, false, nil) on a clean miss. A checksum
// mismatch evicts the entry and reports a miss so the caller refetches
// once. Any other failure, including a decode failure on a
// checksum-clean file, propagates.
func (r *Resolver) loadLocal(identifier string) (Predictor, bool, error) {
	modelPath := r.paths.ModelPath(identifier)

	if _, err := os.Stat(modelPath); err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to probe cache for %s: %w", identifier, err)
	}

	ok, err := r.verifyChecksum(identifier)
	if err != nil {
		return nil, false, err
	}
	if !ok {
		log.Printf("cached artifact %s failed checksum, evicting", identifier)
		if err := r.Evict(identifier); err != nil {
			return nil, false, fmt.Errorf("failed to evict corrupt %s: %w", identifier, err)
		}
		return nil, false, nil
	}

	model, err := r.decodeFile(identifier)
	if err != nil {
		return nil, false, err
	}
	return model, true, nil
}

// verifyChecksum compares the artifact against its sha256 sidecar.
// A missing sidecar passes: entries written before checksumming was
// introduced stay usable.
func (r *Resolver) verifyChecksum(identifier string) (bool, error) {
	want, err := os.ReadFile(r.paths.ChecksumPath(identifier))
	if err != nil {
		if os.IsNotExist(err) {
			return true, nil
		}
		return false, err
	}

	f, err := os.Open(r.paths.ModelPath(identifier))
	if err != nil {
		return false, err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return false, err
	}
	got := hex.EncodeToString(h.Sum(nil))

	return got == strings.TrimSpace(string(want)), nil
}

// fetchRemote downloads the artifact to a partial file, writes the
// checksum sidecar, and renames into place. A failed download leaves
// no cache entry behind.
func (r *Resolver) fetchRemote(ctx context.Context, identifier string) error {
	body, size, err := r.store.Fetch(ctx, r.bucket, r.key(identifier))
	if err != nil {
		return err
	}
	defer body.Close()

	modelPath := r.paths.ModelPath(identifier)
	if err := os.MkdirAll(filepath.Dir(modelPath), 0755); err != nil {
		return fmt.Errorf("failed to create cache directory for %s: %w", identifier, err)
	}

	partial := r.paths.PartialPath(identifier)
	f, err := os.Create(partial)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", partial, err)
	}

	h := sha256.New()
	w := io.MultiWriter(f, h)
	if r.Progress != nil {
		if pw := r.Progress(identifier, size); pw != nil {
			w = io.MultiWriter(f, h, pw)
		}
	}

	if _, err := io.Copy(w, body); err != nil {
		f.Close()
		os.Remove(partial)
		return fmt.Errorf("failed to download %s: %w", identifier, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(partial)
		return fmt.Errorf("failed to write %s: %w", identifier, err)
	}

	sum := hex.EncodeToString(h.Sum(nil))
	if err := os.WriteFile(r.paths.ChecksumPath(identifier), []byte(sum+"\n"), 0644); err != nil {
		os.Remove(partial)
		return fmt.Errorf("failed to write checksum for %s: %w", identifier, err)
	}

	if err := os.Rename(partial, modelPath); err != nil {
		os.Remove(partial)
		os.Remove(r.paths.ChecksumPath(identifier))
		return fmt.Errorf("failed to install %s: %w", identifier, err)
	}

	log.Printf("fetched %s from remote store into cache", identifier)
	return nil
}

// decodeFile deserializes a cached artifact. Failures are corrupt
// artifacts and are not retried.
func (r *Resolver) decodeFile(identifier string) (Predictor, error) {
	f, err := os.Open(r.paths.ModelPath(identifier))
	if err != nil {
		return nil, fmt.Errorf("failed to open cached %s: %w", identifier, err)
	}
	defer f.Close()

	model, err := Decode(f)
	if err != nil {
		return nil, &CorruptArtifactError{Identifier: identifier, Err: err}
	}
	return model, nil
}

// key maps an identifier to its object key in the remote store.
func (r *Resolver) key(identifier string) string {
	if r.prefix == "" {
		return identifier
	}
	return path.Join(r.prefix, identifier)
}

// validateIdentifier rejects identifiers that would escape the mount.
func validateIdentifier(identifier string) error {
	if identifier == "" {
		return fmt.Errorf("model identifier must not be empty")
	}
	clean := path.Clean("/" + identifier)
	if strings.Contains(identifier, "..") || clean == "/" {
		return fmt.Errorf("invalid model identifier %q", identifier)
	}
	return nil
}
