package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	// DefaultMountRoot is where the provisioned filesystem is mounted
	// inside the serving environment.
	DefaultMountRoot = "/mnt/models"

	checksumSuffix = ".sha256"
	partialSuffix  = ".partial"
)

// Paths manages the local model cache mount for dryerd.
type Paths struct {
	mountRoot string
}

// NewPaths creates a new Paths instance. The mount root comes from
// DRYERD_HOME when set, otherwise the platform mount path is used.
func NewPaths() (*Paths, error) {
	root := os.Getenv("DRYERD_HOME")
	if root == "" {
		root = DefaultMountRoot
	}
	return NewPathsAt(root)
}

// NewPathsAt creates a Paths rooted at an explicit directory.
func NewPathsAt(root string) (*Paths, error) {
	if root == "" {
		return nil, fmt.Errorf("mount root must not be empty")
	}
	return &Paths{mountRoot: filepath.Clean(root)}, nil
}

// Initialize creates the mount root directory if missing.
func (p *Paths) Initialize() error {
	if err := os.MkdirAll(p.mountRoot, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", p.mountRoot, err)
	}
	return nil
}

// MountRoot returns the cache mount root.
func (p *Paths) MountRoot() string {
	return p.mountRoot
}

// ModelPath returns the cache path for a model identifier.
func (p *Paths) ModelPath(identifier string) string {
	return filepath.Join(p.mountRoot, filepath.FromSlash(identifier))
}

// ChecksumPath returns the path of the sha256 sidecar for a model.
func (p *Paths) ChecksumPath(identifier string) string {
	return p.ModelPath(identifier) + checksumSuffix
}

// PartialPath returns the temporary path used while a model is being
// downloaded. It lives in the same directory as the final path so the
// rename into place is atomic.
func (p *Paths) PartialPath(identifier string) string {
	return p.ModelPath(identifier) + partialSuffix
}

// CachedModels returns the identifiers of all artifacts present in the
// cache, excluding sidecars and in-flight partials.
func (p *Paths) CachedModels() ([]string, error) {
	var names []string
	err := filepath.Walk(p.mountRoot, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // Skip problematic paths
		}
		if info.IsDir() {
			return nil
		}
		if strings.HasSuffix(path, checksumSuffix) || strings.HasSuffix(path, partialSuffix) {
			return nil
		}
		rel, err := filepath.Rel(p.mountRoot, path)
		if err != nil {
			return nil
		}
		names = append(names, filepath.ToSlash(rel))
		return nil
	})
	if os.IsNotExist(err) {
		return nil, nil
	}
	return names, err
}

// CacheUsage returns the total size in bytes of all cached files.
func (p *Paths) CacheUsage() int64 {
	var size int64
	filepath.Walk(p.mountRoot, func(_ string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if !info.IsDir() {
			size += info.Size()
		}
		return nil
	})
	return size
}
