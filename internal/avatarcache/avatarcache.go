// Package avatarcache stores fetched player avatar images on disk, keyed by
// player identity. Fetching is the frontend's job; this cache only keeps
// what the frontend hands it so repeat listings do not refetch.
package avatarcache

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"reposave/internal/fileutil"
)

// ErrNotCached reports an identity with no stored avatar.
var ErrNotCached = errors.New("avatar not cached")

// Cache is a directory of <identity>.png files.
type Cache struct {
	dir string
}

// New opens (creating if needed) an avatar cache rooted at dir.
func New(dir string) (*Cache, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("avatar cache directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create avatar cache %q: %w", dir, err)
	}
	return &Cache{dir: dir}, nil
}

// Path returns where the avatar for identity is (or would be) stored.
func (c *Cache) Path(identity string) string {
	return filepath.Join(c.dir, identity+".png")
}

// Load returns the cached image bytes for identity.
func (c *Cache) Load(identity string) ([]byte, error) {
	data, err := os.ReadFile(c.Path(identity))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", identity, ErrNotCached)
		}
		return nil, fmt.Errorf("read avatar for %s: %w", identity, err)
	}
	return data, nil
}

// Store writes the image bytes for identity atomically, replacing any
// previous version.
func (c *Cache) Store(identity string, image []byte) error {
	if err := fileutil.WriteFileAtomic(c.Path(identity), image, 0o644); err != nil {
		return fmt.Errorf("store avatar for %s: %w", identity, err)
	}
	return nil
}

// Evict removes the cached avatar for identity; evicting an uncached
// identity is a no-op.
func (c *Cache) Evict(identity string) error {
	if err := os.Remove(c.Path(identity)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("evict avatar for %s: %w", identity, err)
	}
	return nil
}
