package texture

import (
	"errors"
	"image"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Resolver resolves a texture reference relative to a scene to a decoded image.
type Resolver interface {
	// Resolve returns the image, the filesystem path it was loaded from and
	// any read or decode error.
	Resolve(ref string) (*image.NRGBA, string, error)
}

// Cache resolves references against one scene directory and remembers every
// outcome, failures included. It is scoped to a single import and is not
// safe for concurrent use.
type Cache struct {
	baseDir string
	items   map[string]*cacheEntry
	index   *Index
}

type cacheEntry struct {
	img *image.NRGBA
	err error
}

// NewCache creates a texture cache rooted at the scene directory.
func NewCache(baseDir string) *Cache {
	return &Cache{
		baseDir: baseDir,
		items:   make(map[string]*cacheEntry),
	}
}

// Path maps a reference to a filesystem path. Backslash separators are
// accepted; absolute references are used unchanged.
func (c *Cache) Path(ref string) string {
	ref = strings.ReplaceAll(ref, "\\", "/")
	p := filepath.FromSlash(ref)
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.baseDir, p)
}

// Resolve loads and caches a texture by reference. When the exact path is
// missing, a case-insensitive match below the scene directory is tried.
func (c *Cache) Resolve(ref string) (*image.NRGBA, string, error) {
	path := c.Path(ref)
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		if alt, ok := c.lookup(ref); ok {
			path = alt
		}
	}

	if entry, exists := c.items[path]; exists {
		return entry.img, path, entry.err
	}

	img, err := Load(path)
	c.items[path] = &cacheEntry{img: img, err: err}
	return img, path, err
}

// Len returns the number of distinct paths attempted.
func (c *Cache) Len() int {
	return len(c.items)
}

func (c *Cache) lookup(ref string) (string, bool) {
	if filepath.IsAbs(filepath.FromSlash(strings.ReplaceAll(ref, "\\", "/"))) {
		return "", false
	}
	if c.index == nil {
		c.index = BuildIndex(c.baseDir)
	}
	return c.index.ResolvePath(ref)
}
