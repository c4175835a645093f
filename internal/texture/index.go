package texture

import (
	"io/fs"
	"path/filepath"
	"strings"
)

// Index maps case-folded, slash-separated paths relative to a scene directory
// to real filesystem paths. It lets textures authored on case-insensitive
// filesystems resolve on case-sensitive ones.
type Index struct {
	entries map[string]string // key(rel) → full path
}

// BuildIndex scans dir and its subdirectories for regular files.
func BuildIndex(dir string) *Index {
	idx := &Index{entries: make(map[string]string)}

	filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return nil
		}
		k := key(rel)
		if _, exists := idx.entries[k]; !exists {
			idx.entries[k] = path
		}
		return nil
	})

	return idx
}

// ResolvePath returns the filesystem path for a relative texture reference, or ("", false).
func (idx *Index) ResolvePath(rel string) (string, bool) {
	path, ok := idx.entries[key(rel)]
	return path, ok
}

// Len returns the number of indexed files.
func (idx *Index) Len() int {
	return len(idx.entries)
}

// key normalizes backslashes, "./" prefixes and case.
func key(rel string) string {
	rel = strings.ReplaceAll(rel, "\\", "/")
	return strings.ToLower(filepath.ToSlash(filepath.Clean(filepath.FromSlash(rel))))
}
