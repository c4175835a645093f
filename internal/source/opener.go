package source

import (
	"path/filepath"
	"strings"
)

// Opener parses a scene file. A nil scene with a nil error means the input
// could not be parsed and nothing should be imported.
type Opener interface {
	Open(path string) (*Scene, error)
}

// OpenerFunc adapts a function to Opener.
type OpenerFunc func(path string) (*Scene, error)

func (f OpenerFunc) Open(path string) (*Scene, error) {
	return f(path)
}

// Registry dispatches to an Opener by lowercase file extension (".glb").
type Registry map[string]Opener

// Open returns nothing for extensions without a registered opener.
func (r Registry) Open(path string) (*Scene, error) {
	op, ok := r[strings.ToLower(filepath.Ext(path))]
	if !ok {
		return nil, nil
	}
	return op.Open(path)
}

// Supports reports whether path has a registered extension.
func (r Registry) Supports(path string) bool {
	_, ok := r[strings.ToLower(filepath.Ext(path))]
	return ok
}
