package importer

import "fmt"

// TextureError reports a material texture that could not be read or decoded.
// It aborts the whole import.
type TextureError struct {
	Material int    // index into the source material list
	Path     string // reference as written in the scene
	Resolved string // filesystem path tried; empty for embedded textures
	Err      error
}

func (e *TextureError) Error() string {
	p := e.Resolved
	if p == "" {
		p = e.Path
	}
	return fmt.Sprintf("importer: load texture %s for material %d: %v", p, e.Material, e.Err)
}

func (e *TextureError) Unwrap() error {
	return e.Err
}

// GeometryError reports inconsistent indices in the source scene: a material,
// vertex or mesh index outside its table.
type GeometryError struct {
	Mesh   int    // source mesh index, -1 when raised for a node
	Name   string // mesh or node name
	Reason string
}

func (e *GeometryError) Error() string {
	if e.Mesh < 0 {
		return fmt.Sprintf("importer: node %q: %s", e.Name, e.Reason)
	}
	return fmt.Sprintf("importer: mesh %d %q: %s", e.Mesh, e.Name, e.Reason)
}
