package scene

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// Mesh is an engine-side triangle mesh. Normals and UVs are either empty or
// parallel to Vertices.
type Mesh struct {
	Vertices  []mgl32.Vec3
	Normals   []mgl32.Vec3
	UVs       []mgl32.Vec2
	Triangles []int32
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Triangles) / 3
}

// Validate checks the buffer invariants the renderer relies on.
func (m *Mesh) Validate() error {
	n := len(m.Vertices)
	if len(m.Normals) != 0 && len(m.Normals) != n {
		return fmt.Errorf("scene: mesh has %d normals for %d vertices", len(m.Normals), n)
	}
	if len(m.UVs) != 0 && len(m.UVs) != n {
		return fmt.Errorf("scene: mesh has %d uvs for %d vertices", len(m.UVs), n)
	}
	if len(m.Triangles)%3 != 0 {
		return fmt.Errorf("scene: triangle index count %d is not a multiple of 3", len(m.Triangles))
	}
	for i, idx := range m.Triangles {
		if idx < 0 || int(idx) >= n {
			return fmt.Errorf("scene: triangle index %d at %d out of range [0,%d)", idx, i, n)
		}
	}
	return nil
}

// Bounds returns the local-space bounding box of the vertices.
func (m *Mesh) Bounds() Box {
	b := EmptyBox()
	for _, v := range m.Vertices {
		b = b.Extend(v)
	}
	return b
}
