package importer

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"scene-importer/internal/scene"
	"scene-importer/internal/source"
)

// Binding pairs a converted mesh with its resolved material. Materials are
// shared between bindings that referenced the same source index.
type Binding struct {
	Name     string
	Mesh     *scene.Mesh
	Material *scene.Material
}

// buildBindings converts every source mesh, keeping indices aligned.
func buildBindings(src []source.Mesh, materials []*scene.Material) ([]Binding, error) {
	out := make([]Binding, len(src))
	for i := range src {
		b, err := buildBinding(i, &src[i], materials)
		if err != nil {
			return nil, err
		}
		out[i] = b
	}
	return out, nil
}

func buildBinding(i int, sm *source.Mesh, materials []*scene.Material) (Binding, error) {
	if sm.MaterialIndex < 0 || sm.MaterialIndex >= len(materials) {
		return Binding{}, &GeometryError{
			Mesh:   i,
			Name:   sm.Name,
			Reason: fmt.Sprintf("material index %d out of range [0,%d)", sm.MaterialIndex, len(materials)),
		}
	}
	mesh, err := buildMesh(sm)
	if err != nil {
		return Binding{}, &GeometryError{Mesh: i, Name: sm.Name, Reason: err.Error()}
	}
	return Binding{Name: sm.Name, Mesh: mesh, Material: materials[sm.MaterialIndex]}, nil
}

// buildMesh mirrors positions and normals along X and emits every triangle
// with reversed winding so faces keep pointing outwards after the flip.
// Faces that are not triangles are dropped.
func buildMesh(sm *source.Mesh) (*scene.Mesh, error) {
	m := &scene.Mesh{
		Vertices: make([]mgl32.Vec3, len(sm.Vertices)),
	}
	for i, v := range sm.Vertices {
		m.Vertices[i] = mgl32.Vec3{-v[0], v[1], v[2]}
	}

	if sm.HasNormals() {
		if len(sm.Normals) != len(sm.Vertices) {
			return nil, fmt.Errorf("%d normals for %d vertices", len(sm.Normals), len(sm.Vertices))
		}
		m.Normals = make([]mgl32.Vec3, len(sm.Normals))
		for i, n := range sm.Normals {
			m.Normals[i] = mgl32.Vec3{-n[0], n[1], n[2]}
		}
	}

	if sm.HasUV0() {
		if len(sm.UV0) != len(sm.Vertices) {
			return nil, fmt.Errorf("%d uvs for %d vertices", len(sm.UV0), len(sm.Vertices))
		}
		m.UVs = make([]mgl32.Vec2, len(sm.UV0))
		for i, uv := range sm.UV0 {
			m.UVs[i] = mgl32.Vec2(uv)
		}
	}

	m.Triangles = make([]int32, 0, 3*len(sm.Faces))
	for fi, f := range sm.Faces {
		if len(f) != 3 {
			continue
		}
		for _, idx := range f {
			if idx < 0 || idx >= len(sm.Vertices) {
				return nil, fmt.Errorf("face %d: vertex index %d out of range [0,%d)", fi, idx, len(sm.Vertices))
			}
		}
		m.Triangles = append(m.Triangles, int32(f[2]), int32(f[1]), int32(f[0]))
	}
	return m, nil
}
