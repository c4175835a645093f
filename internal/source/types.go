// Package source holds the detached, importer-neutral scene description that
// the conversion pipeline consumes. Adapters around third-party parsers copy
// their output into these types so nothing parser-owned outlives a load.
package source

// Color is a linear RGBA color with 0..1 components. Values outside that range
// are preserved as-is.
type Color struct {
	R, G, B, A float32
}

// TextureRef references an image either by a path relative to the scene file
// or by its encoded bytes when the scene embeds it.
type TextureRef struct {
	Path string
	Data []byte // encoded image, nil for file references
}

// Embedded reports whether the texture travels inside the scene file.
func (t TextureRef) Embedded() bool {
	return t.Data != nil
}

// Material holds the optional surface properties of one source material.
// A nil field means the property is absent and must not be applied.
type Material struct {
	Name           string
	Diffuse        *Color
	Emissive       *Color
	Reflectivity   *float32
	DiffuseTexture *TextureRef
}

// Face is one polygon of a mesh as a list of vertex indices.
type Face []int

// Mesh is one source mesh. Normals and UV0 are either empty or as long as Vertices.
type Mesh struct {
	Name          string
	Vertices      [][3]float32
	Normals       [][3]float32
	UV0           [][2]float32
	Faces         []Face
	MaterialIndex int
}

func (m *Mesh) HasNormals() bool {
	return len(m.Normals) > 0
}

func (m *Mesh) HasUV0() bool {
	return len(m.UV0) > 0
}

// Node is one element of the scene hierarchy. Transform is local to the parent
// and stored column-major; Meshes indexes Scene.Meshes.
type Node struct {
	Name      string
	Transform [16]float32
	Meshes    []int
	Children  []*Node
}

// IdentityTransform is the column-major 4×4 identity.
var IdentityTransform = [16]float32{
	1, 0, 0, 0,
	0, 1, 0, 0,
	0, 0, 1, 0,
	0, 0, 0, 1,
}

// Scene is a fully parsed source scene.
type Scene struct {
	Materials []Material
	Meshes    []Mesh
	Root      *Node
}

// NodeCount returns the number of nodes reachable from the root.
func (s *Scene) NodeCount() int {
	if s == nil || s.Root == nil {
		return 0
	}
	n := 0
	var walk func(*Node)
	walk = func(nd *Node) {
		n++
		for _, c := range nd.Children {
			walk(c)
		}
	}
	walk(s.Root)
	return n
}
