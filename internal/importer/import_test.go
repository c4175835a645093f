package importer

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"fmt"
	"image/color"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scene-importer/internal/source"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// stubImporter returns an Importer whose opener ignores the file content and
// hands back sc. The scene file itself must exist.
func stubImporter(t *testing.T, sc *source.Scene, opts Options) (*Importer, string) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "scene.stub")
	require.NoError(t, os.WriteFile(path, []byte("stub"), 0o644))
	op := source.OpenerFunc(func(string) (*source.Scene, error) { return sc, nil })
	return New(op, quietLogger(), opts), path
}

func quadScene() *source.Scene {
	return &source.Scene{
		Materials: []source.Material{{Diffuse: &source.Color{R: 1, G: 0, B: 0, A: 1}}},
		Meshes: []source.Mesh{{
			Name:     "quad",
			Vertices: [][3]float32{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}},
			Faces:    []source.Face{{0, 1, 2}, {0, 2, 3}, {0, 1, 2, 3, 0}},
		}},
		Root: &source.Node{Name: "root", Transform: source.IdentityTransform, Meshes: []int{0}},
	}
}

func TestImportQuadScenario(t *testing.T) {
	im, path := stubImporter(t, quadScene(), Options{})

	root, err := im.Import(path, 1, 1, 1)
	require.NoError(t, err)
	require.NotNil(t, root)

	assert.Equal(t, "root", root.Name)
	assert.Equal(t, mgl32.Vec3{}, root.Transform.Position)
	assertVec3InDelta(t, mgl32.Vec3{}, root.Transform.Euler())
	assert.Empty(t, root.Containers())

	parts := root.Parts()
	require.Len(t, parts, 1)
	quad := parts[0]
	assert.Equal(t, "quad", quad.Name)
	assert.Equal(t, []int32{2, 1, 0, 3, 2, 0}, quad.Mesh.Triangles)
	assert.Equal(t, mgl32.Vec3{-1, 0, 0}, quad.Mesh.Vertices[1])
	assert.Equal(t, mgl32.Vec4{1, 0, 0, 1}, quad.Material.Color)
	assert.False(t, quad.Material.Emissive())
	assert.Equal(t, mgl32.Vec3{1, 1, 1}, quad.Transform.Scale)
}

func TestConvertIndexParity(t *testing.T) {
	sc := &source.Scene{
		Materials: []source.Material{{Name: "a"}, {Name: "b"}, {Name: "c"}},
		Meshes: []source.Mesh{
			{Name: "m0", MaterialIndex: 2},
			{Name: "m1", MaterialIndex: 0},
		},
	}
	res, err := New(source.Registry{}, quietLogger(), Options{}).Convert(sc, t.TempDir(), mgl32.Vec3{1, 1, 1})
	require.NoError(t, err)
	require.Len(t, res.Materials, 3)
	require.Len(t, res.Bindings, 2)
	for i, m := range res.Materials {
		assert.Equal(t, sc.Materials[i].Name, m.Name)
	}
	assert.Same(t, res.Materials[2], res.Bindings[0].Material)
	assert.Same(t, res.Materials[0], res.Bindings[1].Material)
	assert.Nil(t, res.Root)
}

func TestImportTextureFailure(t *testing.T) {
	sc := quadScene()
	sc.Materials[0].DiffuseTexture = &source.TextureRef{Path: "textures/missing.png"}
	im, path := stubImporter(t, sc, Options{})

	root, err := im.Import(path, 1, 1, 1)
	assert.Nil(t, root)
	var te *TextureError
	require.ErrorAs(t, err, &te)
	assert.Contains(t, err.Error(), "missing.png")
	assert.Equal(t, filepath.Join(filepath.Dir(path), "textures", "missing.png"), te.Resolved)
}

func TestImportResolvesTexturesNextToScene(t *testing.T) {
	sc := quadScene()
	sc.Materials[0].DiffuseTexture = &source.TextureRef{Path: "wood.png"}
	sc.Materials = append(sc.Materials, source.Material{
		DiffuseTexture: &source.TextureRef{Path: "wood.png"},
		Emissive:       &source.Color{R: 1, G: 1, B: 0, A: 1},
	})
	sc.Meshes = append(sc.Meshes, source.Mesh{Name: "glow", MaterialIndex: 1})
	sc.Root.Meshes = []int{0, 1}

	im, path := stubImporter(t, sc, Options{})
	writeTexture(t, filepath.Dir(path), "wood.png", color.NRGBA{10, 20, 30, 255})

	// a texture with the same name in the working directory must not be used
	cwd := t.TempDir()
	writeTexture(t, cwd, "wood.png", color.NRGBA{255, 255, 255, 255})
	t.Chdir(cwd)

	root, err := im.Import(path, 1, 1, 1)
	require.NoError(t, err)
	parts := root.Parts()
	require.Len(t, parts, 2)
	require.NotNil(t, parts[0].Material.Albedo)
	assert.Equal(t, color.NRGBA{10, 20, 30, 255}, parts[0].Material.Albedo.NRGBAAt(0, 0))
	assert.Same(t, parts[0].Material.Albedo, parts[1].Material.Albedo)
	assert.True(t, parts[1].Material.Emissive())
	assert.Len(t, root.Materials(), 2)
}

func TestImportGeometryError(t *testing.T) {
	sc := quadScene()
	sc.Meshes[0].Faces = append(sc.Meshes[0].Faces, source.Face{0, 1, 9})
	im, path := stubImporter(t, sc, Options{})

	root, err := im.Import(path, 1, 1, 1)
	assert.Nil(t, root)
	var ge *GeometryError
	require.ErrorAs(t, err, &ge)
	assert.Equal(t, 0, ge.Mesh)
	assert.Equal(t, "quad", ge.Name)
}

func TestImportNothing(t *testing.T) {
	im := New(nil, quietLogger(), Options{})

	root, err := im.Import(filepath.Join(t.TempDir(), "absent.gltf"), 1, 1, 1)
	assert.NoError(t, err)
	assert.Nil(t, root)

	junk := filepath.Join(t.TempDir(), "junk.gltf")
	require.NoError(t, os.WriteFile(junk, []byte("{not json"), 0o644))
	root, err = im.Import(junk, 1, 1, 1)
	assert.NoError(t, err)
	assert.Nil(t, root)

	other := filepath.Join(t.TempDir(), "model.xyz")
	require.NoError(t, os.WriteFile(other, []byte("v 0 0 0"), 0o644))
	root, err = im.Import(other, 1, 1, 1)
	assert.NoError(t, err)
	assert.Nil(t, root)

	im, path := stubImporter(t, &source.Scene{}, Options{})
	root, err = im.Import(path, 1, 1, 1)
	assert.NoError(t, err)
	assert.Nil(t, root)
}

func TestImportDanglingAccessorIsNothing(t *testing.T) {
	im := New(nil, quietLogger(), Options{})
	for name, prim := range map[string]string{
		"position": `{"attributes": {"POSITION": 7}}`,
		"indices":  `{"attributes": {}, "indices": 4}`,
	} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "dangling.gltf")
			doc := `{"asset": {"version": "2.0"}, "meshes": [{"primitives": [` + prim + `]}], "nodes": [{"mesh": 0}]}`
			require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

			root, err := im.Import(path, 1, 1, 1)
			assert.NoError(t, err)
			assert.Nil(t, root)
		})
	}
}

func TestImportOpenerError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scene.stub")
	require.NoError(t, os.WriteFile(path, nil, 0o644))
	boom := errors.New("boom")
	im := New(source.OpenerFunc(func(string) (*source.Scene, error) { return nil, boom }), quietLogger(), Options{})

	_, err := im.Import(path, 1, 1, 1)
	assert.ErrorIs(t, err, boom)
}

const triangleGLTF = `{
  "asset": {"version": "2.0"},
  "scene": 0,
  "scenes": [{"nodes": [0]}],
  "nodes": [{"name": "tri", "mesh": 0, "translation": [0, 0, 5]}],
  "meshes": [{"name": "tri", "primitives": [{"attributes": {"POSITION": 0}}]}],
  "accessors": [{"bufferView": 0, "componentType": 5126, "count": 3, "type": "VEC3",
                 "min": [0, 0, 0], "max": [1, 1, 0]}],
  "bufferViews": [{"buffer": 0, "byteLength": 36}],
  "buffers": [{"byteLength": 36, "uri": "data:application/octet-stream;base64,%s"}]
}`

func TestImportGLTF(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, []float32{0, 0, 0, 1, 0, 0, 0, 1, 0}))
	path := filepath.Join(t.TempDir(), "tri.gltf")
	doc := fmt.Sprintf(triangleGLTF, base64.StdEncoding.EncodeToString(buf.Bytes()))
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	root, err := Import(path, 2, 2, 2)
	require.NoError(t, err)
	require.NotNil(t, root)

	assert.Equal(t, "tri", root.Name)
	assert.Equal(t, mgl32.Vec3{0, 0, 5}, root.Transform.Position)
	parts := root.Parts()
	require.Len(t, parts, 1)
	assert.Equal(t, []int32{2, 1, 0}, parts[0].Mesh.Triangles)
	assert.Equal(t, mgl32.Vec3{-1, 0, 0}, parts[0].Mesh.Vertices[1])
	assert.Equal(t, mgl32.Vec3{2, 2, 2}, parts[0].Transform.Scale)
	assert.NotNil(t, parts[0].Material)
}
