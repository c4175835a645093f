package importer

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scene-importer/internal/scene"
	"scene-importer/internal/source"
	"scene-importer/internal/texture"
)

func pngBytes(t *testing.T, c color.NRGBA) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func writeTexture(t *testing.T, dir, rel string, c color.NRGBA) {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, pngBytes(t, c), 0o644))
}

func ptr[T any](v T) *T {
	return &v
}

func TestMapMaterialsDefaults(t *testing.T) {
	mats, err := mapMaterials([]source.Material{{}, {}}, texture.NewCache(t.TempDir()))
	require.NoError(t, err)
	require.Len(t, mats, 2)
	for _, m := range mats {
		assert.Equal(t, scene.Standard, m.Shader)
		assert.Equal(t, mgl32.Vec4{1, 1, 1, 1}, m.Color)
		assert.False(t, m.Emissive())
		assert.Equal(t, float32(0.5), m.Glossiness)
		assert.Nil(t, m.Albedo)
	}
	assert.NotSame(t, mats[0], mats[1])
}

func TestMapMaterialProperties(t *testing.T) {
	src := []source.Material{
		{Name: "hot", Diffuse: &source.Color{R: 1.5, G: -0.25, B: 0, A: 1}},
		{Emissive: &source.Color{R: 0, G: 1, B: 0, A: 1}},
		{Reflectivity: ptr(float32(0.8))},
	}
	mats, err := mapMaterials(src, texture.NewCache(t.TempDir()))
	require.NoError(t, err)
	require.Len(t, mats, 3)

	// unclamped pass-through
	assert.Equal(t, "hot", mats[0].Name)
	assert.Equal(t, mgl32.Vec4{1.5, -0.25, 0, 1}, mats[0].Color)
	assert.False(t, mats[0].Emissive())

	assert.Equal(t, mgl32.Vec4{0, 1, 0, 1}, mats[1].EmissionColor)
	assert.True(t, mats[1].Emissive(), "emission must be enabled whenever an emissive color is present")
	assert.Equal(t, mgl32.Vec4{1, 1, 1, 1}, mats[1].Color)

	assert.Equal(t, float32(0.8), mats[2].Glossiness)
	assert.False(t, mats[2].Emissive())
}

func TestMapMaterialTextureRelativeToSceneDir(t *testing.T) {
	dir := t.TempDir()
	writeTexture(t, dir, "tex/wood.png", color.NRGBA{200, 100, 50, 255})

	src := []source.Material{
		{DiffuseTexture: &source.TextureRef{Path: "tex/wood.png"}},
		{DiffuseTexture: &source.TextureRef{Path: `tex\wood.png`}},
	}
	cache := texture.NewCache(dir)
	mats, err := mapMaterials(src, cache)
	require.NoError(t, err)

	require.NotNil(t, mats[0].Albedo)
	assert.Equal(t, color.NRGBA{200, 100, 50, 255}, mats[0].Albedo.NRGBAAt(0, 0))
	assert.Equal(t, filepath.Join(dir, "tex", "wood.png"), mats[0].AlbedoPath)
	assert.Same(t, mats[0].Albedo, mats[1].Albedo)
	assert.Equal(t, 1, cache.Len())
}

func TestMapMaterialEmbeddedTexture(t *testing.T) {
	src := []source.Material{{DiffuseTexture: &source.TextureRef{
		Path: "image0",
		Data: pngBytes(t, color.NRGBA{0, 0, 255, 255}),
	}}}
	mats, err := mapMaterials(src, texture.NewCache(t.TempDir()))
	require.NoError(t, err)
	require.NotNil(t, mats[0].Albedo)
	assert.Equal(t, "", mats[0].AlbedoPath)
	assert.Equal(t, color.NRGBA{0, 0, 255, 255}, mats[0].Albedo.NRGBAAt(1, 1))
}

func TestMapMaterialMissingTextureFails(t *testing.T) {
	dir := t.TempDir()
	src := []source.Material{
		{},
		{DiffuseTexture: &source.TextureRef{Path: "textures/missing.png"}},
	}
	mats, err := mapMaterials(src, texture.NewCache(dir))
	require.Error(t, err)
	assert.Nil(t, mats)

	var te *TextureError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, 1, te.Material)
	assert.Equal(t, "textures/missing.png", te.Path)
	assert.Equal(t, filepath.Join(dir, "textures", "missing.png"), te.Resolved)
	assert.ErrorIs(t, err, fs.ErrNotExist)
	assert.Contains(t, err.Error(), filepath.Join("textures", "missing.png"))
}

func TestMapMaterialUndecodableTextureFails(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.png"), []byte("garbage"), 0o644))

	_, err := mapMaterials([]source.Material{{DiffuseTexture: &source.TextureRef{Path: "bad.png"}}}, texture.NewCache(dir))
	var te *TextureError
	require.ErrorAs(t, err, &te)
	assert.ErrorIs(t, err, texture.ErrNotImage)
}
