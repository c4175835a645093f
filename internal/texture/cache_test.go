package texture

import (
	"image/color"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheResolvesRelativeToBaseDir(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "textures", "wood.png"), 2, 2, color.NRGBA{10, 20, 30, 255})

	c := NewCache(dir)
	img, path, err := c.Resolve("textures/wood.png")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "textures", "wood.png"), path)
	assert.Equal(t, color.NRGBA{10, 20, 30, 255}, img.NRGBAAt(0, 0))

	again, _, err := c.Resolve(`textures\wood.png`)
	require.NoError(t, err)
	assert.Same(t, img, again)
	assert.Equal(t, 1, c.Len())
}

func TestCacheCaseInsensitiveFallback(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "Textures", "Wood.PNG"), 1, 1, color.NRGBA{1, 2, 3, 255})

	c := NewCache(dir)
	img, path, err := c.Resolve(`textures\wood.png`)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "Textures", "Wood.PNG"), path)
	assert.NotNil(t, img)
}

func TestCacheRemembersFailures(t *testing.T) {
	dir := t.TempDir()
	c := NewCache(dir)

	_, path, err := c.Resolve("missing.png")
	require.Error(t, err)
	assert.ErrorIs(t, err, fs.ErrNotExist)
	assert.Equal(t, filepath.Join(dir, "missing.png"), path)

	// Creating the file afterwards does not change the cached outcome.
	writePNG(t, path, 1, 1, color.NRGBA{})
	_, _, err = c.Resolve("missing.png")
	assert.Error(t, err)
}

func TestCacheIgnoresWorkingDirectory(t *testing.T) {
	sceneDir := t.TempDir()
	cwd := t.TempDir()
	writePNG(t, filepath.Join(cwd, "only_here.png"), 1, 1, color.NRGBA{})

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(cwd))
	t.Cleanup(func() { os.Chdir(wd) })

	_, _, err = NewCache(sceneDir).Resolve("only_here.png")
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestIndex(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "A", "B.png"), 1, 1, color.NRGBA{})

	idx := BuildIndex(dir)
	assert.Equal(t, 1, idx.Len())
	p, ok := idx.ResolvePath(`./a\b.PNG`)
	assert.True(t, ok)
	assert.Equal(t, filepath.Join(dir, "A", "B.png"), p)
	_, ok = idx.ResolvePath("c.png")
	assert.False(t, ok)
}
