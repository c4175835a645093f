package batch

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/HugoSmits86/nativewebp"
	"github.com/anthonynsimon/bild/transform"

	"scene-importer/internal/scene"
)

// ExportTextures writes the albedo texture of every material under root to
// dir as lossless WebP and returns the written paths. Images larger than
// maxSize on either side are scaled down to fit; maxSize <= 0 keeps them as is.
func ExportTextures(root *scene.Object, dir string, maxSize int) ([]string, error) {
	var written []string
	for i, m := range root.Materials() {
		if m.Albedo == nil {
			continue
		}
		if len(written) == 0 {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return written, fmt.Errorf("batch: create %s: %w", dir, err)
			}
		}

		outPath := filepath.Join(dir, textureFileName(i, m))
		if err := writeWebP(outPath, fit(m.Albedo, maxSize)); err != nil {
			return written, err
		}
		written = append(written, outPath)
	}
	return written, nil
}

func writeWebP(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("batch: create %s: %w", path, err)
	}
	defer f.Close()

	if err := nativewebp.Encode(f, img, nil); err != nil {
		return fmt.Errorf("batch: WebP encode %s: %w", path, err)
	}
	return f.Close()
}

// fit scales img down, keeping its aspect ratio, so that neither side
// exceeds maxSize.
func fit(img image.Image, maxSize int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if maxSize <= 0 || (w <= maxSize && h <= maxSize) {
		return img
	}
	if w >= h {
		h = max(1, h*maxSize/w)
		w = maxSize
	} else {
		w = max(1, w*maxSize/h)
		h = maxSize
	}
	return transform.Resize(img, w, h, transform.Lanczos)
}

// textureFileName names the export after the material's position in the
// tree and, when available, its source file or material name.
func textureFileName(i int, m *scene.Material) string {
	name := m.Name
	if m.AlbedoPath != "" {
		base := filepath.Base(m.AlbedoPath)
		name = strings.TrimSuffix(base, filepath.Ext(base))
	}
	name = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '_'
	}, name)
	if name == "" {
		return fmt.Sprintf("%d.webp", i)
	}
	return fmt.Sprintf("%d_%s.webp", i, name)
}
