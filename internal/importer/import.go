// Package importer converts a parsed source scene into an engine scene tree:
// materials first, then mesh bindings, then the node hierarchy.
package importer

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/go-gl/mathgl/mgl32"

	"scene-importer/internal/gltfsrc"
	"scene-importer/internal/scene"
	"scene-importer/internal/source"
	"scene-importer/internal/texture"
)

// Importer loads scene files through an Opener and converts them.
// An Importer holds no per-import state and may be shared between goroutines
// as long as its Opener can.
type Importer struct {
	opener source.Opener
	logger *slog.Logger
	opts   Options
}

// New returns an Importer. A nil opener selects DefaultOpener and a nil logger
// slog.Default().
func New(opener source.Opener, logger *slog.Logger, opts Options) *Importer {
	if logger == nil {
		logger = slog.Default()
	}
	if opener == nil {
		opener = DefaultOpener(logger)
	}
	return &Importer{opener: opener, logger: logger, opts: opts}
}

// DefaultOpener reads glTF 2.0 files (.gltf and .glb).
func DefaultOpener(logger *slog.Logger) source.Registry {
	r := gltfsrc.New(logger)
	return source.Registry{
		".gltf": r,
		".glb":  r,
	}
}

// Import loads path with the default glTF opener. See Importer.Import.
func Import(path string, scaleX, scaleY, scaleZ float32) (*scene.Object, error) {
	return New(nil, nil, Options{}).Import(path, scaleX, scaleY, scaleZ)
}

// Result is everything one conversion produced. Materials and Bindings are
// index-aligned with the source scene's materials and meshes.
type Result struct {
	Root      *scene.Object
	Materials []*scene.Material
	Bindings  []Binding
}

// Import loads and converts a scene file. The scale is applied to every mesh
// part, not to containers. A missing or unparseable file yields (nil, nil).
// Texture failures abort with a *TextureError, inconsistent indices with a
// *GeometryError.
func (im *Importer) Import(path string, scaleX, scaleY, scaleZ float32) (*scene.Object, error) {
	if _, err := os.Stat(path); err != nil {
		im.logger.Debug("scene file not found", "path", path, "error", err)
		return nil, nil
	}

	sc, err := im.opener.Open(path)
	if err != nil {
		return nil, fmt.Errorf("importer: open %s: %w", path, err)
	}
	if sc == nil || sc.Root == nil {
		im.logger.Debug("nothing to import", "path", path)
		return nil, nil
	}

	res, err := im.Convert(sc, filepath.Dir(path), mgl32.Vec3{scaleX, scaleY, scaleZ})
	if err != nil {
		return nil, err
	}
	return res.Root, nil
}

// Convert runs the pipeline on an already parsed scene. File textures are
// resolved against baseDir. sc is only read.
func (im *Importer) Convert(sc *source.Scene, baseDir string, scale mgl32.Vec3) (*Result, error) {
	tex := texture.NewCache(baseDir)

	materials, err := mapMaterials(sc.Materials, tex)
	if err != nil {
		return nil, err
	}

	bindings, err := buildBindings(sc.Meshes, materials)
	if err != nil {
		return nil, err
	}

	res := &Result{Materials: materials, Bindings: bindings}
	if sc.Root != nil {
		res.Root, err = composeNode(sc.Root, bindings, scale, im.opts)
		if err != nil {
			return nil, err
		}
	}

	im.logger.Debug("scene converted",
		"materials", len(materials),
		"textures", tex.Len(),
		"meshes", len(bindings),
		"nodes", sc.NodeCount(),
		"handedness", im.opts.Handedness,
	)
	return res, nil
}
