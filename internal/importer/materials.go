package importer

import (
	"image"

	"github.com/go-gl/mathgl/mgl32"

	"scene-importer/internal/scene"
	"scene-importer/internal/source"
	"scene-importer/internal/texture"
)

// mapMaterials converts every source material, keeping indices aligned.
func mapMaterials(src []source.Material, tex texture.Resolver) ([]*scene.Material, error) {
	out := make([]*scene.Material, len(src))
	for i := range src {
		m, err := mapMaterial(i, &src[i], tex)
		if err != nil {
			return nil, err
		}
		out[i] = m
	}
	return out, nil
}

func mapMaterial(i int, sm *source.Material, tex texture.Resolver) (*scene.Material, error) {
	m := scene.NewMaterial(scene.Standard)
	m.Name = sm.Name

	if sm.Diffuse != nil {
		m.Color = vec4(*sm.Diffuse)
	}
	if sm.Emissive != nil {
		m.EmissionColor = vec4(*sm.Emissive)
		m.EnableKeyword(scene.KeywordEmission)
	}
	if sm.Reflectivity != nil {
		m.Glossiness = *sm.Reflectivity
	}

	if ref := sm.DiffuseTexture; ref != nil {
		img, path, err := loadTexture(ref, tex)
		if err != nil {
			return nil, &TextureError{Material: i, Path: ref.Path, Resolved: path, Err: err}
		}
		m.Albedo = img
		m.AlbedoPath = path
	}
	return m, nil
}

// loadTexture decodes embedded textures in place and resolves file
// references through tex.
func loadTexture(ref *source.TextureRef, tex texture.Resolver) (*image.NRGBA, string, error) {
	if ref.Embedded() {
		img, err := texture.Decode(ref.Path, ref.Data)
		return img, "", err
	}
	return tex.Resolve(ref.Path)
}

func vec4(c source.Color) mgl32.Vec4 {
	return mgl32.Vec4{c.R, c.G, c.B, c.A}
}
