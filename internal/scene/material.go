package scene

import (
	"image"
	"sort"

	"github.com/go-gl/mathgl/mgl32"
)

// ShadingModel selects the surface shader a material renders with.
type ShadingModel int

const (
	// Standard is the opaque physically based surface model.
	Standard ShadingModel = iota
)

func (s ShadingModel) String() string {
	switch s {
	case Standard:
		return "Standard"
	}
	return "Unknown"
}

// KeywordEmission enables the emissive term of the Standard model. Setting
// EmissionColor has no visible effect without it.
const KeywordEmission = "EMISSION"

// Material describes a surface. Components are stored unclamped; clamping is
// the renderer's concern.
type Material struct {
	Name   string
	Shader ShadingModel

	// Color is the base (albedo) color, multiplied with Albedo when set.
	Color mgl32.Vec4

	// EmissionColor is only used when KeywordEmission is enabled.
	EmissionColor mgl32.Vec4

	// Glossiness is the smoothness scalar of the Standard model.
	Glossiness float32

	// Albedo is the base color texture and AlbedoPath the file it came from
	// (empty for embedded textures).
	Albedo     *image.NRGBA
	AlbedoPath string

	keywords map[string]bool
}

// NewMaterial returns a material with the shading model's defaults:
// white base color, no emission, glossiness 0.5.
func NewMaterial(shader ShadingModel) *Material {
	return &Material{
		Shader:     shader,
		Color:      mgl32.Vec4{1, 1, 1, 1},
		Glossiness: 0.5,
		keywords:   make(map[string]bool),
	}
}

func (m *Material) EnableKeyword(k string) {
	if m.keywords == nil {
		m.keywords = make(map[string]bool)
	}
	m.keywords[k] = true
}

func (m *Material) DisableKeyword(k string) {
	delete(m.keywords, k)
}

func (m *Material) IsKeywordEnabled(k string) bool {
	return m.keywords[k]
}

// Keywords returns the enabled keywords in sorted order.
func (m *Material) Keywords() []string {
	ks := make([]string, 0, len(m.keywords))
	for k := range m.keywords {
		ks = append(ks, k)
	}
	sort.Strings(ks)
	return ks
}

// Emissive reports whether the material actually glows.
func (m *Material) Emissive() bool {
	return m.IsKeywordEnabled(KeywordEmission)
}
