// Package gltfsrc reads glTF 2.0 files into detached source scenes.
package gltfsrc

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"scene-importer/internal/mathutil"
	"scene-importer/internal/source"
)

// Reader implements source.Opener for .gltf and .glb files.
type Reader struct {
	logger *slog.Logger
}

func New(logger *slog.Logger) *Reader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reader{logger: logger}
}

// Open parses path. Files that fail to parse are logged and reported as
// nothing to import, including documents the decoder chokes on.
func (r *Reader) Open(path string) (sc *source.Scene, err error) {
	defer func() {
		if p := recover(); p != nil {
			r.logger.Warn("gltf: decoder panic", "path", path, "panic", p)
			sc, err = nil, nil
		}
	}()

	doc, err := gltf.Open(path)
	if err != nil {
		r.logger.Warn("gltf: parse failed", "path", path, "error", err)
		return nil, nil
	}
	sc, err = Convert(doc, strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
	if err != nil {
		r.logger.Warn("gltf: unusable document", "path", path, "error", err)
		return nil, nil
	}
	return sc, nil
}

// Convert copies a decoded document into a source scene. Each mesh primitive
// becomes its own source mesh carrying the glTF mesh name. name labels the
// synthetic root used when the scene has several top-level nodes.
func Convert(doc *gltf.Document, name string) (*source.Scene, error) {
	c := &converter{doc: doc, defaultMaterial: -1}

	for i := range doc.Materials {
		m, err := c.material(i)
		if err != nil {
			return nil, err
		}
		c.sc.Materials = append(c.sc.Materials, m)
	}

	c.meshPrims = make([][]int, len(doc.Meshes))
	for i, mesh := range doc.Meshes {
		for pi, p := range mesh.Primitives {
			sm, err := c.primitive(mesh.Name, p)
			if err != nil {
				return nil, fmt.Errorf("gltf: mesh %d primitive %d: %w", i, pi, err)
			}
			c.meshPrims[i] = append(c.meshPrims[i], len(c.sc.Meshes))
			c.sc.Meshes = append(c.sc.Meshes, sm)
		}
	}

	root, err := c.roots(name)
	if err != nil {
		return nil, err
	}
	c.sc.Root = root
	return &c.sc, nil
}

type converter struct {
	doc             *gltf.Document
	sc              source.Scene
	meshPrims       [][]int // glTF mesh → source mesh indices
	defaultMaterial int
}

func (c *converter) material(i int) (source.Material, error) {
	gm := c.doc.Materials[i]
	m := source.Material{Name: gm.Name}

	if pbr := gm.PBRMetallicRoughness; pbr != nil {
		if f := pbr.BaseColorFactor; f != nil {
			m.Diffuse = &source.Color{R: float32(f[0]), G: float32(f[1]), B: float32(f[2]), A: float32(f[3])}
		}
		if ti := pbr.BaseColorTexture; ti != nil {
			ref, err := c.textureRef(int(ti.Index))
			if err != nil {
				return m, fmt.Errorf("gltf: material %d: %w", i, err)
			}
			m.DiffuseTexture = ref
		}
	}

	e := gm.EmissiveFactor
	if e[0] != 0 || e[1] != 0 || e[2] != 0 {
		k := float32(emissiveStrength(gm.Extensions))
		m.Emissive = &source.Color{R: k * float32(e[0]), G: k * float32(e[1]), B: k * float32(e[2]), A: 1}
	}
	return m, nil
}

// emissiveStrengthExt scales emissiveFactor beyond 1 for HDR emission.
const emissiveStrengthExt = "KHR_materials_emissive_strength"

// emissiveStrength returns the material's emissive multiplier, 1 when the
// extension is absent or unreadable. The decoder keeps unregistered
// extensions as raw JSON.
func emissiveStrength(exts gltf.Extensions) float64 {
	var v struct {
		EmissiveStrength *float64 `json:"emissiveStrength"`
	}
	switch raw := exts[emissiveStrengthExt].(type) {
	case json.RawMessage:
		if json.Unmarshal(raw, &v) != nil {
			return 1
		}
	case map[string]any:
		if f, ok := raw["emissiveStrength"].(float64); ok {
			v.EmissiveStrength = &f
		}
	}
	if v.EmissiveStrength == nil || *v.EmissiveStrength < 0 {
		return 1
	}
	return *v.EmissiveStrength
}

// textureRef returns nil for textures without an image source.
func (c *converter) textureRef(ti int) (*source.TextureRef, error) {
	if ti < 0 || ti >= len(c.doc.Textures) {
		return nil, fmt.Errorf("texture index %d out of range", ti)
	}
	tex := c.doc.Textures[ti]
	if tex.Source == nil {
		return nil, nil
	}
	ii := int(*tex.Source)
	if ii < 0 || ii >= len(c.doc.Images) {
		return nil, fmt.Errorf("image index %d out of range", ii)
	}
	img := c.doc.Images[ii]

	label := img.Name
	if label == "" {
		label = fmt.Sprintf("image%d", ii)
	}

	switch {
	case img.BufferView != nil:
		bv := int(*img.BufferView)
		if err := c.checkBufferView(bv); err != nil {
			return nil, fmt.Errorf("image %d: %w", ii, err)
		}
		data, err := modeler.ReadBufferView(c.doc, c.doc.BufferViews[bv])
		if err != nil {
			return nil, fmt.Errorf("image %d: %w", ii, err)
		}
		return &source.TextureRef{Path: label, Data: copyBytes(data)}, nil
	case img.IsEmbeddedResource():
		data, err := img.MarshalData()
		if err != nil {
			return nil, fmt.Errorf("image %d: %w", ii, err)
		}
		return &source.TextureRef{Path: label, Data: data}, nil
	case img.URI != "":
		p, err := url.PathUnescape(img.URI)
		if err != nil {
			p = img.URI
		}
		return &source.TextureRef{Path: p}, nil
	}
	return nil, nil
}

func (c *converter) primitive(name string, p *gltf.Primitive) (source.Mesh, error) {
	sm := source.Mesh{Name: name}

	if p.Material != nil {
		sm.MaterialIndex = int(*p.Material)
	} else {
		sm.MaterialIndex = c.fallbackMaterial()
	}

	if ai, ok := p.Attributes[gltf.POSITION]; ok {
		acr, err := c.accessor(int(ai))
		if err != nil {
			return sm, fmt.Errorf("positions: %w", err)
		}
		pos, err := modeler.ReadPosition(c.doc, acr, nil)
		if err != nil {
			return sm, fmt.Errorf("positions: %w", err)
		}
		sm.Vertices = pos
	}
	if ai, ok := p.Attributes[gltf.NORMAL]; ok {
		acr, err := c.accessor(int(ai))
		if err != nil {
			return sm, fmt.Errorf("normals: %w", err)
		}
		nrm, err := modeler.ReadNormal(c.doc, acr, nil)
		if err != nil {
			return sm, fmt.Errorf("normals: %w", err)
		}
		sm.Normals = nrm
	}
	if ai, ok := p.Attributes[gltf.TEXCOORD_0]; ok {
		acr, err := c.accessor(int(ai))
		if err != nil {
			return sm, fmt.Errorf("texcoords: %w", err)
		}
		uv, err := modeler.ReadTextureCoord(c.doc, acr, nil)
		if err != nil {
			return sm, fmt.Errorf("texcoords: %w", err)
		}
		sm.UV0 = uv
	}

	var indices []int
	if p.Indices != nil {
		acr, err := c.accessor(int(*p.Indices))
		if err != nil {
			return sm, fmt.Errorf("indices: %w", err)
		}
		raw, err := modeler.ReadIndices(c.doc, acr, nil)
		if err != nil {
			return sm, fmt.Errorf("indices: %w", err)
		}
		indices = make([]int, len(raw))
		for i, v := range raw {
			indices[i] = int(v)
		}
	} else {
		indices = make([]int, len(sm.Vertices))
		for i := range indices {
			indices[i] = i
		}
	}
	sm.Faces = faces(p.Mode, indices)
	return sm, nil
}

// accessor looks up an accessor referenced by a primitive.
func (c *converter) accessor(i int) (*gltf.Accessor, error) {
	if i < 0 || i >= len(c.doc.Accessors) {
		return nil, fmt.Errorf("accessor index %d out of range [0,%d)", i, len(c.doc.Accessors))
	}
	acr := c.doc.Accessors[i]
	if acr.BufferView != nil {
		if err := c.checkBufferView(int(*acr.BufferView)); err != nil {
			return nil, fmt.Errorf("accessor %d: %w", i, err)
		}
	}
	return acr, nil
}

// checkBufferView verifies that a buffer view and the buffer behind it exist.
func (c *converter) checkBufferView(i int) error {
	if i < 0 || i >= len(c.doc.BufferViews) {
		return fmt.Errorf("buffer view index %d out of range [0,%d)", i, len(c.doc.BufferViews))
	}
	if b := int(c.doc.BufferViews[i].Buffer); b < 0 || b >= len(c.doc.Buffers) {
		return fmt.Errorf("buffer view %d: buffer index %d out of range [0,%d)", i, b, len(c.doc.Buffers))
	}
	return nil
}

// fallbackMaterial appends one shared default material for primitives that
// reference none.
func (c *converter) fallbackMaterial() int {
	if c.defaultMaterial < 0 {
		c.defaultMaterial = len(c.doc.Materials)
		c.sc.Materials = append(c.sc.Materials, source.Material{Name: "default"})
	}
	return c.defaultMaterial
}

// faces groups an index stream by primitive mode. Strips and fans are
// unrolled into triangles; lines and points keep their own arity.
func faces(mode gltf.PrimitiveMode, idx []int) []source.Face {
	var out []source.Face
	switch mode {
	case gltf.PrimitiveTriangles:
		for i := 0; i+2 < len(idx); i += 3 {
			out = append(out, source.Face{idx[i], idx[i+1], idx[i+2]})
		}
	case gltf.PrimitiveTriangleStrip:
		for i := 0; i+2 < len(idx); i++ {
			if i%2 == 0 {
				out = append(out, source.Face{idx[i], idx[i+1], idx[i+2]})
			} else {
				out = append(out, source.Face{idx[i+1], idx[i], idx[i+2]})
			}
		}
	case gltf.PrimitiveTriangleFan:
		for i := 1; i+1 < len(idx); i++ {
			out = append(out, source.Face{idx[0], idx[i], idx[i+1]})
		}
	case gltf.PrimitiveLines:
		for i := 0; i+1 < len(idx); i += 2 {
			out = append(out, source.Face{idx[i], idx[i+1]})
		}
	case gltf.PrimitiveLineStrip, gltf.PrimitiveLineLoop:
		for i := 0; i+1 < len(idx); i++ {
			out = append(out, source.Face{idx[i], idx[i+1]})
		}
		if mode == gltf.PrimitiveLineLoop && len(idx) > 2 {
			out = append(out, source.Face{idx[len(idx)-1], idx[0]})
		}
	case gltf.PrimitivePoints:
		for _, v := range idx {
			out = append(out, source.Face{v})
		}
	}
	return out
}

// roots builds the node tree of the default scene. Several top-level nodes
// are grouped under a synthetic identity root.
func (c *converter) roots(name string) (*source.Node, error) {
	var top []int
	switch {
	case c.doc.Scene != nil && int(*c.doc.Scene) < len(c.doc.Scenes):
		for _, n := range c.doc.Scenes[*c.doc.Scene].Nodes {
			top = append(top, int(n))
		}
	case len(c.doc.Scenes) > 0:
		for _, n := range c.doc.Scenes[0].Nodes {
			top = append(top, int(n))
		}
	default:
		top = c.parentless()
	}

	visited := make(map[int]bool)
	nodes := make([]*source.Node, 0, len(top))
	for _, ni := range top {
		n, err := c.node(ni, visited)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, n)
	}

	switch len(nodes) {
	case 0:
		return nil, nil
	case 1:
		return nodes[0], nil
	}
	return &source.Node{Name: name, Transform: source.IdentityTransform, Children: nodes}, nil
}

func (c *converter) parentless() []int {
	child := make(map[int]bool)
	for _, n := range c.doc.Nodes {
		for _, ci := range n.Children {
			child[int(ci)] = true
		}
	}
	var out []int
	for i := range c.doc.Nodes {
		if !child[i] {
			out = append(out, i)
		}
	}
	return out
}

func (c *converter) node(i int, visited map[int]bool) (*source.Node, error) {
	if i < 0 || i >= len(c.doc.Nodes) {
		return nil, fmt.Errorf("gltf: node index %d out of range", i)
	}
	if visited[i] {
		return nil, fmt.Errorf("gltf: node %d reached twice", i)
	}
	visited[i] = true

	gn := c.doc.Nodes[i]
	n := &source.Node{Name: gn.Name, Transform: nodeMatrix(gn)}
	if gn.Mesh != nil {
		mi := int(*gn.Mesh)
		if mi < 0 || mi >= len(c.meshPrims) {
			return nil, fmt.Errorf("gltf: node %d: mesh index %d out of range", i, mi)
		}
		n.Meshes = append(n.Meshes, c.meshPrims[mi]...)
	}
	for _, ci := range gn.Children {
		child, err := c.node(int(ci), visited)
		if err != nil {
			return nil, err
		}
		n.Children = append(n.Children, child)
	}
	return n, nil
}

// nodeMatrix returns the node's local matrix in column-major order, composing
// T × R × S when no explicit matrix is present.
func nodeMatrix(n *gltf.Node) [16]float32 {
	var out [16]float32
	m := n.MatrixOrDefault()
	if m != gltf.DefaultMatrix {
		for i := range m {
			out[i] = float32(m[i])
		}
		return out
	}

	t, r, s := n.TranslationOrDefault(), n.RotationOrDefault(), n.ScaleOrDefault()
	rot := mathutil.QuatToMat3(mathutil.Quat{float64(r[0]), float64(r[1]), float64(r[2]), float64(r[3])})
	basis := mathutil.Mat3Mul(rot, mathutil.Mat3Diag(float64(s[0]), float64(s[1]), float64(s[2])))
	return mathutil.FromMat3Translation(basis, mathutil.Vec3{float64(t[0]), float64(t[1]), float64(t[2])}).ColumnMajor()
}

func copyBytes(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
