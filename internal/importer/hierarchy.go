package importer

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"scene-importer/internal/mathutil"
	"scene-importer/internal/scene"
	"scene-importer/internal/source"
)

// composeNode builds the container for nd and, recursively, its subtree.
// Mesh parts are attached before the container's own transform is set, so
// they end up with an identity placement and the caller's scale.
func composeNode(nd *source.Node, bindings []Binding, scale mgl32.Vec3, opts Options) (*scene.Object, error) {
	container := scene.NewObject(nd.Name)

	for _, mi := range nd.Meshes {
		if mi < 0 || mi >= len(bindings) {
			return nil, &GeometryError{
				Mesh:   -1,
				Name:   nd.Name,
				Reason: fmt.Sprintf("mesh index %d out of range [0,%d)", mi, len(bindings)),
			}
		}
		b := bindings[mi]
		part := scene.NewObject(b.Name)
		part.Mesh = b.Mesh
		part.Material = b.Material
		part.Transform.Scale = scale
		part.SetParent(container, true)
	}

	container.Transform = nodeTransform(nd.Transform, opts)

	for _, child := range nd.Children {
		sub, err := composeNode(child, bindings, scale, opts)
		if err != nil {
			return nil, err
		}
		sub.SetParent(container, false)
	}
	return container, nil
}

// nodeTransform turns a column-major source matrix into an engine-side local
// transform. Rotation is expressed through Z-X-Y Euler angles; scale is only
// kept when opts asks for it.
func nodeTransform(cm [16]float32, opts Options) scene.Transform {
	m := mathutil.Mat4FromColumnMajor(cm)
	if opts.Handedness == MirrorConjugate {
		m = mathutil.Mat4Mul(mathutil.Mat4Mul(mathutil.MirrorX4, m), mathutil.MirrorX4)
	}

	t, r, s := m.Decompose()
	e := mathutil.EulerZXY(r)
	if opts.Handedness == MirrorEulerY {
		e[1] = -e[1]
	}

	tr := scene.Identity()
	tr.Position = mgl32.Vec3(t.Float32())
	tr.SetEuler(mgl32.Vec3{
		float32(mathutil.Rad2Deg(e[0])),
		float32(mathutil.Rad2Deg(e[1])),
		float32(mathutil.Rad2Deg(e[2])),
	})
	if opts.KeepNodeScale {
		tr.Scale = mgl32.Vec3(s.Float32())
	}
	return tr
}
