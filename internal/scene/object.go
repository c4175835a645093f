package scene

import "github.com/go-gl/mathgl/mgl32"

// Object is one element of the engine scene tree. An object carrying a Mesh
// is a renderable part; one without is a container grouping its children
// under a shared transform.
type Object struct {
	Name      string
	Transform Transform
	Mesh      *Mesh
	Material  *Material

	parent   *Object
	children []*Object
}

// NewObject returns a detached object with an identity transform.
func NewObject(name string) *Object {
	return &Object{Name: name, Transform: Identity()}
}

func (o *Object) Parent() *Object {
	return o.parent
}

// Children returns the direct children in attachment order.
func (o *Object) Children() []*Object {
	return o.children
}

// Parts returns the direct children that carry a mesh.
func (o *Object) Parts() []*Object {
	var out []*Object
	for _, c := range o.children {
		if c.Mesh != nil {
			out = append(out, c)
		}
	}
	return out
}

// Containers returns the direct children without a mesh.
func (o *Object) Containers() []*Object {
	var out []*Object
	for _, c := range o.children {
		if c.Mesh == nil {
			out = append(out, c)
		}
	}
	return out
}

// SetParent moves o under p, or detaches it when p is nil. With
// worldPositionStays the local transform is recomputed so the world
// placement is unchanged; otherwise the local transform is kept as-is.
// Reparenting under o itself or one of its descendants is ignored.
func (o *Object) SetParent(p *Object, worldPositionStays bool) {
	for a := p; a != nil; a = a.parent {
		if a == o {
			return
		}
	}

	var world mgl32.Mat4
	if worldPositionStays {
		world = o.WorldMatrix()
	}

	if o.parent != nil {
		o.parent.removeChild(o)
	}
	o.parent = p
	if p != nil {
		p.children = append(p.children, o)
	}

	if !worldPositionStays {
		return
	}
	parentWorld := mgl32.Ident4()
	if p != nil {
		parentWorld = p.WorldMatrix()
	}
	if parentWorld == mgl32.Ident4() && world == o.Transform.Matrix() {
		return
	}
	o.Transform = TransformFromMatrix(parentWorld.Inv().Mul4(world))
}

func (o *Object) removeChild(c *Object) {
	for i, k := range o.children {
		if k == c {
			o.children = append(o.children[:i:i], o.children[i+1:]...)
			return
		}
	}
}

// LocalMatrix returns the transform relative to the parent.
func (o *Object) LocalMatrix() mgl32.Mat4 {
	return o.Transform.Matrix()
}

// WorldMatrix chains local matrices from the root down to o.
func (o *Object) WorldMatrix() mgl32.Mat4 {
	m := o.LocalMatrix()
	for p := o.parent; p != nil; p = p.parent {
		m = p.LocalMatrix().Mul4(m)
	}
	return m
}
