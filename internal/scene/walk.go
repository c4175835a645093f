package scene

import "github.com/go-gl/mathgl/mgl32"

// Walk visits o and its descendants depth-first, pre-order. Returning false
// from fn skips the visited object's children.
func (o *Object) Walk(fn func(obj *Object, depth int) bool) {
	o.walk(fn, 0)
}

func (o *Object) walk(fn func(*Object, int) bool, depth int) {
	if !fn(o, depth) {
		return
	}
	for _, c := range o.children {
		c.walk(fn, depth+1)
	}
}

// Stats summarizes a tree.
type Stats struct {
	Containers int // objects without a mesh
	Parts      int // objects with a mesh
	Edges      int // container-to-container parent links
	Materials  int // distinct materials referenced by parts
	Vertices   int
	Triangles  int
	MaxDepth   int // container depth, root = 0
}

// Stats computes a Stats for the tree rooted at o.
func (o *Object) Stats() Stats {
	var st Stats
	mats := make(map[*Material]struct{})
	o.Walk(func(obj *Object, depth int) bool {
		if obj.Mesh == nil {
			st.Containers++
			if obj != o && obj.parent != nil && obj.parent.Mesh == nil {
				st.Edges++
			}
			if depth > st.MaxDepth {
				st.MaxDepth = depth
			}
			return true
		}
		st.Parts++
		st.Vertices += len(obj.Mesh.Vertices)
		st.Triangles += obj.Mesh.TriangleCount()
		if obj.Material != nil {
			mats[obj.Material] = struct{}{}
		}
		return true
	})
	st.Materials = len(mats)
	return st
}

// Materials returns the distinct materials referenced under o in first-use order.
func (o *Object) Materials() []*Material {
	var out []*Material
	seen := make(map[*Material]bool)
	o.Walk(func(obj *Object, _ int) bool {
		if obj.Material != nil && !seen[obj.Material] {
			seen[obj.Material] = true
			out = append(out, obj.Material)
		}
		return true
	})
	return out
}

// Bounds returns the world-space bounding box of every mesh vertex under o.
func (o *Object) Bounds() Box {
	b := EmptyBox()
	o.Walk(func(obj *Object, _ int) bool {
		if obj.Mesh == nil {
			return true
		}
		w := obj.WorldMatrix()
		for _, v := range obj.Mesh.Vertices {
			b = b.Extend(mgl32.TransformCoordinate(v, w))
		}
		return true
	})
	return b
}
