package mathutil

// Mat4 is a 4×4 matrix stored row-major. Used for node local transforms.
type Mat4 [16]float64

func Mat4Identity() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Mat4FromColumnMajor converts a column-major array, as stored by scene
// importers, into a row-major Mat4.
func Mat4FromColumnMajor(cm [16]float32) Mat4 {
	var m Mat4
	for c := 0; c < 4; c++ {
		for r := 0; r < 4; r++ {
			m[r*4+c] = float64(cm[c*4+r])
		}
	}
	return m
}

// ColumnMajor returns the matrix in column-major order.
func (m Mat4) ColumnMajor() [16]float32 {
	var cm [16]float32
	for c := 0; c < 4; c++ {
		for r := 0; r < 4; r++ {
			cm[c*4+r] = float32(m[r*4+c])
		}
	}
	return cm
}

// Mat4Mul returns a × b.
func Mat4Mul(a, b Mat4) Mat4 {
	var m Mat4
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			m[r*4+c] = a[r*4+0]*b[0*4+c] + a[r*4+1]*b[1*4+c] +
				a[r*4+2]*b[2*4+c] + a[r*4+3]*b[3*4+c]
		}
	}
	return m
}

// FromMat3Translation builds a 4×4 affine matrix from a 3×3 rotation and translation.
func FromMat3Translation(r Mat3, t Vec3) Mat4 {
	return Mat4{
		r[0], r[1], r[2], t[0],
		r[3], r[4], r[5], t[1],
		r[6], r[7], r[8], t[2],
		0, 0, 0, 1,
	}
}

// Translation returns the fourth column.
func (m Mat4) Translation() Vec3 {
	return Vec3{m[3], m[7], m[11]}
}

// Basis returns the upper-left 3×3 block.
func (m Mat4) Basis() Mat3 {
	return Mat3{
		m[0], m[1], m[2],
		m[4], m[5], m[6],
		m[8], m[9], m[10],
	}
}

// Decompose splits an affine matrix into translation, rotation and per-axis scale.
// A negative determinant is folded into the X scale. Shear is not representable
// and ends up distorting the rotation.
func (m Mat4) Decompose() (t Vec3, r Mat3, s Vec3) {
	t = m.Translation()
	b := m.Basis()
	cx, cy, cz := b.Col(0), b.Col(1), b.Col(2)
	s = Vec3{cx.Len(), cy.Len(), cz.Len()}
	if b.Det() < 0 {
		s[0] = -s[0]
	}
	for i, l := range s {
		if l > -epsilon && l < epsilon {
			s[i] = 0
		}
	}
	r = Mat3FromColumns(safeDiv(cx, s[0], 0), safeDiv(cy, s[1], 1), safeDiv(cz, s[2], 2))
	return t, r, s
}

// safeDiv divides a basis column by its scale, substituting the unit axis when the
// column collapsed.
func safeDiv(v Vec3, s float64, axis int) Vec3 {
	if s == 0 {
		var u Vec3
		u[axis] = 1
		return u
	}
	return v.Scale(1 / s)
}
