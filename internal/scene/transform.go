package scene

import (
	"github.com/go-gl/mathgl/mgl32"

	"scene-importer/internal/mathutil"
)

// Transform is a local translation, rotation and scale, applied scale first.
type Transform struct {
	Position mgl32.Vec3
	Rotation mgl32.Quat
	Scale    mgl32.Vec3
}

// Identity returns the transform that changes nothing.
func Identity() Transform {
	return Transform{
		Rotation: mgl32.QuatIdent(),
		Scale:    mgl32.Vec3{1, 1, 1},
	}
}

// SetEuler sets the rotation from Euler angles in degrees, applied around
// Z, then X, then Y.
func (t *Transform) SetEuler(deg mgl32.Vec3) {
	q := mathutil.EulerZXYToQuat(mathutil.Vec3{
		mathutil.Deg2Rad(float64(deg[0])),
		mathutil.Deg2Rad(float64(deg[1])),
		mathutil.Deg2Rad(float64(deg[2])),
	})
	t.Rotation = mgl32.Quat{W: float32(q[3]), V: mgl32.Vec3{float32(q[0]), float32(q[1]), float32(q[2])}}
}

// Euler returns the rotation as Euler angles in degrees (see SetEuler).
func (t Transform) Euler() mgl32.Vec3 {
	q := t.Rotation.Normalize()
	r := mathutil.QuatToMat3(mathutil.Quat{float64(q.V[0]), float64(q.V[1]), float64(q.V[2]), float64(q.W)})
	e := mathutil.EulerZXY(r)
	return mgl32.Vec3{
		float32(mathutil.Rad2Deg(e[0])),
		float32(mathutil.Rad2Deg(e[1])),
		float32(mathutil.Rad2Deg(e[2])),
	}
}

// Matrix returns T × R × S.
func (t Transform) Matrix() mgl32.Mat4 {
	return mgl32.Translate3D(t.Position[0], t.Position[1], t.Position[2]).
		Mul4(t.Rotation.Mat4()).
		Mul4(mgl32.Scale3D(t.Scale[0], t.Scale[1], t.Scale[2]))
}

// TransformFromMatrix decomposes an affine matrix. Shear is lost.
func TransformFromMatrix(m mgl32.Mat4) Transform {
	tr, r, s := mathutil.Mat4FromColumnMajor(m).Decompose()

	var rot mgl32.Mat3
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			rot[col*3+row] = float32(r[row*3+col])
		}
	}
	return Transform{
		Position: mgl32.Vec3(tr.Float32()),
		Rotation: mgl32.Mat4ToQuat(rot.Mat4()).Normalize(),
		Scale:    mgl32.Vec3(s.Float32()),
	}
}
