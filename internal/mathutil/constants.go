package mathutil

// MirrorX converts between right-handed and left-handed frames: diag(-1, 1, 1).
var MirrorX = Mat3Diag(-1, 1, 1)

// MirrorX4 is MirrorX as an affine 4×4 matrix.
var MirrorX4 = FromMat3Translation(MirrorX, Vec3{})

// epsilon below which a basis column or determinant is treated as degenerate.
const epsilon = 1e-12
