package math

// Mat4 is a column-major 4x4 matrix: element (row r, column c) is m[c*4+r],
// so m[12], m[13], m[14] hold the translation.
type Mat4 [16]float32

// Identity returns the identity matrix.
func Identity() Mat4 {
	return Mat4{0: 1, 5: 1, 10: 1, 15: 1}
}

// TRS builds the local-to-world matrix of a transform: scale first, then
// rotation, then translation.
func TRS(position Vec3, rotation Quat, scale Vec3) Mat4 {
	m := rotation.ToMat4()
	for i := 0; i < 3; i++ {
		m[i] *= scale.X
		m[4+i] *= scale.Y
		m[8+i] *= scale.Z
	}
	m[12], m[13], m[14] = position.X, position.Y, position.Z
	return m
}

// TransformPoint maps p through m, dividing by w when the matrix is
// projective.
func (m Mat4) TransformPoint(p Vec3) Vec3 {
	out := Vec3{
		m[0]*p.X + m[4]*p.Y + m[8]*p.Z + m[12],
		m[1]*p.X + m[5]*p.Y + m[9]*p.Z + m[13],
		m[2]*p.X + m[6]*p.Y + m[10]*p.Z + m[14],
	}
	if w := m[3]*p.X + m[7]*p.Y + m[11]*p.Z + m[15]; w != 0 && w != 1 {
		return out.Scale(1 / w)
	}
	return out
}

// Determinant3 returns the determinant of the upper-left 3x3 block. Zero
// means the transform collapses at least one axis.
func (m Mat4) Determinant3() float32 {
	return m[0]*(m[5]*m[10]-m[9]*m[6]) -
		m[4]*(m[1]*m[10]-m[9]*m[2]) +
		m[8]*(m[1]*m[6]-m[5]*m[2])
}
