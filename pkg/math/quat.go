package math

import "github.com/chewxy/math32"

// Quat is a rotation quaternion; W is the scalar part.
type Quat struct {
	X, Y, Z, W float32
}

// QuatIdentity returns the rotation that does nothing.
func QuatIdentity() Quat {
	return Quat{W: 1}
}

// QuatFromAxisAngle rotates angle radians around a unit axis.
func QuatFromAxisAngle(axis Vec3, angle float32) Quat {
	s, c := math32.Sincos(angle / 2)
	return Quat{X: axis.X * s, Y: axis.Y * s, Z: axis.Z * s, W: c}
}

// QuatFromEuler builds a rotation from Euler angles in degrees. The rotation
// is applied around Z first, then X, then Y (left-handed, Y-up convention of
// the scenes meshkit reads).
func QuatFromEuler(degrees Vec3) Quat {
	const toRad = math32.Pi / 180
	qx := QuatFromAxisAngle(Vec3{1, 0, 0}, degrees.X*toRad)
	qy := QuatFromAxisAngle(Vec3{0, 1, 0}, degrees.Y*toRad)
	qz := QuatFromAxisAngle(Vec3{0, 0, 1}, degrees.Z*toRad)
	return qy.Mul(qx).Mul(qz)
}

// Normalize returns q scaled to unit length. Near-zero quaternions, which
// show up in hand-written scene files, become the identity.
func (q Quat) Normalize() Quat {
	l := math32.Sqrt(q.X*q.X + q.Y*q.Y + q.Z*q.Z + q.W*q.W)
	if l < 0.0001 {
		return QuatIdentity()
	}
	return Quat{X: q.X / l, Y: q.Y / l, Z: q.Z / l, W: q.W / l}
}

// Mul composes rotations; other is applied first.
func (q Quat) Mul(other Quat) Quat {
	return Quat{
		X: q.W*other.X + q.X*other.W + q.Y*other.Z - q.Z*other.Y,
		Y: q.W*other.Y - q.X*other.Z + q.Y*other.W + q.Z*other.X,
		Z: q.W*other.Z + q.X*other.Y - q.Y*other.X + q.Z*other.W,
		W: q.W*other.W - q.X*other.X - q.Y*other.Y - q.Z*other.Z,
	}
}

// Rotate applies the rotation to a direction vector.
func (q Quat) Rotate(v Vec3) Vec3 {
	q = q.Normalize()
	u := Vec3{q.X, q.Y, q.Z}
	t := u.Cross(v).Scale(2)
	return v.Add(t.Scale(q.W)).Add(u.Cross(t))
}

// Up returns the local Y axis after rotation.
func (q Quat) Up() Vec3 {
	return q.Rotate(Vec3Up)
}

// ToMat4 returns the rotation as a matrix.
func (q Quat) ToMat4() Mat4 {
	q = q.Normalize()

	xx := q.X * q.X
	xy := q.X * q.Y
	xz := q.X * q.Z
	xw := q.X * q.W
	yy := q.Y * q.Y
	yz := q.Y * q.Z
	yw := q.Y * q.W
	zz := q.Z * q.Z
	zw := q.Z * q.W

	return Mat4{
		1 - 2*(yy+zz), 2 * (xy + zw), 2 * (xz - yw), 0,
		2 * (xy - zw), 1 - 2*(xx+zz), 2 * (yz + xw), 0,
		2 * (xz + yw), 2 * (yz - xw), 1 - 2*(xx+yy), 0,
		0, 0, 0, 1,
	}
}
