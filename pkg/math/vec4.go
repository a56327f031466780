package math

// Vec4 is a 4-component vector. Packed vertex channels and tangents use it;
// for tangents W carries the bitangent sign.
type Vec4 struct {
	X, Y, Z, W float32
}

// XYZ drops the W component.
func (v Vec4) XYZ() Vec3 {
	return Vec3{v.X, v.Y, v.Z}
}

// Array returns the components as an array.
func (v Vec4) Array() [4]float32 {
	return [4]float32{v.X, v.Y, v.Z, v.W}
}
