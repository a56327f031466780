// Package math provides the float32 vector, quaternion and matrix types used
// to bake mesh data between local and world space.
package math

// Vec2 is a 2D vector, mostly used for texture coordinates.
type Vec2 struct {
	X, Y float32
}

// InRect reports whether v lies inside [min, max] on both axes.
func (v Vec2) InRect(min, max Vec2) bool {
	return v.X >= min.X && v.X <= max.X && v.Y >= min.Y && v.Y <= max.Y
}
