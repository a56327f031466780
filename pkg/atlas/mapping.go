// Package atlas maps source textures onto sub-rectangles of a shared atlas
// texture and rewrites texture coordinates accordingly.
package atlas

import (
	"errors"
	"fmt"

	"github.com/Faultbox/meshkit/pkg/material"
	"github.com/Faultbox/meshkit/pkg/math"
)

// ErrInvalidMapping is returned for mappings that would place UVs outside
// the unit square.
var ErrInvalidMapping = errors.New("invalid atlas mapping")

// Mapping is the sub-rectangle of the atlas a (texture, tint) pair was packed
// into. YOffset is measured from the top edge of the atlas.
type Mapping struct {
	XScale  float32 `yaml:"x_scale"`
	YScale  float32 `yaml:"y_scale"`
	XOffset float32 `yaml:"x_offset"`
	YOffset float32 `yaml:"y_offset"`
}

// Validate checks that the rectangle lies inside [0,1]x[0,1].
func (m Mapping) Validate() error {
	if m.XScale <= 0 || m.YScale <= 0 {
		return fmt.Errorf("%w: non-positive scale (%g, %g)", ErrInvalidMapping, m.XScale, m.YScale)
	}
	if m.XOffset < 0 || m.YOffset < 0 || m.XOffset+m.XScale > 1 || m.YOffset+m.YScale > 1 {
		return fmt.Errorf("%w: rect offset (%g, %g) scale (%g, %g) exceeds unit square",
			ErrInvalidMapping, m.XOffset, m.YOffset, m.XScale, m.YScale)
	}
	return nil
}

// Rect returns the UV rectangle remapped coordinates land in.
func (m Mapping) Rect() (min, max math.Vec2) {
	v0 := 1 - m.YScale - m.YOffset
	return math.Vec2{X: m.XOffset, Y: v0}, math.Vec2{X: m.XOffset + m.XScale, Y: v0 + m.YScale}
}

// Apply remaps one coordinate. The V axis is flipped against YOffset because
// atlas rows are packed top-down.
func (m Mapping) Apply(uv math.Vec2) math.Vec2 {
	return math.Vec2{
		X: uv.X*m.XScale + m.XOffset,
		Y: uv.Y*m.YScale + (1 - m.YScale - m.YOffset),
	}
}

// Remap rewrites uvs in place. It is not idempotent: callers run it once on a
// fresh working copy.
func Remap(uvs []math.Vec2, m Mapping) {
	for i := range uvs {
		uvs[i] = m.Apply(uvs[i])
	}
}

// Key identifies a (texture, tint) pair.
func Key(texture string, tint material.Color) string {
	return texture + "#" + tint.Hex()
}

// Table maps Key values to atlas rectangles. A nil Table is valid and empty.
type Table map[string]Mapping

// Lookup finds the mapping for a material's texture bound to colorMap and its
// tint. Materials without either never map.
func (t Table) Lookup(mat *material.Material, colorMap string) (Mapping, bool) {
	if t == nil || mat == nil || mat.Tint == nil {
		return Mapping{}, false
	}
	tex, ok := mat.Texture(colorMap)
	if !ok {
		return Mapping{}, false
	}
	m, ok := t[Key(tex, *mat.Tint)]
	return m, ok
}
