// Package material describes materials as plain data: a shader name, bound
// textures, an optional tint and enabled keywords. Identity strings derived
// from them decide which source submeshes can be welded together.
package material

import (
	"fmt"
	"slices"
	"sort"
	"strings"
)

// TileableMarker in a material name marks a repeating texture.
const TileableMarker = "_tileable"

// Color is a linear RGBA color.
type Color struct {
	R float32 `yaml:"r"`
	G float32 `yaml:"g"`
	B float32 `yaml:"b"`
	A float32 `yaml:"a"`
}

// Hex returns the color as RRGGBBAA with each channel clamped to [0,1].
func (c Color) Hex() string {
	return fmt.Sprintf("%02X%02X%02X%02X", to8(c.R), to8(c.G), to8(c.B), to8(c.A))
}

func to8(v float32) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 1:
		return 255
	}
	return uint8(v*255 + 0.5)
}

// Material is the data a submesh is rendered with.
type Material struct {
	Name     string            `yaml:"name"`
	Shader   string            `yaml:"shader"`
	Textures map[string]string `yaml:"textures,omitempty"` // property name -> texture identity
	Tint     *Color            `yaml:"tint,omitempty"`
	Keywords []string          `yaml:"keywords,omitempty"`
}

// Texture returns the texture bound to property, if any.
func (m *Material) Texture(property string) (string, bool) {
	tex, ok := m.Textures[property]
	return tex, ok && tex != ""
}

// KeywordEnabled reports whether keyword is enabled on the material.
func (m *Material) KeywordEnabled(keyword string) bool {
	return slices.Contains(m.Keywords, keyword)
}

// IsTileable reports whether the material repeats its texture and must never
// be atlased.
func (m *Material) IsTileable() bool {
	return strings.Contains(strings.ToLower(m.Name), TileableMarker)
}

// ShaderIdentifier is the identity atlas-produced materials are compared by.
func (m *Material) ShaderIdentifier() string {
	return m.Shader
}

// Identifier is the full material identity: shader, bound textures in
// property order and tint. Two materials with equal identifiers can share one
// combined mesh.
func (m *Material) Identifier() string {
	var b strings.Builder
	b.WriteString(m.Shader)

	props := make([]string, 0, len(m.Textures))
	for p := range m.Textures {
		props = append(props, p)
	}
	sort.Strings(props)
	for _, p := range props {
		b.WriteString("|")
		b.WriteString(p)
		b.WriteString("=")
		b.WriteString(m.Textures[p])
	}

	if m.Tint != nil {
		b.WriteString("|tint=")
		b.WriteString(m.Tint.Hex())
	}
	return b.String()
}

// Matches reports whether a source submesh material belongs to the group
// whose output material is out. atlased tells whether the group was produced
// by an atlas container: such groups accept any non-tileable source with the
// same shader. Every other group requires an identical material, whatever
// the names say.
func Matches(out, source *Material, atlased bool) bool {
	if out == nil || source == nil {
		return false
	}
	if atlased && !source.IsTileable() {
		return out.ShaderIdentifier() == source.ShaderIdentifier()
	}
	return out.Identifier() == source.Identifier()
}
