package atlas

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/meshkit/pkg/material"
	"github.com/Faultbox/meshkit/pkg/math"
)

func TestApply(t *testing.T) {
	m := Mapping{XScale: 0.5, YScale: 0.25, XOffset: 0.5, YOffset: 0.25}
	got := m.Apply(math.Vec2{X: 1, Y: 1})

	// u = 1*0.5 + 0.5, v = 1*0.25 + (1 - 0.25 - 0.25)
	assert.InDelta(t, 1.0, got.X, 1e-6)
	assert.InDelta(t, 0.75, got.Y, 1e-6)
}

func TestApplyStaysInRect(t *testing.T) {
	mappings := []Mapping{
		{XScale: 0.5, YScale: 0.5, XOffset: 0, YOffset: 0},
		{XScale: 0.25, YScale: 0.125, XOffset: 0.75, YOffset: 0.875},
		{XScale: 1, YScale: 1},
		{XScale: 0.1, YScale: 0.3, XOffset: 0.4, YOffset: 0.2},
	}
	for _, m := range mappings {
		require.NoError(t, m.Validate())
		min, max := m.Rect()
		for u := float32(0); u <= 1; u += 0.125 {
			for v := float32(0); v <= 1; v += 0.125 {
				got := m.Apply(math.Vec2{X: u, Y: v})
				eps := math.Vec2{X: 1e-6, Y: 1e-6}
				assert.Truef(t, got.InRect(math.Vec2{X: min.X - eps.X, Y: min.Y - eps.Y}, math.Vec2{X: max.X + eps.X, Y: max.Y + eps.Y}),
					"mapping %+v: (%g,%g) -> %v outside [%v, %v]", m, u, v, got, min, max)
			}
		}
	}
}

func TestRemapIsNotIdempotent(t *testing.T) {
	m := Mapping{XScale: 0.5, YScale: 0.5, XOffset: 0.5, YOffset: 0}
	once := []math.Vec2{{X: 0.5, Y: 0.5}}
	Remap(once, m)
	twice := []math.Vec2{once[0]}
	Remap(twice, m)

	assert.NotEqual(t, once[0], twice[0])
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Mapping{XScale: 0.5, YScale: 0.5, XOffset: 0.5, YOffset: 0.5}.Validate())
	assert.ErrorIs(t, Mapping{XScale: 0, YScale: 0.5}.Validate(), ErrInvalidMapping)
	assert.ErrorIs(t, Mapping{XScale: 0.6, YScale: 0.5, XOffset: 0.5}.Validate(), ErrInvalidMapping)
}

func TestLookup(t *testing.T) {
	tint := material.Color{R: 1, G: 1, B: 1, A: 1}
	want := Mapping{XScale: 0.5, YScale: 0.5}
	table := Table{Key("leaf", tint): want}

	mat := &material.Material{Textures: map[string]string{"_Color_Map": "leaf"}, Tint: &tint}
	got, ok := table.Lookup(mat, "_Color_Map")
	require.True(t, ok)
	assert.Equal(t, want, got)

	untinted := &material.Material{Textures: map[string]string{"_Color_Map": "leaf"}}
	_, ok = table.Lookup(untinted, "_Color_Map")
	assert.False(t, ok)

	_, ok = table.Lookup(mat, "_Other_Map")
	assert.False(t, ok)

	_, ok = Table(nil).Lookup(mat, "_Color_Map")
	assert.False(t, ok)
}
