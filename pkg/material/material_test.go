package material

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestColorHex(t *testing.T) {
	assert.Equal(t, "FF000080", Color{R: 1, A: 0.5}.Hex())
	assert.Equal(t, "00FF00FF", Color{R: -1, G: 2, A: 1}.Hex())
}

func TestIdentifierIgnoresName(t *testing.T) {
	a := &Material{Name: "bark_a", Shader: "Foliage", Textures: map[string]string{"_Color_Map": "bark", "_Normal": "bark_n"}}
	b := &Material{Name: "bark_b", Shader: "Foliage", Textures: map[string]string{"_Normal": "bark_n", "_Color_Map": "bark"}}
	assert.Equal(t, a.Identifier(), b.Identifier())

	b.Tint = &Color{R: 1, G: 1, B: 1, A: 1}
	assert.NotEqual(t, a.Identifier(), b.Identifier())
}

func TestMarkers(t *testing.T) {
	assert.True(t, (&Material{Name: "Rock_Tileable"}).IsTileable())
	assert.False(t, (&Material{Name: "rock"}).IsTileable())
}

func TestMatches(t *testing.T) {
	atlased := &Material{Name: "Foliage_atlased", Shader: "Foliage", Textures: map[string]string{"_Color_Map": "atlas"}}
	leaf := &Material{Name: "leaf", Shader: "Foliage", Textures: map[string]string{"_Color_Map": "leaf"}}
	ground := &Material{Name: "ground_tileable", Shader: "Foliage", Textures: map[string]string{"_Color_Map": "ground"}}
	stone := &Material{Name: "stone", Shader: "Lit", Textures: map[string]string{"_Color_Map": "stone"}}
	rock := &Material{Name: "rock_atlased", Shader: "Lit", Textures: map[string]string{"_Color_Map": "rock"}}

	tests := []struct {
		name    string
		out     *Material
		source  *Material
		atlased bool
		want    bool
	}{
		{"atlas accepts same shader", atlased, leaf, true, true},
		{"atlas rejects tileable", atlased, ground, true, false},
		{"atlas rejects other shader", atlased, stone, true, false},
		{"plain requires identity", leaf, leaf, false, true},
		{"plain rejects different texture", leaf, ground, false, false},
		{"name alone does not make an atlas group", rock, stone, false, false},
		{"atlas group without marker in name", leaf, &Material{Name: "twig", Shader: "Foliage"}, true, true},
		{"nil output", nil, leaf, true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Matches(tt.out, tt.source, tt.atlased))
		})
	}
}

func TestKeywordEnabled(t *testing.T) {
	m := &Material{Keywords: []string{"_ENABLE_WIND_TURBULENCE"}}
	assert.True(t, m.KeywordEnabled("_ENABLE_WIND_TURBULENCE"))
	assert.False(t, m.KeywordEnabled("_OTHER"))
}
