package atlas

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/meshkit/pkg/material"
)

func TestResolve(t *testing.T) {
	white := material.Color{R: 1, G: 1, B: 1, A: 1}
	leaf := &material.Material{Name: "leaf", Shader: "Foliage", Textures: map[string]string{"_Color_Map": "leaf"}, Tint: &white}
	bark := &material.Material{Name: "bark", Shader: "Foliage", Textures: map[string]string{"_Color_Map": "bark"}, Tint: &white}
	ground := &material.Material{Name: "ground_tileable", Shader: "Foliage", Textures: map[string]string{"_Color_Map": "ground"}}
	stone := &material.Material{Name: "stone", Shader: "Lit", Textures: map[string]string{"_Color_Map": "stone"}}

	containers := map[string]*Container{
		"Foliage": {
			Shader:   "Foliage",
			Material: &material.Material{Name: "Foliage_atlased", Shader: "Foliage"},
			Mappings: map[string]Mapping{
				Key("leaf", white):  {XScale: 0.5, YScale: 1},
				Key("bark", white):  {XScale: 0.5, YScale: 1, XOffset: 0.5},
				Key("other", white): {XScale: 0.5, YScale: 0.5},
			},
		},
	}

	groups, table := Resolve([]*material.Material{leaf, stone, bark, ground}, containers, "_Color_Map")

	require.Len(t, groups, 3)
	assert.Equal(t, "Foliage_atlased", groups[0].Material.Name)
	assert.Equal(t, "Foliage", groups[0].Atlas)
	assert.Equal(t, []*material.Material{leaf, bark}, groups[0].Sources)
	assert.Same(t, stone, groups[1].Material)
	assert.Same(t, ground, groups[2].Material)

	assert.Len(t, table, 2)
	assert.Contains(t, table, Key("leaf", white))
	assert.NotContains(t, table, Key("other", white))
}

func TestResolveWithoutContainers(t *testing.T) {
	a := &material.Material{Name: "a", Shader: "Lit"}
	b := &material.Material{Name: "b", Shader: "Lit", Textures: map[string]string{"_Color_Map": "b"}}

	groups, table := Resolve([]*material.Material{a, b}, nil, "_Color_Map")
	require.Len(t, groups, 2)
	assert.Empty(t, table)
	assert.Empty(t, groups[0].Atlas)
}

func TestLoadContainers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "atlas.yaml")
	content := `
- shader: Foliage
  material:
    name: Foliage_atlased
    shader: Foliage
    textures:
      _Color_Map: foliage_atlas
  mappings:
    "leaf#FFFFFFFF":
      x_scale: 0.5
      y_scale: 0.5
      x_offset: 0.5
      y_offset: 0
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	containers, err := LoadContainers(path)
	require.NoError(t, err)
	require.Contains(t, containers, "Foliage")
	assert.Equal(t, Mapping{XScale: 0.5, YScale: 0.5, XOffset: 0.5}, containers["Foliage"].Mappings["leaf#FFFFFFFF"])
}

func TestLoadContainersRejectsInvalidMapping(t *testing.T) {
	path := filepath.Join(t.TempDir(), "atlas.yaml")
	content := `
- shader: Foliage
  mappings:
    "leaf#FFFFFFFF": {x_scale: 0.8, y_scale: 0.5, x_offset: 0.5}
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	_, err := LoadContainers(path)
	assert.ErrorIs(t, err, ErrInvalidMapping)
}
