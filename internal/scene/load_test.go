package scene

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/meshkit/internal/meshio"
	"github.com/Faultbox/meshkit/pkg/math"
	"github.com/Faultbox/meshkit/pkg/mesh"
)

const sceneYAML = `name: forest
materials:
  - name: bark
    shader: Foliage
    textures: {_Color_Map: bark.png}
    tint: {r: 1, g: 1, b: 1, a: 1}
objects:
  - id: forest
    name: forest
  - id: tree_01
    name: tree_01
    parent: forest
    transform:
      position: [1, 2, 3]
      rotation: [0, 90, 0]
    mesh:
      path: meshes/tree.asset
    renderer:
      materials: [bark]
      property_block: {_VeinsDisplacementIntensity: 0.25}
  - id: hidden
    name: hidden
    parent: forest
    active: false
    inline_mesh:
      name: tri
      positions: [{x: 0, y: 0, z: 0}, {x: 1, y: 0, z: 0}, {x: 0, y: 1, z: 0}]
      submeshes: [{indices: [0, 1, 2]}]
`

func writeSceneFixture(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "meshes"), 0755))

	tri := &mesh.Mesh{
		Name:      "tree",
		Positions: []math.Vec3{{}, {X: 1}, {Y: 1}},
		Submeshes: []mesh.Submesh{{Indices: []uint32{0, 1, 2}}},
	}
	require.NoError(t, meshio.WriteAsset(filepath.Join(dir, "meshes", "tree.asset"), tri, meshio.WriteOptions{}))

	path := filepath.Join(dir, "scene.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sceneYAML), 0644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeSceneFixture(t)

	s, f, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "forest", f.Name)
	require.Len(t, s.Objects(), 3)

	tree := s.Get("tree_01")
	require.NotNil(t, tree)
	assert.True(t, tree.Active)
	assert.Equal(t, TagUntagged, tree.Tag)
	assert.Equal(t, math.Vec3{X: 1, Y: 2, Z: 3}, tree.Transform.Position)
	assert.Equal(t, 3, tree.Mesh.VertexCount())
	require.NotNil(t, tree.Source)
	assert.Equal(t, filepath.Join(filepath.Dir(path), "meshes", "tree.asset"), tree.Source.Path)

	require.NotNil(t, tree.Renderer)
	assert.True(t, tree.Renderer.Enabled)
	assert.True(t, tree.Renderer.HasPropertyBlock())
	assert.InDelta(t, 0.25, tree.Renderer.Float("_VeinsDisplacementIntensity"), 1e-6)
	require.Len(t, tree.Renderer.Materials, 1)
	assert.Equal(t, "Foliage", tree.Renderer.Materials[0].Shader)

	hidden := s.Get("hidden")
	assert.False(t, hidden.Active)
	assert.Equal(t, 3, hidden.Mesh.VertexCount())
	assert.Nil(t, hidden.Renderer)
}

func TestLoadUnknownMaterial(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scene.yaml")
	data := "objects:\n  - name: a\n    renderer:\n      materials: [missing]\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	_, _, err := Load(path)
	assert.ErrorContains(t, err, "unknown material")
}

func TestSaveRoundTrip(t *testing.T) {
	path := writeSceneFixture(t)
	s, _, err := Load(path)
	require.NoError(t, err)
	s.Get("tree_01").Renderer.Enabled = false

	out := filepath.Join(filepath.Dir(path), "saved.yaml")
	require.NoError(t, s.Save(out, "forest", ""))

	back, f, err := Load(out)
	require.NoError(t, err)
	assert.Equal(t, "forest", f.Name)
	tree := back.Get("tree_01")
	assert.False(t, tree.Renderer.Enabled)
	assert.Equal(t, "meshes/tree.asset", filepath.ToSlash(f.Objects[1].Mesh.Path))
	assert.InDelta(t, 2, tree.Transform.Position.Y, 1e-6)
	assert.InDelta(t, s.Get("tree_01").Transform.Rotation.Y, tree.Transform.Rotation.Y, 1e-6)
	assert.Equal(t, 3, back.Get("hidden").Mesh.VertexCount())
}
