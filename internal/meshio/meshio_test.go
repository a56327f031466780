package meshio

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/meshkit/pkg/math"
	"github.com/Faultbox/meshkit/pkg/mesh"
)

func testMesh() *mesh.Mesh {
	return &mesh.Mesh{
		Name:      "msh_test_combined",
		Positions: []math.Vec3{{X: 0}, {X: 1}, {X: 1, Y: 1}, {Y: 1}},
		Normals:   []math.Vec3{{Z: 1}, {Z: 1}, {Z: 1}, {Z: 1}},
		Tangents:  []math.Vec4{{X: 1, W: 1}, {X: 1, W: 1}, {X: 1, W: 1}, {X: 1, W: -1}},
		UV:        []math.Vec2{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}},
		UV2:       []math.Vec4{{1, 2, 3, 0.5}, {1, 2, 3, 0.5}, {1, 2, 3, 0.5}, {1, 2, 3, 0.5}},
		Submeshes: []mesh.Submesh{
			{Indices: []uint32{0, 1, 2}},
			{Indices: []uint32{0, 2, 3}},
		},
	}
}

func TestFormat(t *testing.T) {
	assert.True(t, FormatAsset.Supported())
	assert.True(t, FormatGLB.Supported())
	assert.False(t, Format("fbx").Supported())

	var f Format
	require.NoError(t, f.UnmarshalText([]byte(" GLB ")))
	assert.Equal(t, FormatGLB, f)

	_, err := FormatFromPath("mesh.obj")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestAssetRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mesh.asset")
	want := testMesh()

	require.NoError(t, Write(path, FormatAsset, want, WriteOptions{Material: "Foliage_atlased"}))

	got, err := Read(path, 0)
	require.NoError(t, err)
	assert.Equal(t, want.Name, got.Name)
	assert.Equal(t, want.Positions, got.Positions)
	assert.Equal(t, want.Tangents, got.Tangents)
	assert.Equal(t, want.UV2, got.UV2)
	assert.Equal(t, want.Submeshes, got.Submeshes)
}

func TestGLBRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mesh.glb")
	want := testMesh()

	require.NoError(t, Write(path, FormatGLB, want, WriteOptions{IndexFormat: mesh.IndexUInt16}))

	got, err := Read(path, 0)
	require.NoError(t, err)
	assert.Equal(t, 4, got.VertexCount(), "primitives share vertices")
	assert.Equal(t, want.Positions, got.Positions)
	assert.Equal(t, want.UV, got.UV)
	assert.Equal(t, want.UV2, got.UV2)
	require.Len(t, got.Submeshes, 2)
	assert.Equal(t, want.Submeshes[1].Indices, got.Submeshes[1].Indices)
}

func TestGLBSkipsEmptySubmeshes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mesh.glb")
	m := testMesh()
	m.Submeshes = []mesh.Submesh{{}, {Indices: []uint32{0, 1, 2}}, {}}

	require.NoError(t, Write(path, FormatGLB, m, WriteOptions{IndexFormat: mesh.IndexUInt32}))

	got, err := Read(path, 0)
	require.NoError(t, err)
	require.Len(t, got.Submeshes, 1)
	assert.Equal(t, []uint32{0, 1, 2}, got.Submeshes[0].Indices)
}

func TestWriteUnsupported(t *testing.T) {
	err := Write(filepath.Join(t.TempDir(), "mesh.fbx"), Format("fbx"), testMesh(), WriteOptions{})
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestReadGLTFMissingMesh(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mesh.glb")
	require.NoError(t, WriteGLB(path, testMesh(), WriteOptions{}))

	_, err := ReadGLTF(path, 3)
	assert.ErrorIs(t, err, ErrMeshIndex)
}
