package mesh

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/meshkit/pkg/math"
)

// quad returns a two-triangle quad split over two submeshes.
func quad() *Mesh {
	return &Mesh{
		Name: "quad",
		Positions: []math.Vec3{
			{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0},
		},
		Normals: []math.Vec3{
			{0, 0, 1}, {0, 0, 1}, {0, 0, 1}, {0, 0, 1},
		},
		UV: []math.Vec2{
			{0, 0}, {1, 0}, {1, 1}, {0, 1},
		},
		Submeshes: []Submesh{
			{Indices: []uint32{0, 1, 2}},
			{Indices: []uint32{0, 2, 3}},
		},
	}
}

func TestExtractCompactsVertices(t *testing.T) {
	m := quad()

	sub, err := m.Extract(1)
	require.NoError(t, err)

	assert.Equal(t, 3, sub.VertexCount())
	assert.Equal(t, []uint32{0, 1, 2}, sub.Submeshes[0].Indices)
	assert.Equal(t, []math.Vec3{{0, 0, 0}, {1, 1, 0}, {0, 1, 0}}, sub.Positions)
	assert.Equal(t, []math.Vec2{{0, 0}, {1, 1}, {0, 1}}, sub.UV)
	assert.Empty(t, sub.Tangents)
	require.NoError(t, sub.Validate())
}

func TestExtractDoesNotAliasSource(t *testing.T) {
	m := quad()
	m.Submeshes = []Submesh{{Indices: []uint32{0, 1, 2, 0, 2, 3}}}

	sub, err := m.Extract(0)
	require.NoError(t, err)
	sub.Positions[0] = math.Vec3{9, 9, 9}
	sub.UV[1] = math.Vec2{5, 5}

	assert.Equal(t, math.Vec3{0, 0, 0}, m.Positions[0])
	assert.Equal(t, math.Vec2{1, 0}, m.UV[1])
}

func TestExtractMissingSubmesh(t *testing.T) {
	_, err := quad().Extract(5)
	assert.ErrorIs(t, err, ErrNoSubmesh)
}

func TestAppendPadsMissingStreams(t *testing.T) {
	dst := &Mesh{}
	a, err := quad().Extract(0)
	require.NoError(t, err)
	b := &Mesh{
		Positions: []math.Vec3{{5, 5, 5}, {6, 5, 5}, {6, 6, 5}},
		Tangents:  []math.Vec4{{1, 0, 0, 1}, {1, 0, 0, 1}, {1, 0, 0, 1}},
		Submeshes: []Submesh{{Indices: []uint32{0, 1, 2}}},
	}

	dst.Append(a, 0)
	dst.Append(b, 1)

	require.NoError(t, dst.Validate())
	assert.Equal(t, 6, dst.VertexCount())
	assert.Len(t, dst.Normals, 6)
	assert.Len(t, dst.Tangents, 6)
	assert.Equal(t, math.Vec4{}, dst.Tangents[0])
	assert.Equal(t, math.Vec3{}, dst.Normals[5])
	require.Len(t, dst.Submeshes, 2)
	assert.Equal(t, []uint32{3, 4, 5}, dst.Submeshes[1].Indices)
}

func TestValidate(t *testing.T) {
	m := quad()
	require.NoError(t, m.Validate())

	m.UV = m.UV[:2]
	assert.ErrorIs(t, m.Validate(), ErrAttributeLength)

	m = quad()
	m.Submeshes[0].Indices = append(m.Submeshes[0].Indices, 12)
	assert.ErrorIs(t, m.Validate(), ErrIndexOutOfRange)
}

func TestBounds(t *testing.T) {
	b := quad().Bounds()
	assert.Equal(t, math.Vec3{0, 0, 0}, b.Min)
	assert.Equal(t, math.Vec3{1, 1, 0}, b.Max)
	assert.Equal(t, Bounds{}, (&Mesh{}).Bounds())
}
