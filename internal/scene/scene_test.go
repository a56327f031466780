package scene

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newObj(id, parent string) *Object {
	return &Object{ID: id, Name: id, Parent: parent, Active: true, Transform: IdentityTransform()}
}

func TestAddRejectsDuplicates(t *testing.T) {
	s := New()
	require.NoError(t, s.Add(newObj("a", "")))
	err := s.Add(newObj("a", ""))
	if !errors.Is(err, ErrDuplicateID) {
		t.Errorf("Add duplicate: got %v, want ErrDuplicateID", err)
	}
	assert.Equal(t, TagUntagged, s.Get("a").Tag)
}

func TestRemoveReparentsChildren(t *testing.T) {
	s := New()
	require.NoError(t, s.Add(newObj("root", "")))
	require.NoError(t, s.Add(newObj("mid", "root")))
	require.NoError(t, s.Add(newObj("leaf", "mid")))

	require.NoError(t, s.Remove("mid"))
	assert.Nil(t, s.Get("mid"))
	assert.Equal(t, "root", s.Get("leaf").Parent)
	assert.Len(t, s.Objects(), 2)
}

func TestRemoveTree(t *testing.T) {
	s := New()
	require.NoError(t, s.Add(newObj("root", "")))
	require.NoError(t, s.Add(newObj("mid", "root")))
	require.NoError(t, s.Add(newObj("leaf", "mid")))

	s.RemoveTree("mid")
	assert.Nil(t, s.Get("leaf"))
	assert.NotNil(t, s.Get("root"))
}

func TestSetParentCycle(t *testing.T) {
	s := New()
	require.NoError(t, s.Add(newObj("a", "")))
	require.NoError(t, s.Add(newObj("b", "a")))

	err := s.SetParent(s.Get("a"), "b")
	if !errors.Is(err, ErrParentCycle) {
		t.Errorf("SetParent: got %v, want ErrParentCycle", err)
	}
}

func TestUniqueID(t *testing.T) {
	s := New()
	assert.Equal(t, "x", s.UniqueID("x"))
	require.NoError(t, s.Add(newObj("x", "")))
	assert.Equal(t, "x.1", s.UniqueID("x"))
}

func TestAssignLOD(t *testing.T) {
	var lods []LODLevel
	lods = AssignLOD(lods, 0, "a")
	lods = AssignLOD(lods, 1, "b")
	lods = AssignLOD(lods, 2, "c")
	lods = AssignLOD(lods, 2, "c")

	require.Len(t, lods, 3)
	want := []float32{0.75, 0.5, 0.25}
	for i, h := range want {
		assert.InDelta(t, h, lods[i].Height, 1e-6, "level %d", i)
	}
	assert.Equal(t, []string{"c"}, lods[2].Renderers)
}

func TestAssignLODSkipsLevels(t *testing.T) {
	lods := AssignLOD(nil, 1, "b")
	require.Len(t, lods, 2)
	assert.Empty(t, lods[0].Renderers)
	assert.InDelta(t, 2.0/3.0, lods[0].Height, 1e-6)
}

func TestLODPivotReused(t *testing.T) {
	s := New()
	require.NoError(t, s.Add(newObj("parent", "")))

	p1, err := s.LODPivot("parent")
	require.NoError(t, err)
	p2, err := s.LODPivot("parent")
	require.NoError(t, err)
	assert.Same(t, p1, p2)
	assert.Equal(t, LODPivotName, p1.Name)
}

func TestDetachDropsLODReference(t *testing.T) {
	s := New()
	require.NoError(t, s.Attach("", newObj("node", "")))
	pivot, err := s.LODPivot("")
	require.NoError(t, err)
	pivot.LODs = AssignLOD(pivot.LODs, 0, "node")

	require.NoError(t, s.Detach("node"))
	assert.Nil(t, s.Get("node"))
	assert.Empty(t, pivot.LODs[0].Renderers)
}
