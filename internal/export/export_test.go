package export

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/meshkit/internal/combine"
	"github.com/Faultbox/meshkit/internal/meshio"
	"github.com/Faultbox/meshkit/pkg/material"
	"github.com/Faultbox/meshkit/pkg/math"
	"github.com/Faultbox/meshkit/pkg/mesh"
)

func TestSavePath(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", "out/"},
		{"meshes", "meshes/"},
		{"meshes/", "meshes/"},
		{`meshes\`, `meshes\`},
	}
	for _, tt := range tests {
		if got := SavePath(tt.in); got != tt.want {
			t.Errorf("SavePath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestMeshPath(t *testing.T) {
	got := MeshPath("build", "msh_rock_combined", 2, meshio.FormatGLB)
	if got != "build/msh_rock_combined_2.glb" {
		t.Errorf("MeshPath = %q", got)
	}
}

func testResult() *combine.Result {
	m := &mesh.Mesh{
		Name:      "msh_rock_combined",
		Positions: []math.Vec3{{}, {X: 1}, {Y: 1}},
		Submeshes: []mesh.Submesh{{Indices: []uint32{0, 1, 2}}},
	}
	return &combine.Result{
		ID:     "run-1",
		Target: "rock",
		Outputs: []*combine.Output{
			{ID: "a", Name: "rock_combined", MeshName: m.Name, Index: 0, Mesh: m, Material: &material.Material{Name: "stone", Shader: "Lit"}},
			{ID: "b", Name: "rock_1_combined", MeshName: m.Name, Index: 1, Mesh: m.Clone(), Material: &material.Material{Name: "moss", Shader: "Lit"}},
		},
	}
}

func TestWriterWrite(t *testing.T) {
	for _, f := range []meshio.Format{meshio.FormatAsset, meshio.FormatGLB} {
		t.Run(string(f), func(t *testing.T) {
			dir := filepath.Join(t.TempDir(), "meshes")
			res := testResult()
			w := &Writer{Dir: dir, Format: f}
			require.NoError(t, w.Write(res))

			for _, out := range res.Outputs {
				require.Len(t, out.Files, 1)
				back, err := meshio.Read(out.Files[0], 0)
				require.NoError(t, err)
				assert.Equal(t, 3, back.VertexCount())
			}
			assert.NotEqual(t, res.Outputs[0].Files[0], res.Outputs[1].Files[0])
		})
	}
}

func TestWriterRejectsFormatBeforeWriting(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "meshes")
	w := &Writer{Dir: dir, Format: meshio.Format("fbx")}

	err := w.Write(testResult())
	var cfgErr *combine.ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "fbx", cfgErr.Value)

	_, statErr := os.Stat(dir)
	assert.True(t, os.IsNotExist(statErr))
}

func TestRemoveFiles(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "a.asset")
	require.NoError(t, os.WriteFile(p, []byte("x"), 0644))

	require.NoError(t, RemoveFiles([]string{p, filepath.Join(dir, "missing.asset")}))
	_, err := os.Stat(p)
	assert.True(t, os.IsNotExist(err))
}

func TestManifestRoundTrip(t *testing.T) {
	dir := t.TempDir()
	res := testResult()
	w := &Writer{Dir: filepath.Join(dir, "meshes"), Format: meshio.FormatAsset}
	require.NoError(t, w.Write(res))
	res.Outputs[0].Sources = []combine.SourceState{{Object: "r1", Name: "r1", Tag: "Untagged", Active: true, RendererEnabled: true, Owner: "a"}}

	path := filepath.Join(dir, "manifest.yaml")
	m, err := LoadManifest(path)
	require.NoError(t, err)
	assert.Empty(t, m.Runs)

	m.Add(NewRun(res, meshio.FormatAsset))
	require.NoError(t, m.Save(path))

	back, err := LoadManifest(path)
	require.NoError(t, err)
	back.Resolve(path)
	require.Len(t, back.Runs, 1)

	run := back.Runs[0]
	assert.Equal(t, "rock", run.Target)
	assert.Equal(t, meshio.FormatAsset, run.Format)
	require.Len(t, run.Outputs, 2)
	assert.Equal(t, "stone", run.Outputs[0].Material.Name)
	assert.Equal(t, res.Outputs[0].Sources, run.Outputs[0].Sources)
	assert.Equal(t, res.Outputs[1].Files, run.Outputs[1].Files)
	assert.Nil(t, run.Outputs[0].Mesh)
	assert.Len(t, run.Files(), 2)
}

func TestManifestFindAndRemove(t *testing.T) {
	m := &Manifest{}
	m.Add(&Run{ID: "1", Target: "rock"})
	m.Add(&Run{ID: "2", Target: "tree"})

	runs, err := m.Find("tree")
	require.NoError(t, err)
	assert.Equal(t, "2", runs[0].ID)

	all, err := m.Find("")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	m.Remove("1")
	_, err = m.Find("rock")
	assert.ErrorIs(t, err, ErrRunNotFound)
}
