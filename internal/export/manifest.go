package export

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Faultbox/meshkit/internal/combine"
	"github.com/Faultbox/meshkit/internal/meshio"
	"github.com/Faultbox/meshkit/internal/scene"
)

// ManifestVersion is the current manifest layout.
const ManifestVersion = 1

// ErrRunNotFound is returned when a manifest has no matching run.
var ErrRunNotFound = errors.New("combine run not found")

// Manifest records every combine run applied to a scene.
type Manifest struct {
	Version int    `yaml:"version"`
	Runs    []*Run `yaml:"runs"`
}

// Run is the reversible record of one combine.
type Run struct {
	ID       string            `yaml:"id"`
	Target   string            `yaml:"target"`
	Parent   string            `yaml:"parent,omitempty"`
	Created  time.Time         `yaml:"created"`
	Format   meshio.Format     `yaml:"format"`
	Outputs  []*combine.Output `yaml:"outputs"`
	Nested   []string          `yaml:"nested,omitempty"`
	LODPivot string            `yaml:"lod_pivot,omitempty"`
	LODs     []scene.LODLevel  `yaml:"lods,omitempty"`
}

// NewRun builds the record for res.
func NewRun(res *combine.Result, format meshio.Format) *Run {
	return &Run{
		ID:      res.ID,
		Target:  res.Target,
		Parent:  res.Parent,
		Created: time.Now().UTC(),
		Format:  format,
		Outputs: res.Outputs,
		Nested:  res.Nested,
		LODs:    res.LODs,
	}
}

// LoadManifest reads path. A missing file yields an empty manifest.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &Manifest{Version: ManifestVersion}, nil
	}
	if err != nil {
		return nil, err
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest %s: %w", path, err)
	}
	if m.Version > ManifestVersion {
		return nil, fmt.Errorf("manifest %s: version %d is newer than %d", path, m.Version, ManifestVersion)
	}
	return &m, nil
}

// Save writes the manifest. File paths are stored relative to the manifest.
func (m *Manifest) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	m.Version = ManifestVersion

	out := *m
	out.Runs = make([]*Run, len(m.Runs))
	for i, r := range m.Runs {
		out.Runs[i] = r.withFiles(func(f string) string { return relTo(dir, f) })
	}

	data, err := yaml.Marshal(&out)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Resolve rebases file paths stored relative to the manifest at path.
func (m *Manifest) Resolve(path string) {
	dir := filepath.Dir(path)
	for i, r := range m.Runs {
		m.Runs[i] = r.withFiles(func(f string) string {
			if filepath.IsAbs(f) {
				return f
			}
			return filepath.Join(dir, f)
		})
	}
}

// Add appends run.
func (m *Manifest) Add(run *Run) {
	m.Runs = append(m.Runs, run)
}

// Find returns runs whose ID or target equals key. An empty key matches
// every run.
func (m *Manifest) Find(key string) ([]*Run, error) {
	var out []*Run
	for _, r := range m.Runs {
		if key == "" || r.ID == key || r.Target == key {
			out = append(out, r)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrRunNotFound, key)
	}
	return out, nil
}

// Remove drops the run with id.
func (m *Manifest) Remove(id string) {
	for i, r := range m.Runs {
		if r.ID == id {
			m.Runs = append(m.Runs[:i], m.Runs[i+1:]...)
			return
		}
	}
}

// Files lists every file the run created.
func (r *Run) Files() []string {
	var out []string
	for _, o := range r.Outputs {
		out = append(out, o.Files...)
	}
	return out
}

// withFiles returns a copy of r whose output file paths went through fn.
func (r *Run) withFiles(fn func(string) string) *Run {
	cp := *r
	cp.Outputs = make([]*combine.Output, len(r.Outputs))
	for i, o := range r.Outputs {
		oc := *o
		oc.Files = make([]string, len(o.Files))
		for j, f := range o.Files {
			oc.Files[j] = fn(f)
		}
		cp.Outputs[i] = &oc
	}
	return &cp
}
