package scene

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/Faultbox/meshkit/internal/meshio"
	"github.com/Faultbox/meshkit/pkg/material"
	"github.com/Faultbox/meshkit/pkg/math"
	"github.com/Faultbox/meshkit/pkg/mesh"
)

// File is the YAML scene description.
type File struct {
	Name      string               `yaml:"name,omitempty"`
	Atlas     string               `yaml:"atlas,omitempty"`
	Materials []*material.Material `yaml:"materials,omitempty"`
	Objects   []ObjectFile         `yaml:"objects"`
}

// ObjectFile describes one object. Rotation is given either as Euler degrees
// or as a quaternion; the quaternion wins when both are present.
type ObjectFile struct {
	ID        string        `yaml:"id,omitempty"`
	Name      string        `yaml:"name"`
	Tag       string        `yaml:"tag,omitempty"`
	Parent    string        `yaml:"parent,omitempty"`
	Active    *bool         `yaml:"active,omitempty"`
	Static    bool          `yaml:"static,omitempty"`
	CombineID string        `yaml:"combine_id,omitempty"`
	Transform TransformFile `yaml:"transform,omitempty"`
	Mesh      *MeshFile     `yaml:"mesh,omitempty"`
	Inline    *mesh.Mesh    `yaml:"inline_mesh,omitempty"`
	Renderer  *RendererFile `yaml:"renderer,omitempty"`
	LODs      []LODFile     `yaml:"lods,omitempty"`
}

// TransformFile is the serialised Transform.
type TransformFile struct {
	Position     [3]float32  `yaml:"position,flow"`
	Rotation     [3]float32  `yaml:"rotation,flow,omitempty"`
	RotationQuat *[4]float32 `yaml:"rotation_quat,flow,omitempty"`
	Scale        *[3]float32 `yaml:"scale,flow,omitempty"`
}

// MeshFile points at a mesh on disk.
type MeshFile struct {
	Path  string `yaml:"path"`
	Index int    `yaml:"index,omitempty"`
}

// RendererFile is the serialised Renderer. Materials are referenced by name.
type RendererFile struct {
	Enabled       *bool              `yaml:"enabled,omitempty"`
	Materials     []string           `yaml:"materials"`
	PropertyBlock map[string]float32 `yaml:"property_block,omitempty"`
}

// LODFile is the serialised LODLevel.
type LODFile struct {
	Height    float32  `yaml:"height"`
	Renderers []string `yaml:"renderers,flow"`
}

// Load reads a scene description. Relative mesh and atlas paths are resolved
// against the file's directory.
func Load(path string) (*Scene, *File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, nil, fmt.Errorf("parsing scene %s: %w", path, err)
	}
	dir := filepath.Dir(path)
	if f.Atlas != "" && !filepath.IsAbs(f.Atlas) {
		f.Atlas = filepath.Join(dir, f.Atlas)
	}
	s, err := f.Build(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("scene %s: %w", path, err)
	}
	return s, &f, nil
}

// Build turns the description into a Scene, loading referenced meshes.
func (f *File) Build(dir string) (*Scene, error) {
	mats := make(map[string]*material.Material, len(f.Materials))
	for _, m := range f.Materials {
		mats[m.Name] = m
	}

	type meshKey struct {
		path  string
		index int
	}
	cache := make(map[meshKey]*mesh.Mesh)

	s := New()
	for i, of := range f.Objects {
		obj := &Object{
			ID:        of.ID,
			Name:      of.Name,
			Tag:       of.Tag,
			Parent:    of.Parent,
			Active:    of.Active == nil || *of.Active,
			Static:    of.Static,
			CombineID: of.CombineID,
			Transform: of.Transform.toTransform(),
		}
		if obj.ID == "" {
			obj.ID = of.Name
		}

		switch {
		case of.Inline != nil:
			if err := of.Inline.Validate(); err != nil {
				return nil, fmt.Errorf("object %d (%s): %w", i, obj.ID, err)
			}
			obj.Mesh = of.Inline
		case of.Mesh != nil:
			p := of.Mesh.Path
			if !filepath.IsAbs(p) {
				p = filepath.Join(dir, p)
			}
			key := meshKey{p, of.Mesh.Index}
			m, ok := cache[key]
			if !ok {
				var err error
				m, err = meshio.Read(p, of.Mesh.Index)
				if err != nil {
					return nil, fmt.Errorf("object %d (%s): %w", i, obj.ID, err)
				}
				cache[key] = m
			}
			obj.Mesh = m
			obj.Source = &MeshSource{Path: p, Index: of.Mesh.Index}
		}

		if of.Renderer != nil {
			r := &Renderer{
				Enabled:       of.Renderer.Enabled == nil || *of.Renderer.Enabled,
				PropertyBlock: of.Renderer.PropertyBlock,
			}
			for _, name := range of.Renderer.Materials {
				m, ok := mats[name]
				if !ok {
					return nil, fmt.Errorf("object %d (%s): unknown material %q", i, obj.ID, name)
				}
				r.Materials = append(r.Materials, m)
			}
			obj.Renderer = r
		}

		for _, l := range of.LODs {
			obj.LODs = append(obj.LODs, LODLevel{Height: l.Height, Renderers: l.Renderers})
		}

		if err := s.Add(obj); err != nil {
			return nil, fmt.Errorf("object %d: %w", i, err)
		}
	}

	for _, obj := range s.objects {
		if obj.Parent != "" && s.Get(obj.Parent) == nil {
			return nil, fmt.Errorf("object %s: %w: parent %s", obj.ID, ErrObjectNotFound, obj.Parent)
		}
	}
	return s, nil
}

func (t TransformFile) toTransform() Transform {
	out := IdentityTransform()
	out.Position = math.Vec3{X: t.Position[0], Y: t.Position[1], Z: t.Position[2]}
	if t.RotationQuat != nil {
		q := t.RotationQuat
		out.Rotation = math.Quat{X: q[0], Y: q[1], Z: q[2], W: q[3]}.Normalize()
	} else {
		out.Rotation = math.QuatFromEuler(math.Vec3{X: t.Rotation[0], Y: t.Rotation[1], Z: t.Rotation[2]})
	}
	if t.Scale != nil {
		out.Scale = math.Vec3{X: t.Scale[0], Y: t.Scale[1], Z: t.Scale[2]}
	}
	return out
}
