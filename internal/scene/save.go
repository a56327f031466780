package scene

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/Faultbox/meshkit/pkg/material"
)

// Describe converts the scene back into its file form. Mesh paths are made
// relative to dir where possible; meshes without a source are inlined.
func (s *Scene) Describe(dir string) *File {
	f := &File{}
	seen := make(map[string]bool)
	addMaterial := func(m *material.Material) {
		if m == nil || seen[m.Name] {
			return
		}
		seen[m.Name] = true
		f.Materials = append(f.Materials, m)
	}

	for _, obj := range s.objects {
		active := obj.Active
		of := ObjectFile{
			ID:        obj.ID,
			Name:      obj.Name,
			Tag:       obj.Tag,
			Parent:    obj.Parent,
			Active:    &active,
			Static:    obj.Static,
			CombineID: obj.CombineID,
		}

		t := obj.Transform
		q := [4]float32{t.Rotation.X, t.Rotation.Y, t.Rotation.Z, t.Rotation.W}
		sc := t.Scale.Array()
		of.Transform = TransformFile{Position: t.Position.Array(), RotationQuat: &q, Scale: &sc}

		switch {
		case obj.Source != nil:
			p := obj.Source.Path
			if rel, err := filepath.Rel(dir, p); err == nil {
				p = rel
			}
			of.Mesh = &MeshFile{Path: p, Index: obj.Source.Index}
		case obj.Mesh != nil:
			of.Inline = obj.Mesh
		}

		if r := obj.Renderer; r != nil {
			enabled := r.Enabled
			rf := &RendererFile{Enabled: &enabled, PropertyBlock: r.PropertyBlock}
			for _, m := range r.Materials {
				addMaterial(m)
				if m != nil {
					rf.Materials = append(rf.Materials, m.Name)
				}
			}
			of.Renderer = rf
		}

		for _, l := range obj.LODs {
			of.LODs = append(of.LODs, LODFile{Height: l.Height, Renderers: l.Renderers})
		}
		f.Objects = append(f.Objects, of)
	}
	return f
}

// Save writes the scene description to path.
func (s *Scene) Save(path string, name, atlasPath string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	f := s.Describe(dir)
	f.Name = name
	if atlasPath != "" {
		if rel, err := filepath.Rel(dir, atlasPath); err == nil {
			atlasPath = rel
		}
		f.Atlas = atlasPath
	}

	data, err := yaml.Marshal(f)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
