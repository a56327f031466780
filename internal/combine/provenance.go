package combine

import (
	"github.com/Faultbox/meshkit/internal/scene"
)

// SourceState is the state of a source object before it was combined.
type SourceState struct {
	Object          string `yaml:"object"`
	Name            string `yaml:"name"`
	Tag             string `yaml:"tag"`
	Parent          string `yaml:"parent,omitempty"`
	Active          bool   `yaml:"active"`
	RendererEnabled bool   `yaml:"renderer_enabled"`
	// Owner is the ID of the output allowed to restore the object.
	Owner string `yaml:"owner"`
}

func captureState(o *scene.Object, owner string) SourceState {
	st := SourceState{
		Object: o.ID,
		Name:   o.Name,
		Tag:    o.Tag,
		Parent: o.Parent,
		Active: o.Active,
		Owner:  owner,
	}
	if o.Renderer != nil {
		st.RendererEnabled = o.Renderer.Enabled
	}
	return st
}

// Split reverses out on s: nested combined objects are switched back on,
// sources owned by out get their recorded state back and the combined node is
// removed. Objects missing from the scene are skipped and a vanished parent
// puts the object at the root. Created files are not touched; out.Files
// lists them.
func Split(s *scene.Scene, out *Output) error {
	for _, id := range out.Nested {
		obj := s.Get(id)
		if obj == nil {
			continue
		}
		obj.Active = true
		obj.Tag = scene.TagUntagged
		if obj.Renderer != nil {
			obj.Renderer.Enabled = true
		}
	}

	for _, st := range out.Sources {
		if st.Owner != out.ID {
			continue
		}
		obj := s.Get(st.Object)
		if obj == nil {
			continue
		}
		obj.Tag = st.Tag
		obj.Name = st.Name
		parent := st.Parent
		if parent != "" && s.Get(parent) == nil {
			parent = ""
		}
		if err := s.SetParent(obj, parent); err != nil {
			return err
		}
		obj.Active = st.Active
		if obj.Renderer != nil {
			obj.Renderer.Enabled = st.RendererEnabled
		}
	}

	if out.Node != "" && s.Get(out.Node) != nil {
		return s.Detach(out.Node)
	}
	return nil
}
