package scene

import (
	"fmt"
	"strings"
)

// AfterCombineAction is a set of edits applied to source objects once their
// meshes have been combined.
type AfterCombineAction uint8

const (
	RemoveObjects AfterCombineAction = 1 << iota
	GroupObjects
	RenameObjects
	DisableObjects
	DisableMeshRenderers
	StripObjectsOnBuild

	AfterCombineNone AfterCombineAction = 0
)

var actionNames = []struct {
	action AfterCombineAction
	name   string
}{
	{RemoveObjects, "remove"},
	{GroupObjects, "group"},
	{RenameObjects, "rename"},
	{DisableObjects, "disable"},
	{DisableMeshRenderers, "disable_renderers"},
	{StripObjectsOnBuild, "strip_on_build"},
}

// Has reports whether every flag in flag is set.
func (a AfterCombineAction) Has(flag AfterCombineAction) bool {
	return a&flag == flag
}

func (a AfterCombineAction) String() string {
	if a == AfterCombineNone {
		return "none"
	}
	var parts []string
	for _, n := range actionNames {
		if a.Has(n.action) {
			parts = append(parts, n.name)
		}
	}
	return strings.Join(parts, ",")
}

// ParseAfterCombineAction parses a comma or pipe separated list of action
// names.
func ParseAfterCombineAction(s string) (AfterCombineAction, error) {
	var out AfterCombineAction
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return r == ',' || r == '|' || r == ' '
	})
	for _, f := range fields {
		if f == "none" {
			continue
		}
		found := false
		for _, n := range actionNames {
			if n.name == f {
				out |= n.action
				found = true
				break
			}
		}
		if !found {
			return 0, fmt.Errorf("unknown after-combine action %q", f)
		}
	}
	return out, nil
}

// MarshalText implements encoding.TextMarshaler.
func (a AfterCombineAction) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *AfterCombineAction) UnmarshalText(text []byte) error {
	v, err := ParseAfterCombineAction(string(text))
	if err != nil {
		return err
	}
	*a = v
	return nil
}

// CombinedSet names the objects one combine run consumed.
type CombinedSet struct {
	Target string
	Parent string
	// Sources are the objects whose meshes were combined.
	Sources []string
	// Nested are previously combined objects that were combined again.
	Nested []string
}

// ApplyAfterCombine edits the consumed objects according to actions. Removal
// wins over every other action.
func (s *Scene) ApplyAfterCombine(actions AfterCombineAction, set CombinedSet) error {
	sources := s.lookup(set.Sources)
	nested := s.lookup(set.Nested)
	if len(sources) == 0 {
		return nil
	}

	if actions.Has(RemoveObjects) {
		for _, obj := range sources {
			if s.Get(obj.ID) != nil {
				s.RemoveTree(obj.ID)
			}
		}
		return nil
	}

	if actions.Has(GroupObjects) {
		group := &Object{
			ID:        s.UniqueID("combined-source." + set.Target),
			Name:      "[Combined Source] " + set.Target,
			Parent:    set.Parent,
			Active:    true,
			Transform: IdentityTransform(),
		}
		if err := s.Add(group); err != nil {
			return err
		}
		for _, obj := range sources {
			if err := s.SetParent(obj, group.ID); err != nil {
				return err
			}
		}
	}

	if actions.Has(RenameObjects) {
		for _, obj := range sources {
			obj.Name = "[Combined] " + obj.Name
		}
	}

	if actions.Has(DisableObjects) {
		for _, obj := range append(sources, nested...) {
			obj.Active = false
		}
	}

	if actions.Has(DisableMeshRenderers) {
		for _, obj := range append(sources, nested...) {
			if obj.Renderer != nil {
				obj.Renderer.Enabled = false
			}
		}
	}

	if actions.Has(StripObjectsOnBuild) {
		for _, obj := range append(sources, nested...) {
			obj.Tag = TagEditorOnly
		}
	}
	return nil
}

// RemoveTree deletes id and all of its descendants.
func (s *Scene) RemoveTree(id string) {
	for _, child := range s.Children(id) {
		s.RemoveTree(child.ID)
	}
	_ = s.Remove(id)
}

func (s *Scene) lookup(ids []string) []*Object {
	out := make([]*Object, 0, len(ids))
	for _, id := range ids {
		if obj := s.Get(id); obj != nil {
			out = append(out, obj)
		}
	}
	return out
}
