package scene

import "fmt"

// Attach inserts nodes under parent. Node IDs are made unique against the
// scene and written back to each node.
func (s *Scene) Attach(parent string, nodes ...*Object) error {
	if parent != "" && s.Get(parent) == nil {
		return fmt.Errorf("%w: parent %s", ErrObjectNotFound, parent)
	}
	for _, n := range nodes {
		n.ID = s.UniqueID(n.ID)
		n.Parent = parent
		if err := s.Add(n); err != nil {
			return err
		}
	}
	return nil
}

// LODPivot returns the LodPivot child of parent, creating it at the parent's
// origin when missing.
func (s *Scene) LODPivot(parent string) (*Object, error) {
	if pivot := s.FindChild(parent, LODPivotName); pivot != nil {
		return pivot, nil
	}
	base := LODPivotName
	if parent != "" {
		base = parent + "." + LODPivotName
	}
	pivot := &Object{
		ID:        s.UniqueID(base),
		Name:      LODPivotName,
		Parent:    parent,
		Active:    true,
		Transform: IdentityTransform(),
	}
	if err := s.Attach(parent, pivot); err != nil {
		return nil, err
	}
	return pivot, nil
}

// Detach removes a combined node and drops it from any LOD pivot.
func (s *Scene) Detach(id string) error {
	if s.Get(id) == nil {
		return fmt.Errorf("%w: %s", ErrObjectNotFound, id)
	}
	for _, obj := range s.objects {
		for i := range obj.LODs {
			lod := &obj.LODs[i]
			for j, r := range lod.Renderers {
				if r == id {
					lod.Renderers = append(lod.Renderers[:j], lod.Renderers[j+1:]...)
					break
				}
			}
		}
	}
	s.RemoveTree(id)
	return nil
}
