// Package scene holds the object graph meshkit reads source meshes from and
// attaches combined meshes to. It is plain data: objects reference their
// parent by ID and nothing here renders.
package scene

import (
	"errors"
	"fmt"

	"github.com/Faultbox/meshkit/pkg/material"
	"github.com/Faultbox/meshkit/pkg/math"
	"github.com/Faultbox/meshkit/pkg/mesh"
)

// Scene errors.
var (
	ErrDuplicateID    = errors.New("duplicate object id")
	ErrObjectNotFound = errors.New("object not found")
	ErrParentCycle    = errors.New("parent cycle")
)

// Well-known tags.
const (
	TagUntagged   = "Untagged"
	TagEditorOnly = "EditorOnly"
)

// Transform is a local-to-world placement.
type Transform struct {
	Position math.Vec3
	Rotation math.Quat
	Scale    math.Vec3
}

// IdentityTransform places an object at the origin with no rotation and unit
// scale.
func IdentityTransform() Transform {
	return Transform{Rotation: math.QuatIdentity(), Scale: math.Vec3One}
}

// Matrix returns the local-to-world matrix.
func (t Transform) Matrix() math.Mat4 {
	return math.TRS(t.Position, t.Rotation, t.Scale)
}

// Up returns the world-space up direction.
func (t Transform) Up() math.Vec3 {
	return t.Rotation.Up()
}

// Degenerate reports whether the transform collapses an axis.
func (t Transform) Degenerate() bool {
	return t.Matrix().Determinant3() == 0
}

// Renderer draws an object's mesh with one material per submesh slot.
type Renderer struct {
	Enabled   bool
	Materials []*material.Material
	// PropertyBlock holds per-instance float overrides. Nil means the
	// renderer carries no block at all.
	PropertyBlock map[string]float32
}

// HasPropertyBlock reports whether per-instance overrides are present.
func (r *Renderer) HasPropertyBlock() bool {
	return r != nil && r.PropertyBlock != nil
}

// Float reads a per-instance float, zero when absent.
func (r *Renderer) Float(name string) float32 {
	if r == nil {
		return 0
	}
	return r.PropertyBlock[name]
}

// MeshSource records where an object's mesh was loaded from so the scene can
// be written back without embedding geometry.
type MeshSource struct {
	Path  string
	Index int
}

// LODLevel is one level-of-detail bucket on a LOD pivot.
type LODLevel struct {
	Height    float32
	Renderers []string // object IDs
}

// Object is a node in the scene.
type Object struct {
	ID        string
	Name      string
	Tag       string
	Parent    string
	Active    bool
	Static    bool
	Transform Transform
	Mesh      *mesh.Mesh
	Source    *MeshSource
	Renderer  *Renderer
	LODs      []LODLevel

	// CombineID marks objects produced by a combine run.
	CombineID string
}

// Scene is an ordered set of objects.
type Scene struct {
	objects []*Object
	byID    map[string]*Object
}

// New returns an empty scene.
func New() *Scene {
	return &Scene{byID: make(map[string]*Object)}
}

// Add inserts obj. IDs must be unique.
func (s *Scene) Add(obj *Object) error {
	if obj.ID == "" {
		return fmt.Errorf("%w: empty id for %q", ErrDuplicateID, obj.Name)
	}
	if _, ok := s.byID[obj.ID]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateID, obj.ID)
	}
	if obj.Tag == "" {
		obj.Tag = TagUntagged
	}
	s.objects = append(s.objects, obj)
	s.byID[obj.ID] = obj
	return nil
}

// Get returns the object with id, or nil.
func (s *Scene) Get(id string) *Object {
	return s.byID[id]
}

// Objects returns the objects in insertion order.
func (s *Scene) Objects() []*Object {
	return s.objects
}

// Remove deletes the object with id. Children are re-parented to the removed
// object's parent.
func (s *Scene) Remove(id string) error {
	obj, ok := s.byID[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrObjectNotFound, id)
	}
	for _, child := range s.Children(id) {
		child.Parent = obj.Parent
	}
	delete(s.byID, id)
	for i, o := range s.objects {
		if o == obj {
			s.objects = append(s.objects[:i], s.objects[i+1:]...)
			break
		}
	}
	return nil
}

// Children returns the direct children of id ("" for roots).
func (s *Scene) Children(id string) []*Object {
	var out []*Object
	for _, o := range s.objects {
		if o.Parent == id {
			out = append(out, o)
		}
	}
	return out
}

// FindChild returns the first child of parent called name.
func (s *Scene) FindChild(parent, name string) *Object {
	for _, o := range s.objects {
		if o.Parent == parent && o.Name == name {
			return o
		}
	}
	return nil
}

// SetParent moves obj under parent ("" for root).
func (s *Scene) SetParent(obj *Object, parent string) error {
	for p := parent; p != ""; {
		if p == obj.ID {
			return fmt.Errorf("%w: %s under %s", ErrParentCycle, obj.ID, parent)
		}
		po := s.byID[p]
		if po == nil {
			return fmt.Errorf("%w: parent %s", ErrObjectNotFound, parent)
		}
		p = po.Parent
	}
	obj.Parent = parent
	return nil
}

// UniqueID derives an unused ID from base.
func (s *Scene) UniqueID(base string) string {
	if _, ok := s.byID[base]; !ok {
		return base
	}
	for i := 1; ; i++ {
		id := fmt.Sprintf("%s.%d", base, i)
		if _, ok := s.byID[id]; !ok {
			return id
		}
	}
}
