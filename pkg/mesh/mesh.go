// Package mesh provides the geometry container the combine pipeline reads
// from and writes to: per-vertex attribute streams plus submesh index lists.
package mesh

import (
	"errors"
	"fmt"

	"github.com/jinzhu/copier"

	"github.com/Faultbox/meshkit/pkg/math"
)

// Mesh errors.
var (
	ErrAttributeLength = errors.New("vertex attribute length mismatch")
	ErrIndexOutOfRange = errors.New("index out of range")
	ErrNoSubmesh       = errors.New("submesh does not exist")
)

// Submesh is a contiguous index range rendered with one material slot.
type Submesh struct {
	Indices []uint32 `yaml:"indices" codec:"indices"`
}

// Mesh holds vertex streams and triangle lists. Attribute slices are either
// empty or exactly VertexCount() long.
type Mesh struct {
	Name      string      `yaml:"name" codec:"name"`
	Positions []math.Vec3 `yaml:"positions" codec:"positions"`
	Normals   []math.Vec3 `yaml:"normals,omitempty" codec:"normals,omitempty"`
	Tangents  []math.Vec4 `yaml:"tangents,omitempty" codec:"tangents,omitempty"`
	Colors    []math.Vec4 `yaml:"colors,omitempty" codec:"colors,omitempty"`
	UV        []math.Vec2 `yaml:"uv,omitempty" codec:"uv,omitempty"`
	UV1       []math.Vec4 `yaml:"uv1,omitempty" codec:"uv1,omitempty"`
	UV2       []math.Vec4 `yaml:"uv2,omitempty" codec:"uv2,omitempty"`
	UV3       []math.Vec4 `yaml:"uv3,omitempty" codec:"uv3,omitempty"`
	Submeshes []Submesh   `yaml:"submeshes" codec:"submeshes"`
}

// Bounds holds an axis-aligned bounding box.
type Bounds struct {
	Min math.Vec3
	Max math.Vec3
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Positions)
}

// IndexCount returns the number of indices across all submeshes.
func (m *Mesh) IndexCount() int {
	n := 0
	for _, s := range m.Submeshes {
		n += len(s.Indices)
	}
	return n
}

// IsEmpty returns true if the mesh has no vertices.
func (m *Mesh) IsEmpty() bool {
	return len(m.Positions) == 0
}

// Validate checks attribute lengths and index ranges.
func (m *Mesh) Validate() error {
	n := m.VertexCount()
	check := func(name string, l int) error {
		if l != 0 && l != n {
			return fmt.Errorf("%w: %s has %d entries, mesh %q has %d vertices", ErrAttributeLength, name, l, m.Name, n)
		}
		return nil
	}
	for _, err := range []error{
		check("normals", len(m.Normals)),
		check("tangents", len(m.Tangents)),
		check("colors", len(m.Colors)),
		check("uv", len(m.UV)),
		check("uv1", len(m.UV1)),
		check("uv2", len(m.UV2)),
		check("uv3", len(m.UV3)),
	} {
		if err != nil {
			return err
		}
	}
	for si, s := range m.Submeshes {
		for _, idx := range s.Indices {
			if int(idx) >= n {
				return fmt.Errorf("%w: submesh %d of %q references vertex %d of %d", ErrIndexOutOfRange, si, m.Name, idx, n)
			}
		}
	}
	return nil
}

// Clone returns a deep copy that shares no buffers with m.
func (m *Mesh) Clone() *Mesh {
	dst := &Mesh{}
	if err := copier.CopyWithOption(dst, m, copier.Option{DeepCopy: true}); err != nil {
		// copier only fails on mismatched kinds, which cannot happen for
		// identical types.
		panic(fmt.Sprintf("mesh: clone %q: %v", m.Name, err))
	}
	return dst
}

// Extract returns a standalone working copy of one submesh: only vertices the
// submesh references are kept, in first-use order, and indices are rewritten
// accordingly. The result has a single submesh. A single-submesh mesh that
// uses every vertex is cloned unchanged.
func (m *Mesh) Extract(submesh int) (*Mesh, error) {
	if submesh < 0 || submesh >= len(m.Submeshes) {
		return nil, fmt.Errorf("%w: %d of %d in %q", ErrNoSubmesh, submesh, len(m.Submeshes), m.Name)
	}
	src := m.Submeshes[submesh].Indices

	if len(m.Submeshes) == 1 && referencesAll(src, m.VertexCount()) {
		return m.Clone(), nil
	}

	remap := make(map[uint32]uint32, len(src))
	order := make([]uint32, 0, len(src))
	indices := make([]uint32, len(src))
	for i, idx := range src {
		if int(idx) >= m.VertexCount() {
			return nil, fmt.Errorf("%w: submesh %d of %q references vertex %d", ErrIndexOutOfRange, submesh, m.Name, idx)
		}
		next, ok := remap[idx]
		if !ok {
			next = uint32(len(order))
			remap[idx] = next
			order = append(order, idx)
		}
		indices[i] = next
	}

	out := &Mesh{
		Name:      m.Name,
		Positions: gather(m.Positions, order),
		Normals:   gather(m.Normals, order),
		Tangents:  gather(m.Tangents, order),
		Colors:    gather(m.Colors, order),
		UV:        gather(m.UV, order),
		UV1:       gather(m.UV1, order),
		UV2:       gather(m.UV2, order),
		UV3:       gather(m.UV3, order),
		Submeshes: []Submesh{{Indices: indices}},
	}
	return out, nil
}

// Append concatenates other onto m. Other's submesh i is appended to m's
// submesh slot+i, growing the submesh list as needed. Attribute streams
// present on only one side are zero-padded so every stream stays aligned.
func (m *Mesh) Append(other *Mesh, slot int) {
	base := uint32(m.VertexCount())
	n, k := m.VertexCount(), other.VertexCount()

	m.Normals = appendAligned(m.Normals, n, other.Normals, k)
	m.Tangents = appendAligned(m.Tangents, n, other.Tangents, k)
	m.Colors = appendAligned(m.Colors, n, other.Colors, k)
	m.UV = appendAligned(m.UV, n, other.UV, k)
	m.UV1 = appendAligned(m.UV1, n, other.UV1, k)
	m.UV2 = appendAligned(m.UV2, n, other.UV2, k)
	m.UV3 = appendAligned(m.UV3, n, other.UV3, k)
	m.Positions = append(m.Positions, other.Positions...)

	for i, s := range other.Submeshes {
		target := slot + i
		for len(m.Submeshes) <= target {
			m.Submeshes = append(m.Submeshes, Submesh{})
		}
		dst := m.Submeshes[target].Indices
		for _, idx := range s.Indices {
			dst = append(dst, idx+base)
		}
		m.Submeshes[target].Indices = dst
	}
}

// Bounds returns the axis-aligned bounding box of all positions.
func (m *Mesh) Bounds() Bounds {
	if len(m.Positions) == 0 {
		return Bounds{}
	}
	b := Bounds{Min: m.Positions[0], Max: m.Positions[0]}
	for _, p := range m.Positions[1:] {
		b.Min = b.Min.Min(p)
		b.Max = b.Max.Max(p)
	}
	return b
}

func referencesAll(indices []uint32, count int) bool {
	seen := make([]bool, count)
	hit := 0
	for _, idx := range indices {
		if int(idx) >= count {
			return false
		}
		if !seen[idx] {
			seen[idx] = true
			hit++
		}
	}
	return hit == count
}

func gather[T any](src []T, order []uint32) []T {
	if len(src) == 0 {
		return nil
	}
	out := make([]T, len(order))
	for i, idx := range order {
		out[i] = src[idx]
	}
	return out
}

func appendAligned[T any](dst []T, dstCount int, src []T, srcCount int) []T {
	if len(dst) == 0 && len(src) == 0 {
		return dst
	}
	if len(dst) < dstCount {
		dst = append(dst, make([]T, dstCount-len(dst))...)
	}
	if len(src) == 0 {
		return append(dst, make([]T, srcCount)...)
	}
	return append(dst, src...)
}
