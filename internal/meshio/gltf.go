package meshio

import (
	"errors"
	"fmt"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/Faultbox/meshkit/pkg/math"
	"github.com/Faultbox/meshkit/pkg/mesh"
)

// ErrMeshIndex is returned when a glTF document has no mesh at the requested
// index.
var ErrMeshIndex = errors.New("glTF mesh index out of range")

// Custom attribute names for the float4 texcoord channels; core TEXCOORD_n
// attributes are two-component only.
var customUVAttributes = [...]string{"_TEXCOORD1", "_TEXCOORD2", "_TEXCOORD3"}

// WriteGLB stores m as a binary glTF document: one mesh, one primitive per
// non-empty submesh, all primitives sharing the vertex accessors. glTF has no
// zero-length accessors, so empty submeshes are left out.
func WriteGLB(path string, m *mesh.Mesh, opts WriteOptions) error {
	doc := gltf.NewDocument()
	doc.Asset.Generator = "meshkit"

	attrs := map[string]uint32{}
	if len(m.Positions) > 0 {
		attrs[gltf.POSITION] = uint32(modeler.WritePosition(doc, vec3s(m.Positions)))
	}
	if len(m.Normals) > 0 {
		attrs[gltf.NORMAL] = uint32(modeler.WriteNormal(doc, vec3s(m.Normals)))
	}
	if len(m.Tangents) > 0 {
		attrs[gltf.TANGENT] = uint32(modeler.WriteTangent(doc, vec4s(m.Tangents)))
	}
	if len(m.UV) > 0 {
		uv := make([][2]float32, len(m.UV))
		for i, v := range m.UV {
			uv[i] = [2]float32{v.X, v.Y}
		}
		attrs[gltf.TEXCOORD_0] = uint32(modeler.WriteTextureCoord(doc, uv))
	}
	if len(m.Colors) > 0 {
		attrs[gltf.COLOR_0] = uint32(modeler.WriteColor(doc, vec4s(m.Colors)))
	}
	for i, ch := range [][]math.Vec4{m.UV1, m.UV2, m.UV3} {
		if len(ch) > 0 {
			attrs[customUVAttributes[i]] = uint32(modeler.WriteAccessor(doc, gltf.TargetArrayBuffer, vec4s(ch)))
		}
	}

	doc.Materials = []*gltf.Material{{Name: opts.Material}}

	gm := &gltf.Mesh{Name: m.Name}
	for _, sm := range m.Submeshes {
		if len(sm.Indices) == 0 {
			continue
		}
		var indices any = sm.Indices
		if opts.IndexFormat == mesh.IndexUInt16 {
			indices = sm.Indices16()
		}
		gm.Primitives = append(gm.Primitives, &gltf.Primitive{
			Attributes: attrs,
			Indices:    gltf.Index(uint32(modeler.WriteIndices(doc, indices))),
			Material:   gltf.Index(0),
		})
	}
	doc.Meshes = []*gltf.Mesh{gm}
	doc.Nodes = []*gltf.Node{{Name: m.Name, Mesh: gltf.Index(0)}}
	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, uint32(0))

	return gltf.SaveBinary(doc, path)
}

// ReadGLTF loads mesh index of a .gltf or .glb file. Each primitive becomes a
// submesh; primitives sharing a POSITION accessor share vertices.
func ReadGLTF(path string, index int) (*mesh.Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(doc.Meshes) {
		return nil, fmt.Errorf("%w: %d of %d in %s", ErrMeshIndex, index, len(doc.Meshes), path)
	}
	gm := doc.Meshes[index]

	out := &mesh.Mesh{Name: gm.Name}
	bases := make(map[uint32]uint32)
	for pi, prim := range gm.Primitives {
		posIdx, ok := prim.Attributes[gltf.POSITION]
		if !ok {
			return nil, fmt.Errorf("%s: primitive %d has no POSITION", path, pi)
		}

		base, shared := bases[posIdx]
		var count uint32
		if !shared {
			part, err := readPrimitiveVertices(doc, prim)
			if err != nil {
				return nil, fmt.Errorf("%s: primitive %d: %w", path, pi, err)
			}
			base = uint32(out.VertexCount())
			bases[posIdx] = base
			count = uint32(part.VertexCount())
			out.Append(part, 0)
		} else {
			count = doc.Accessors[posIdx].Count
		}

		var indices []uint32
		if prim.Indices != nil {
			indices, err = modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
			if err != nil {
				return nil, fmt.Errorf("%s: primitive %d indices: %w", path, pi, err)
			}
		} else {
			indices = make([]uint32, count)
			for i := range indices {
				indices[i] = uint32(i)
			}
		}
		for i := range indices {
			indices[i] += base
		}
		out.Submeshes = append(out.Submeshes, mesh.Submesh{Indices: indices})
	}

	if err := out.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return out, nil
}

// readPrimitiveVertices reads the vertex streams of prim into a mesh without
// submeshes; the caller appends it and adds the primitive's indices.
func readPrimitiveVertices(doc *gltf.Document, prim *gltf.Primitive) (*mesh.Mesh, error) {
	part := &mesh.Mesh{}

	pos, err := modeler.ReadPosition(doc, doc.Accessors[prim.Attributes[gltf.POSITION]], nil)
	if err != nil {
		return nil, err
	}
	part.Positions = fromVec3s(pos)

	if idx, ok := prim.Attributes[gltf.NORMAL]; ok {
		n, err := modeler.ReadNormal(doc, doc.Accessors[idx], nil)
		if err != nil {
			return nil, err
		}
		part.Normals = fromVec3s(n)
	}
	if idx, ok := prim.Attributes[gltf.TANGENT]; ok {
		tg, err := modeler.ReadTangent(doc, doc.Accessors[idx], nil)
		if err != nil {
			return nil, err
		}
		part.Tangents = fromVec4s(tg)
	}
	if idx, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
		uv, err := modeler.ReadTextureCoord(doc, doc.Accessors[idx], nil)
		if err != nil {
			return nil, err
		}
		part.UV = make([]math.Vec2, len(uv))
		for i, v := range uv {
			part.UV[i] = math.Vec2{X: v[0], Y: v[1]}
		}
	}
	if idx, ok := prim.Attributes[gltf.COLOR_0]; ok {
		c, err := modeler.ReadColor(doc, doc.Accessors[idx], nil)
		if err != nil {
			return nil, err
		}
		part.Colors = make([]math.Vec4, len(c))
		for i, v := range c {
			part.Colors[i] = math.Vec4{X: float32(v[0]) / 255, Y: float32(v[1]) / 255, Z: float32(v[2]) / 255, W: float32(v[3]) / 255}
		}
	}
	for i, name := range customUVAttributes {
		idx, ok := prim.Attributes[name]
		if !ok {
			continue
		}
		data, err := modeler.ReadAccessor(doc, doc.Accessors[idx], nil)
		if err != nil {
			return nil, err
		}
		v4, ok := data.([][4]float32)
		if !ok {
			return nil, fmt.Errorf("attribute %s is %T, want VEC4 float", name, data)
		}
		ch := fromVec4s(v4)
		switch i {
		case 0:
			part.UV1 = ch
		case 1:
			part.UV2 = ch
		case 2:
			part.UV3 = ch
		}
	}
	return part, nil
}

func vec3s(in []math.Vec3) [][3]float32 {
	out := make([][3]float32, len(in))
	for i, v := range in {
		out[i] = v.Array()
	}
	return out
}

func vec4s(in []math.Vec4) [][4]float32 {
	out := make([][4]float32, len(in))
	for i, v := range in {
		out[i] = v.Array()
	}
	return out
}

func fromVec3s(in [][3]float32) []math.Vec3 {
	out := make([]math.Vec3, len(in))
	for i, v := range in {
		out[i] = math.Vec3{X: v[0], Y: v[1], Z: v[2]}
	}
	return out
}

func fromVec4s(in [][4]float32) []math.Vec4 {
	out := make([]math.Vec4, len(in))
	for i, v := range in {
		out[i] = math.Vec4{X: v[0], Y: v[1], Z: v[2], W: v[3]}
	}
	return out
}
