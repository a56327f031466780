package combine

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/meshkit/pkg/math"
	"github.com/Faultbox/meshkit/pkg/mesh"
)

const lightmapPadding float32 = 0.01

// generateLightmapUVs writes a box-projected UV set into texcoord1 xy. Each
// vertex is projected along its dominant normal axis and lands in one of
// three horizontal bands (x, y, z). Existing zw values are kept.
func generateLightmapUVs(m *mesh.Mesh) error {
	n := m.VertexCount()
	if n == 0 {
		return nil
	}
	normals := vertexNormals(m)
	b := m.Bounds()
	size := b.Max.Sub(b.Min)

	uv := m.Channel(mesh.ChannelTexCoord1)
	for i, p := range m.Positions {
		d := p.Sub(b.Min)
		axis := dominantAxis(normals[i])

		var u, v float32
		switch axis {
		case 0:
			u, v = ratio(d.Z, size.Z), ratio(d.Y, size.Y)
		case 1:
			u, v = ratio(d.X, size.X), ratio(d.Z, size.Z)
		default:
			u, v = ratio(d.X, size.X), ratio(d.Y, size.Y)
		}

		span := 1 - 2*lightmapPadding
		uv[i].X = lightmapPadding + u*span
		uv[i].Y = (float32(axis) + lightmapPadding + v*span) / 3
	}
	return m.SetChannel(mesh.ChannelTexCoord1, uv)
}

// vertexNormals returns the mesh normals, or area-weighted face normals
// summed per vertex when the mesh has none.
func vertexNormals(m *mesh.Mesh) []math.Vec3 {
	if len(m.Normals) == m.VertexCount() {
		return m.Normals
	}
	out := make([]math.Vec3, m.VertexCount())
	for _, sub := range m.Submeshes {
		for t := 0; t+2 < len(sub.Indices); t += 3 {
			a, b, c := sub.Indices[t], sub.Indices[t+1], sub.Indices[t+2]
			pa, pb, pc := m.Positions[a], m.Positions[b], m.Positions[c]
			fn := pb.Sub(pa).Cross(pc.Sub(pa))
			out[a] = out[a].Add(fn)
			out[b] = out[b].Add(fn)
			out[c] = out[c].Add(fn)
		}
	}
	return out
}

func dominantAxis(n math.Vec3) int {
	x, y, z := math32.Abs(n.X), math32.Abs(n.Y), math32.Abs(n.Z)
	switch {
	case x >= y && x >= z:
		return 0
	case y >= z:
		return 1
	}
	return 2
}

func ratio(x, size float32) float32 {
	if size <= 0 {
		return 0
	}
	return x / size
}
