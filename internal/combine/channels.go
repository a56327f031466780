package combine

import (
	"github.com/Faultbox/meshkit/pkg/math"
	"github.com/Faultbox/meshkit/pkg/mesh"
)

// Every packer reads the channel, edits only its own components and writes
// it back, so packers sharing a channel compose.

// packWorldPosition stores the object origin in xyz and the vertex's local
// height in w.
func packWorldPosition(m *mesh.Mesh, c mesh.VertexChannel, origin math.Vec3, localY []float32) error {
	data := m.Channel(c)
	for i := range data {
		data[i] = origin.Vec4(localY[i])
	}
	return m.SetChannel(c, data)
}

// packUpVector stores the object's up direction with w = 0.
func packUpVector(m *mesh.Mesh, c mesh.VertexChannel, up math.Vec3) error {
	data := m.Channel(c)
	for i := range data {
		data[i] = up.Vec4(0)
	}
	return m.SetChannel(c, data)
}

// packMaterialFlag sets w to 1 when the flag keyword is enabled, else 0.
func packMaterialFlag(m *mesh.Mesh, c mesh.VertexChannel, enabled bool) error {
	var w float32
	if enabled {
		w = 1
	}
	data := m.Channel(c)
	for i := range data {
		data[i].W = w
	}
	return m.SetChannel(c, data)
}

// packPairedEffect stores the veins intensity in z and one minus the
// breathing intensity in w. Without a property block z = 0 and w = 1.
func packPairedEffect(m *mesh.Mesh, c mesh.VertexChannel, a sourceAttributes) error {
	z, w := float32(0), float32(1)
	if a.hasBlock {
		z, w = a.veins, 1-a.breathing
	}
	data := m.Channel(c)
	for i := range data {
		data[i].Z = z
		data[i].W = w
	}
	return m.SetChannel(c, data)
}

// packChannels runs every configured packer on a baked batch in a fixed
// order: world position, up vector, material flag, paired effect.
func packChannels(b *batch, s *Settings, a sourceAttributes, flagEnabled bool) error {
	m := b.mesh
	if c := s.WorldPositionEncoding; c.Encodes() {
		if err := packWorldPosition(m, c, a.origin, b.localY); err != nil {
			return err
		}
	}
	if c := s.UpVectorEncoding; c.Encodes() {
		if err := packUpVector(m, c, a.up); err != nil {
			return err
		}
	}
	if c := s.MaterialFlagEncoding; c.Encodes() {
		if err := packMaterialFlag(m, c, flagEnabled); err != nil {
			return err
		}
	}
	if c := s.PairedEffectEncoding; c.Encodes() {
		if err := packPairedEffect(m, c, a); err != nil {
			return err
		}
	}
	return nil
}
