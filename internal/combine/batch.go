package combine

import (
	"github.com/Faultbox/meshkit/internal/scene"
	"github.com/Faultbox/meshkit/pkg/math"
	"github.com/Faultbox/meshkit/pkg/mesh"
)

// sourceAttributes are the per-object values the packers need.
type sourceAttributes struct {
	origin    math.Vec3
	up        math.Vec3
	hasBlock  bool
	veins     float32
	breathing float32
}

func resolveAttributes(obj *scene.Object, props *PropertyTable) sourceAttributes {
	a := sourceAttributes{
		origin: obj.Transform.Position,
		up:     obj.Transform.Up(),
	}
	if obj.Renderer.HasPropertyBlock() {
		a.hasBlock = true
		a.veins = obj.Renderer.Float(props.VeinsIntensity)
		a.breathing = obj.Renderer.Float(props.BreathingIntensity)
	}
	return a
}

// batch is one baked source submesh.
type batch struct {
	mesh *mesh.Mesh
	// localY holds each vertex's object-space height before baking.
	localY []float32
}

// buildBatch extracts submesh slot of obj into a working copy and bakes it
// into world space. The object and its mesh are left untouched.
func buildBatch(obj *scene.Object, slot int, s *Settings) (*batch, error) {
	work, err := obj.Mesh.Extract(slot)
	if err != nil {
		return nil, err
	}
	b := &batch{mesh: work, localY: make([]float32, work.VertexCount())}
	if work.VertexCount() == 0 {
		return b, nil
	}

	xf := obj.Transform
	if s.ChangeTransformForBillboards {
		xf.Rotation = math.QuatIdentity()
	}
	m := xf.Matrix()

	for i, p := range work.Positions {
		b.localY[i] = p.Y
		work.Positions[i] = m.TransformPoint(p)
	}

	if s.bakesNormals() {
		for i, n := range work.Normals {
			work.Normals[i] = xf.Rotation.Rotate(n)
		}
	}
	if s.bakesTangents() {
		for i, t := range work.Tangents {
			work.Tangents[i] = xf.Rotation.Rotate(t.XYZ()).Vec4(t.W)
		}
	}
	return b, nil
}
