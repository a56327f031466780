// Package combine welds source meshes that share a material into combined
// meshes: it bakes every matching submesh into world space, remaps UVs of
// atlased materials, packs auxiliary vertex channels and buckets the outputs
// into LOD levels. It produces data only; writing files and editing the scene
// is left to the caller.
package combine

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/Faultbox/meshkit/internal/scene"
	"github.com/Faultbox/meshkit/pkg/atlas"
	"github.com/Faultbox/meshkit/pkg/material"
	"github.com/Faultbox/meshkit/pkg/mesh"
)

// Request is one combine run.
type Request struct {
	// Target names the outputs.
	Target string
	// Parent is the scene object outputs are attached under.
	Parent  string
	Objects []*scene.Object

	// Containers maps shader identifiers to atlas containers. Nil disables
	// atlasing.
	Containers map[string]*atlas.Container
	Settings   Settings
	Properties *PropertyTable
	Logger     *zap.Logger
}

// Output is one combined mesh.
type Output struct {
	ID       string `yaml:"id"`
	Name     string `yaml:"name"`
	MeshName string `yaml:"mesh_name"`
	// Index counts emitted outputs of the run, starting at 0.
	Index int `yaml:"index"`

	Mesh            *mesh.Mesh         `yaml:"-"`
	Material        *material.Material `yaml:"material"`
	SourceMaterials []string           `yaml:"source_materials,omitempty"`
	Atlas           string             `yaml:"atlas,omitempty"`

	IndexFormat mesh.IndexFormat `yaml:"index_format"`
	Static      bool             `yaml:"static,omitempty"`
	// LODLevel is -1 when the output is not part of a LOD group.
	LODLevel int `yaml:"lod_level"`

	// Node is the scene object the output was attached as.
	Node  string   `yaml:"node,omitempty"`
	Files []string `yaml:"files,omitempty"`

	Sources []SourceState `yaml:"sources"`
	Nested  []string      `yaml:"nested,omitempty"`
}

// Result is everything a combine run produced.
type Result struct {
	ID      string
	Target  string
	Parent  string
	Outputs []*Output
	// LODs reference outputs by ID.
	LODs    []scene.LODLevel
	Sources []string
	Nested  []string
}

// group is an output material with the batches gathered for it.
type group struct {
	out      *Output
	combined *atlas.Combined
	mesh     *mesh.Mesh
	sources  []SourceState
	seen     map[string]bool
}

// Combine runs the pipeline on req. Only configuration problems are
// returned as errors; unmatched, empty or malformed submeshes are skipped.
func Combine(req Request) (*Result, error) {
	settings := req.Settings
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	props := req.Properties.withDefaults()
	log := req.Logger
	if log == nil {
		log = zap.NewNop()
	}

	objects := lo.Filter(req.Objects, func(o *scene.Object, _ int) bool {
		return o != nil && o.Mesh != nil && o.Renderer != nil && len(o.Renderer.Materials) > 0
	})

	res := &Result{
		ID:      uuid.NewString(),
		Target:  req.Target,
		Parent:  req.Parent,
		Sources: lo.Map(objects, func(o *scene.Object, _ int) string { return o.ID }),
		Nested: lo.FilterMap(objects, func(o *scene.Object, _ int) (string, bool) {
			return o.ID, o.CombineID != ""
		}),
	}

	materials := lo.UniqBy(
		lo.Compact(lo.FlatMap(objects, func(o *scene.Object, _ int) []*material.Material {
			return o.Renderer.Materials
		})),
		func(m *material.Material) string { return m.Identifier() },
	)
	combined, table := atlas.Resolve(materials, req.Containers, props.ColorMap)
	log.Debug("resolved material groups",
		zap.String("target", req.Target),
		zap.Int("materials", len(materials)),
		zap.Int("groups", len(combined)),
		zap.Int("atlas_entries", len(table)))

	attrs := make(map[*scene.Object]sourceAttributes, len(objects))
	for _, o := range objects {
		attrs[o] = resolveAttributes(o, props)
		if o.Transform.Degenerate() {
			log.Warn("zero-scale transform, baked normals will be wrong", zap.String("object", o.ID))
		}
	}
	owners := make(map[string]string)

	meshName := fmt.Sprintf("msh_%s_combined", req.Target)
	for _, c := range combined {
		g := &group{
			out:      &Output{ID: uuid.NewString(), MeshName: meshName, Material: c.Material, Atlas: c.Atlas, LODLevel: -1},
			combined: c,
			mesh:     &mesh.Mesh{Name: meshName},
			seen:     make(map[string]bool),
		}

		for _, o := range objects {
			for slot, mat := range o.Renderer.Materials {
				if !material.Matches(c.Material, mat, c.Atlas != "") || slot >= len(o.Mesh.Submeshes) {
					continue
				}
				b, err := buildBatch(o, slot, &settings)
				if err != nil {
					log.Warn("skipping submesh", zap.String("object", o.ID), zap.Int("slot", slot), zap.Error(err))
					continue
				}
				if b.mesh.IsEmpty() {
					continue
				}

				if mapping, ok := table.Lookup(mat, props.ColorMap); ok {
					atlas.Remap(b.mesh.UV, mapping)
				}
				flag := mat.KeywordEnabled(props.MaterialFlagKeyword)
				if err := packChannels(b, &settings, attrs[o], flag); err != nil {
					log.Warn("skipping submesh", zap.String("object", o.ID), zap.Int("slot", slot), zap.Error(err))
					continue
				}

				target := 0
				if !settings.MergeSubmeshes {
					target = slot
				}
				g.mesh.Append(b.mesh, target)
				g.record(o, owners)
			}
		}

		if g.mesh.IsEmpty() {
			log.Debug("discarding empty group", zap.String("material", c.Material.Name))
			continue
		}
		g.emit(res, &settings, log)
	}

	log.Info("combined meshes",
		zap.String("target", req.Target),
		zap.Int("sources", len(objects)),
		zap.Int("outputs", len(res.Outputs)),
		zap.Int("vertices", lo.SumBy(res.Outputs, func(o *Output) int { return o.Mesh.VertexCount() })))
	return res, nil
}

// record adds provenance for o. The first output an object contributes to
// owns it.
func (g *group) record(o *scene.Object, owners map[string]string) {
	if g.seen[o.ID] {
		return
	}
	g.seen[o.ID] = true
	owner, ok := owners[o.ID]
	if !ok {
		owner = g.out.ID
		owners[o.ID] = owner
	}
	g.sources = append(g.sources, captureState(o, owner))
}

func (g *group) emit(res *Result, s *Settings, log *zap.Logger) {
	out := g.out
	out.Index = len(res.Outputs)
	if out.Index == 0 {
		out.Name = fmt.Sprintf("%s_combined", res.Target)
	} else {
		out.Name = fmt.Sprintf("%s_%d_combined", res.Target, out.Index)
	}

	n := g.mesh.VertexCount()
	out.IndexFormat = mesh.ChooseIndexFormat(n, s.Force16BitIndices)
	if out.IndexFormat == mesh.IndexUInt16 && n > mesh.MaxUInt16Vertices {
		log.Warn("16-bit indices forced on a mesh that needs 32", zap.String("output", out.Name), zap.Int("vertices", n))
	}

	if s.GenerateLightmapUVs {
		if err := generateLightmapUVs(g.mesh); err != nil {
			log.Warn("lightmap uv generation failed", zap.String("output", out.Name), zap.Error(err))
		}
	}

	out.Mesh = g.mesh
	out.Static = s.SetStatic
	out.Sources = g.sources
	out.Nested = res.Nested
	out.SourceMaterials = lo.Map(g.combined.Sources, func(m *material.Material, _ int) string { return m.Name })

	if s.AutoGenerateLODPivot {
		if level, ok := ParseLODLevel(out.MeshName); ok {
			out.LODLevel = level
			res.LODs = scene.AssignLOD(res.LODs, level, out.ID)
		}
	}

	log.Debug("emitted output",
		zap.String("output", out.Name),
		zap.String("material", out.Material.Name),
		zap.Int("vertices", n),
		zap.Stringer("index_format", out.IndexFormat),
		zap.Int("sources", len(out.Sources)))
	res.Outputs = append(res.Outputs, out)
}
