// Package pipeline runs combine and split against scene files on disk.
package pipeline

import (
	"fmt"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/meshkit/internal/combine"
	"github.com/Faultbox/meshkit/internal/export"
	"github.com/Faultbox/meshkit/internal/scene"
	"github.com/Faultbox/meshkit/pkg/atlas"
	"github.com/Faultbox/meshkit/pkg/material"
)

// Options configure a combine run.
type Options struct {
	ScenePath string
	// SceneOut is where the edited scene is written. Empty overwrites
	// ScenePath.
	SceneOut string
	// Target is the object whose descendants are combined. Empty combines
	// the whole scene.
	Target string
	// AtlasPath overrides the atlas file named by the scene.
	AtlasPath    string
	OutputDir    string
	ManifestPath string

	Settings   combine.Settings
	Properties *combine.PropertyTable
	Logger     *zap.Logger
}

func (o *Options) logger() *zap.Logger {
	if o.Logger == nil {
		return zap.NewNop()
	}
	return o.Logger
}

func (o *Options) sceneOut() string {
	if o.SceneOut != "" {
		return o.SceneOut
	}
	return o.ScenePath
}

// ManifestFor returns the default manifest path of a scene file:
// <dir>/<name>.meshkit.yaml.
func ManifestFor(scenePath string) string {
	base := strings.TrimSuffix(filepath.Base(scenePath), filepath.Ext(scenePath))
	return filepath.Join(filepath.Dir(scenePath), base+".meshkit.yaml")
}

func (o *Options) manifestPath() string {
	if o.ManifestPath != "" {
		return o.ManifestPath
	}
	return ManifestFor(o.ScenePath)
}

// Combine loads the scene, combines the target, writes meshes, attaches the
// outputs, applies the after-combine actions and saves scene and manifest.
func Combine(opts Options) (*combine.Result, error) {
	log := opts.logger()
	if err := opts.Settings.Validate(); err != nil {
		return nil, err
	}

	s, file, err := scene.Load(opts.ScenePath)
	if err != nil {
		return nil, err
	}

	atlasPath := opts.AtlasPath
	if atlasPath == "" {
		atlasPath = file.Atlas
	}
	var containers map[string]*atlas.Container
	if atlasPath != "" {
		if containers, err = atlas.LoadContainers(atlasPath); err != nil {
			return nil, err
		}
	}

	targetName, parent, err := resolveTarget(s, file, opts.Target)
	if err != nil {
		return nil, err
	}
	sources := collectSources(s, opts.Target)
	log.Debug("collected sources", zap.String("target", targetName), zap.Int("objects", len(sources)))

	res, err := combine.Combine(combine.Request{
		Target:     targetName,
		Parent:     parent,
		Objects:    sources,
		Containers: containers,
		Settings:   opts.Settings,
		Properties: opts.Properties,
		Logger:     log,
	})
	if err != nil {
		return nil, err
	}
	if len(res.Outputs) == 0 {
		log.Info("nothing to combine", zap.String("target", targetName))
		return res, nil
	}

	w := &export.Writer{Dir: opts.OutputDir, Format: opts.Settings.SaveFormat, Logger: log}
	if err := w.Write(res); err != nil {
		return nil, err
	}

	pivot, err := attach(s, res, opts.Settings)
	if err != nil {
		return nil, err
	}

	set := scene.CombinedSet{Target: targetName, Parent: parent, Sources: res.Sources, Nested: res.Nested}
	if err := s.ApplyAfterCombine(opts.Settings.AfterCombine, set); err != nil {
		return nil, err
	}

	if err := s.Save(opts.sceneOut(), file.Name, atlasPath); err != nil {
		return nil, fmt.Errorf("saving scene: %w", err)
	}

	manifestPath := opts.manifestPath()
	m, err := export.LoadManifest(manifestPath)
	if err != nil {
		return nil, err
	}
	run := export.NewRun(res, opts.Settings.SaveFormat)
	run.LODPivot = pivot
	m.Add(run)
	if err := m.Save(manifestPath); err != nil {
		return nil, fmt.Errorf("saving manifest: %w", err)
	}

	log.Info("combine finished",
		zap.String("target", targetName),
		zap.Int("outputs", len(res.Outputs)),
		zap.String("manifest", manifestPath))
	return res, nil
}

// resolveTarget returns the output name prefix and the parent new nodes go
// under.
func resolveTarget(s *scene.Scene, file *scene.File, target string) (name, parent string, err error) {
	if target == "" {
		name = file.Name
		if name == "" {
			name = "scene"
		}
		return name, "", nil
	}
	obj := s.Get(target)
	if obj == nil {
		return "", "", fmt.Errorf("%w: target %s", scene.ErrObjectNotFound, target)
	}
	return obj.Name, obj.ID, nil
}

// collectSources returns the active, rendered objects under root ("" for
// the whole scene) in scene order.
func collectSources(s *scene.Scene, root string) []*scene.Object {
	var out []*scene.Object
	for _, o := range s.Objects() {
		if o.Mesh == nil || o.Renderer == nil || !o.Renderer.Enabled || !o.Active {
			continue
		}
		if root == "" || isDescendant(s, o, root) {
			out = append(out, o)
		}
	}
	return out
}

func isDescendant(s *scene.Scene, o *scene.Object, root string) bool {
	for p := o.Parent; p != ""; {
		if p == root {
			return true
		}
		po := s.Get(p)
		if po == nil {
			return false
		}
		p = po.Parent
	}
	return false
}

// attach adds one node per output and folds the run's LOD levels into the
// parent's LodPivot. It returns the pivot ID, empty when none was touched.
func attach(s *scene.Scene, res *combine.Result, settings combine.Settings) (string, error) {
	nodes := make(map[string]string, len(res.Outputs))
	for _, out := range res.Outputs {
		node := &scene.Object{
			ID:        out.Name,
			Name:      out.Name,
			Active:    true,
			Static:    out.Static,
			Transform: scene.IdentityTransform(),
			Mesh:      out.Mesh,
			Renderer:  &scene.Renderer{Enabled: true, Materials: []*material.Material{out.Material}},
			CombineID: out.ID,
		}
		if len(out.Files) > 0 {
			node.Source = &scene.MeshSource{Path: out.Files[0]}
		}
		if err := s.Attach(res.Parent, node); err != nil {
			return "", err
		}
		out.Node = node.ID
		nodes[out.ID] = node.ID
	}

	if !settings.AutoGenerateLODPivot || len(res.LODs) == 0 {
		return "", nil
	}
	pivot, err := s.LODPivot(res.Parent)
	if err != nil {
		return "", err
	}
	for level, l := range res.LODs {
		for _, id := range l.Renderers {
			pivot.LODs = scene.AssignLOD(pivot.LODs, level, nodes[id])
		}
	}
	return pivot.ID, nil
}
