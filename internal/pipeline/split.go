package pipeline

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/meshkit/internal/combine"
	"github.com/Faultbox/meshkit/internal/export"
	"github.com/Faultbox/meshkit/internal/scene"
)

// SplitOptions configure a split.
type SplitOptions struct {
	ScenePath    string
	SceneOut     string
	ManifestPath string
	// Run selects runs by ID or target. Empty splits every recorded run.
	Run         string
	RemoveFiles bool
	Logger      *zap.Logger
}

// Split reverses recorded combine runs: sources get their state back,
// combined nodes are removed and, optionally, their mesh files deleted. It
// returns the runs that were split.
func Split(opts SplitOptions) ([]*export.Run, error) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	manifestPath := opts.ManifestPath
	if manifestPath == "" {
		manifestPath = ManifestFor(opts.ScenePath)
	}

	s, file, err := scene.Load(opts.ScenePath)
	if err != nil {
		return nil, err
	}
	m, err := export.LoadManifest(manifestPath)
	if err != nil {
		return nil, err
	}
	m.Resolve(manifestPath)

	runs, err := m.Find(opts.Run)
	if err != nil {
		return nil, err
	}

	// Newest first, so nested runs are undone after the runs that consumed
	// them.
	for i := len(runs) - 1; i >= 0; i-- {
		run := runs[i]
		for _, out := range run.Outputs {
			if err := combine.Split(s, out); err != nil {
				return nil, fmt.Errorf("splitting %s: %w", out.Name, err)
			}
		}
		removeEmptyPivot(s, run.LODPivot)

		if opts.RemoveFiles {
			if err := export.RemoveFiles(run.Files()); err != nil {
				return nil, err
			}
		}
		m.Remove(run.ID)
		log.Info("split run", zap.String("run", run.ID), zap.String("target", run.Target), zap.Int("outputs", len(run.Outputs)))
	}

	out := opts.SceneOut
	if out == "" {
		out = opts.ScenePath
	}
	if err := s.Save(out, file.Name, file.Atlas); err != nil {
		return nil, fmt.Errorf("saving scene: %w", err)
	}
	if err := m.Save(manifestPath); err != nil {
		return nil, fmt.Errorf("saving manifest: %w", err)
	}
	return runs, nil
}

// removeEmptyPivot deletes a LodPivot that no longer references anything.
func removeEmptyPivot(s *scene.Scene, id string) {
	pivot := s.Get(id)
	if pivot == nil {
		return
	}
	for _, l := range pivot.LODs {
		if len(l.Renderers) > 0 {
			return
		}
	}
	s.RemoveTree(id)
}
