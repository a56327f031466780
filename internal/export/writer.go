// Package export writes combined meshes to disk and keeps the manifest that
// lets a later run split them again.
package export

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/meshkit/internal/combine"
	"github.com/Faultbox/meshkit/internal/meshio"
)

// DefaultSaveDir is used when no output directory is configured.
const DefaultSaveDir = "out/"

// SavePath normalises an output directory: empty becomes DefaultSaveDir and
// a trailing separator is ensured.
func SavePath(dir string) string {
	if dir == "" {
		return DefaultSaveDir
	}
	if !strings.HasSuffix(dir, "/") && !strings.HasSuffix(dir, `\`) {
		dir += "/"
	}
	return dir
}

// MeshPath returns the file an output mesh is written to:
// <dir><meshName>_<index><ext>.
func MeshPath(dir, meshName string, index int, f meshio.Format) string {
	return fmt.Sprintf("%s%s_%d%s", SavePath(dir), meshName, index, f.Ext())
}

// Writer stores combine outputs.
type Writer struct {
	Dir    string
	Format meshio.Format
	Logger *zap.Logger
}

// Write saves every output of res and records the created paths on it. An
// unsupported format is reported as a *combine.ConfigurationError before any
// file is created.
func (w *Writer) Write(res *combine.Result) error {
	if !w.Format.Supported() {
		return &combine.ConfigurationError{Field: "save_format", Value: string(w.Format), Reason: "want asset or glb"}
	}
	log := w.Logger
	if log == nil {
		log = zap.NewNop()
	}

	dir := SavePath(w.Dir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	for _, out := range res.Outputs {
		path := MeshPath(dir, out.MeshName, out.Index, w.Format)
		opts := meshio.WriteOptions{IndexFormat: out.IndexFormat}
		if out.Material != nil {
			opts.Material = out.Material.Name
		}
		if err := meshio.Write(path, w.Format, out.Mesh, opts); err != nil {
			return fmt.Errorf("writing %s: %w", out.Name, err)
		}
		out.Files = append(out.Files, path)
		log.Debug("wrote mesh", zap.String("output", out.Name), zap.String("path", path))
	}
	return nil
}

// RemoveFiles deletes files created by a previous run. Files that are
// already gone are ignored.
func RemoveFiles(files []string) error {
	var errs []error
	for _, f := range files {
		if err := os.Remove(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// relTo makes path relative to base when possible.
func relTo(base, path string) string {
	if rel, err := filepath.Rel(base, path); err == nil {
		return rel
	}
	return path
}
