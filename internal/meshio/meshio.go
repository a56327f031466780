// Package meshio reads and writes meshes on disk: a compact binary asset
// format and binary glTF for interchange.
package meshio

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/Faultbox/meshkit/pkg/mesh"
)

// ErrUnsupportedFormat is returned for file formats meshio cannot handle.
var ErrUnsupportedFormat = errors.New("unsupported mesh format")

// Format selects an on-disk mesh format.
type Format string

const (
	FormatAsset Format = "asset"
	FormatGLB   Format = "glb"
)

// Supported reports whether f can be written.
func (f Format) Supported() bool {
	return f == FormatAsset || f == FormatGLB
}

// Ext returns the file extension including the dot.
func (f Format) Ext() string {
	return "." + string(f)
}

// MarshalText implements encoding.TextMarshaler.
func (f Format) MarshalText() ([]byte, error) {
	return []byte(f), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Unknown values are kept
// as-is so that the combine step can report them.
func (f *Format) UnmarshalText(text []byte) error {
	*f = Format(strings.ToLower(strings.TrimSpace(string(text))))
	return nil
}

// FormatFromPath infers the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".asset":
		return FormatAsset, nil
	case ".glb", ".gltf":
		return FormatGLB, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
}

// Read loads mesh index from path, picking the decoder by extension. Asset
// files hold a single mesh and ignore index.
func Read(path string, index int) (*mesh.Mesh, error) {
	f, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	switch f {
	case FormatAsset:
		return ReadAsset(path)
	default:
		return ReadGLTF(path, index)
	}
}

// Write stores m at path in format f.
func Write(path string, f Format, m *mesh.Mesh, opts WriteOptions) error {
	switch f {
	case FormatAsset:
		return WriteAsset(path, m, opts)
	case FormatGLB:
		return WriteGLB(path, m, opts)
	}
	return fmt.Errorf("%w: %q", ErrUnsupportedFormat, string(f))
}

// WriteOptions carries metadata stored alongside the geometry.
type WriteOptions struct {
	IndexFormat mesh.IndexFormat
	Material    string
}
