package meshio

import (
	"bufio"
	"errors"
	"fmt"
	"os"

	"github.com/ugorji/go/codec"

	"github.com/Faultbox/meshkit/pkg/mesh"
)

// Asset format errors.
var (
	ErrInvalidAssetMagic       = errors.New("invalid mesh asset magic: expected 'MKMA'")
	ErrUnsupportedAssetVersion = errors.New("unsupported mesh asset version")
)

const (
	assetMagic   = "MKMA"
	assetVersion = 1
)

// assetFile is the msgpack document stored in .asset files.
type assetFile struct {
	Magic       string     `codec:"magic"`
	Version     int        `codec:"version"`
	IndexFormat string     `codec:"index_format"`
	Material    string     `codec:"material,omitempty"`
	Mesh        *mesh.Mesh `codec:"mesh"`
}

var msgpack = &codec.MsgpackHandle{}

// WriteAsset encodes m as a msgpack mesh asset.
func WriteAsset(path string, m *mesh.Mesh, opts WriteOptions) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	doc := assetFile{
		Magic:       assetMagic,
		Version:     assetVersion,
		IndexFormat: opts.IndexFormat.String(),
		Material:    opts.Material,
		Mesh:        m,
	}
	if err := codec.NewEncoder(w, msgpack).Encode(&doc); err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	return f.Close()
}

// ReadAsset decodes a mesh asset written by WriteAsset.
func ReadAsset(path string) (*mesh.Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var doc assetFile
	if err := codec.NewDecoder(bufio.NewReader(f), msgpack).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	if doc.Magic != assetMagic {
		return nil, ErrInvalidAssetMagic
	}
	if doc.Version != assetVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedAssetVersion, doc.Version)
	}
	if doc.Mesh == nil {
		return &mesh.Mesh{}, nil
	}
	if err := doc.Mesh.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc.Mesh, nil
}
