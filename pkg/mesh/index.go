package mesh

import "fmt"

// MaxUInt16Vertices is the largest vertex count addressable with 16-bit
// indices.
const MaxUInt16Vertices = 65535

// IndexFormat is the index buffer element width.
type IndexFormat uint8

const (
	IndexUInt16 IndexFormat = iota
	IndexUInt32
)

// String returns "uint16" or "uint32".
func (f IndexFormat) String() string {
	if f == IndexUInt32 {
		return "uint32"
	}
	return "uint16"
}

// ChooseIndexFormat picks 32-bit indices only when vertexCount exceeds the
// 16-bit range. force16 always yields 16-bit indices; vertices past 65535 then
// become unaddressable and it is up to the caller to avoid that.
func ChooseIndexFormat(vertexCount int, force16 bool) IndexFormat {
	if force16 {
		return IndexUInt16
	}
	if vertexCount > MaxUInt16Vertices {
		return IndexUInt32
	}
	return IndexUInt16
}

// Indices16 returns the indices of a submesh truncated to 16 bits.
func (s Submesh) Indices16() []uint16 {
	out := make([]uint16, len(s.Indices))
	for i, idx := range s.Indices {
		out[i] = uint16(idx)
	}
	return out
}

// MarshalText implements encoding.TextMarshaler.
func (f IndexFormat) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *IndexFormat) UnmarshalText(text []byte) error {
	switch string(text) {
	case "uint16", "16":
		*f = IndexUInt16
	case "uint32", "32":
		*f = IndexUInt32
	default:
		return fmt.Errorf("unknown index format %q", string(text))
	}
	return nil
}
