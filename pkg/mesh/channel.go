package mesh

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Faultbox/meshkit/pkg/math"
)

// ErrChannelNotWritable is returned when data is packed into a channel that
// cannot carry it.
var ErrChannelNotWritable = errors.New("vertex channel not writable")

// VertexChannel selects the vertex attribute slot that receives packed data.
// None and Position both mean "do not encode".
type VertexChannel uint8

const (
	ChannelNone VertexChannel = iota
	ChannelPosition
	ChannelNormal
	ChannelTangent
	ChannelColor
	ChannelTexCoord0
	ChannelTexCoord1
	ChannelTexCoord2
	ChannelTexCoord3
)

var channelNames = [...]string{
	ChannelNone:      "none",
	ChannelPosition:  "position",
	ChannelNormal:    "normal",
	ChannelTangent:   "tangent",
	ChannelColor:     "color",
	ChannelTexCoord0: "texcoord0",
	ChannelTexCoord1: "texcoord1",
	ChannelTexCoord2: "texcoord2",
	ChannelTexCoord3: "texcoord3",
}

// String returns the channel name used in configuration files.
func (c VertexChannel) String() string {
	if int(c) < len(channelNames) {
		return channelNames[c]
	}
	return fmt.Sprintf("channel(%d)", uint8(c))
}

// Encodes reports whether packing into c writes anything.
func (c VertexChannel) Encodes() bool {
	return c != ChannelNone && c != ChannelPosition
}

// ParseVertexChannel parses a channel name (case-insensitive).
func ParseVertexChannel(s string) (VertexChannel, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "" {
		return ChannelNone, nil
	}
	for i, n := range channelNames {
		if n == name {
			return VertexChannel(i), nil
		}
	}
	return ChannelNone, fmt.Errorf("unknown vertex channel %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (c VertexChannel) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *VertexChannel) UnmarshalText(text []byte) error {
	v, err := ParseVertexChannel(string(text))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// Channel reads channel c as a float4 buffer of exactly VertexCount()
// entries. Three- and two-component streams are widened with zeros; a missing
// or stale stream reads as zeros. The buffer is a copy.
func (m *Mesh) Channel(c VertexChannel) []math.Vec4 {
	n := m.VertexCount()
	out := make([]math.Vec4, n)
	switch c {
	case ChannelNormal:
		if len(m.Normals) == n {
			for i, v := range m.Normals {
				out[i] = v.Vec4(0)
			}
		}
	case ChannelTexCoord0:
		if len(m.UV) == n {
			for i, v := range m.UV {
				out[i] = math.Vec4{X: v.X, Y: v.Y}
			}
		}
	default:
		if src := m.channel4(c); len(*src) == n {
			copy(out, *src)
		}
	}
	return out
}

// SetChannel writes data into channel c. Normal keeps xyz and texcoord0 keeps
// xy; the other channels store all four components.
func (m *Mesh) SetChannel(c VertexChannel, data []math.Vec4) error {
	if !c.Encodes() || int(c) >= len(channelNames) {
		return fmt.Errorf("%w: %s", ErrChannelNotWritable, c)
	}
	if len(data) != m.VertexCount() {
		return fmt.Errorf("%w: %s has %d entries, mesh %q has %d vertices", ErrAttributeLength, c, len(data), m.Name, m.VertexCount())
	}
	switch c {
	case ChannelNormal:
		m.Normals = make([]math.Vec3, len(data))
		for i, v := range data {
			m.Normals[i] = v.XYZ()
		}
	case ChannelTexCoord0:
		m.UV = make([]math.Vec2, len(data))
		for i, v := range data {
			m.UV[i] = math.Vec2{X: v.X, Y: v.Y}
		}
	default:
		dst := m.channel4(c)
		*dst = append((*dst)[:0:0], data...)
	}
	return nil
}

func (m *Mesh) channel4(c VertexChannel) *[]math.Vec4 {
	switch c {
	case ChannelTangent:
		return &m.Tangents
	case ChannelColor:
		return &m.Colors
	case ChannelTexCoord1:
		return &m.UV1
	case ChannelTexCoord2:
		return &m.UV2
	case ChannelTexCoord3:
		return &m.UV3
	}
	empty := []math.Vec4(nil)
	return &empty
}
