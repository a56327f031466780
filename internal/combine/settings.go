package combine

import (
	"github.com/Faultbox/meshkit/internal/meshio"
	"github.com/Faultbox/meshkit/internal/scene"
	"github.com/Faultbox/meshkit/pkg/mesh"
)

// Settings control how source meshes are baked and packed.
type Settings struct {
	// ChangeTransformForBillboards bakes positions without the object's
	// rotation. The up-vector channel still sees the real rotation.
	ChangeTransformForBillboards bool `yaml:"change_transform_for_billboards" toml:"change_transform_for_billboards"`

	WorldPositionEncoding mesh.VertexChannel `yaml:"world_position_encoding" toml:"world_position_encoding"`
	UpVectorEncoding      mesh.VertexChannel `yaml:"up_vector_encoding" toml:"up_vector_encoding"`
	MaterialFlagEncoding  mesh.VertexChannel `yaml:"material_flag_encoding" toml:"material_flag_encoding"`
	PairedEffectEncoding  mesh.VertexChannel `yaml:"paired_effect_encoding" toml:"paired_effect_encoding"`

	Force16BitIndices    bool `yaml:"force_16bit_indices" toml:"force_16bit_indices"`
	GenerateLightmapUVs  bool `yaml:"generate_lightmap_uvs" toml:"generate_lightmap_uvs"`
	AutoGenerateLODPivot bool `yaml:"auto_generate_lod_pivot" toml:"auto_generate_lod_pivot"`
	SetStatic            bool `yaml:"set_static" toml:"set_static"`
	MergeSubmeshes       bool `yaml:"merge_submeshes" toml:"merge_submeshes"`

	SaveFormat   meshio.Format            `yaml:"save_format" toml:"save_format"`
	AfterCombine scene.AfterCombineAction `yaml:"after_combine" toml:"after_combine"`
}

// DefaultSettings returns settings that bake geometry only.
func DefaultSettings() Settings {
	return Settings{
		AutoGenerateLODPivot: true,
		MergeSubmeshes:       true,
		SaveFormat:           meshio.FormatAsset,
	}
}

// Validate returns a *ConfigurationError for unusable values.
func (s *Settings) Validate() error {
	if !s.SaveFormat.Supported() {
		return &ConfigurationError{Field: "save_format", Value: string(s.SaveFormat), Reason: "want asset or glb"}
	}

	encodings := []struct {
		field string
		value mesh.VertexChannel
	}{
		{"world_position_encoding", s.WorldPositionEncoding},
		{"up_vector_encoding", s.UpVectorEncoding},
		{"material_flag_encoding", s.MaterialFlagEncoding},
		{"paired_effect_encoding", s.PairedEffectEncoding},
	}
	for _, e := range encodings {
		if e.value > mesh.ChannelTexCoord3 {
			return &ConfigurationError{Field: e.field, Value: e.value.String(), Reason: "unknown channel"}
		}
	}

	// Normal keeps xyz and texcoord0 keeps xy, which drops the components
	// these packers write.
	for _, e := range encodings[2:] {
		if e.value == mesh.ChannelNormal || e.value == mesh.ChannelTexCoord0 {
			return &ConfigurationError{Field: e.field, Value: e.value.String(), Reason: "channel cannot hold .z and .w"}
		}
	}

	// Both fill all four components, so one would erase the other.
	if s.UpVectorEncoding.Encodes() && s.UpVectorEncoding == s.WorldPositionEncoding {
		return &ConfigurationError{
			Field:  "up_vector_encoding",
			Value:  s.UpVectorEncoding.String(),
			Reason: "same channel as world_position_encoding",
		}
	}
	return nil
}

// bakesNormals reports whether normals are rotated into world space. A
// normal channel that carries packed data is left alone.
func (s *Settings) bakesNormals() bool {
	return s.WorldPositionEncoding != mesh.ChannelNormal && s.UpVectorEncoding != mesh.ChannelNormal
}

func (s *Settings) bakesTangents() bool {
	return s.WorldPositionEncoding != mesh.ChannelTangent && s.UpVectorEncoding != mesh.ChannelTangent
}
