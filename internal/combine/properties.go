package combine

// PropertyTable names the shader properties and keywords the packers read.
// Build it once and share it read-only.
type PropertyTable struct {
	ColorMap            string `yaml:"color_map" toml:"color_map"`
	VeinsIntensity      string `yaml:"veins_intensity" toml:"veins_intensity"`
	BreathingIntensity  string `yaml:"breathing_intensity" toml:"breathing_intensity"`
	MaterialFlagKeyword string `yaml:"material_flag_keyword" toml:"material_flag_keyword"`
}

// DefaultProperties returns the property names used by the stock shaders.
func DefaultProperties() *PropertyTable {
	return &PropertyTable{
		ColorMap:            "_Color_Map",
		VeinsIntensity:      "_VeinsDisplacementIntensity",
		BreathingIntensity:  "_BreathingDisplacementIntensity",
		MaterialFlagKeyword: "_ENABLE_WIND_TURBULENCE",
	}
}

// withDefaults fills empty names from DefaultProperties.
func (p *PropertyTable) withDefaults() *PropertyTable {
	d := DefaultProperties()
	if p == nil {
		return d
	}
	out := *p
	if out.ColorMap == "" {
		out.ColorMap = d.ColorMap
	}
	if out.VeinsIntensity == "" {
		out.VeinsIntensity = d.VeinsIntensity
	}
	if out.BreathingIntensity == "" {
		out.BreathingIntensity = d.BreathingIntensity
	}
	if out.MaterialFlagKeyword == "" {
		out.MaterialFlagKeyword = d.MaterialFlagKeyword
	}
	return &out
}
