package config

import (
	"flag"

	"github.com/Faultbox/meshkit/internal/scene"
)

// Flags are the command-line overrides shared by commands that load config.
type Flags struct {
	config    string
	debug     bool
	logFile   string
	outputDir string
	format    string
	after     string
	atlas     string
	force16   bool
	static    bool
}

// Register adds the flags to fs.
func (f *Flags) Register(fs *flag.FlagSet) {
	fs.StringVar(&f.config, "config", "", "Path to config file (.yaml or .toml)")
	fs.BoolVar(&f.debug, "debug", false, "Enable debug logging")
	fs.StringVar(&f.logFile, "log-file", "", "Also log to this file")
	fs.StringVar(&f.outputDir, "out", "", "Directory for combined mesh files")
	fs.StringVar(&f.format, "format", "", "Mesh file format: asset or glb")
	fs.StringVar(&f.after, "after", "", "After-combine actions, e.g. group,disable")
	fs.StringVar(&f.atlas, "atlas", "", "Atlas container file")
	fs.BoolVar(&f.force16, "force16", false, "Always write 16-bit indices")
	fs.BoolVar(&f.static, "static", false, "Mark combined objects static")
}

// ConfigPath returns the explicit config path if provided via --config flag.
func (f *Flags) ConfigPath() string {
	if f == nil {
		return ""
	}
	return f.config
}

// apply applies CLI flag overrides to the config.
func (f *Flags) apply(cfg *Config) error {
	if f == nil {
		return nil
	}
	if f.debug {
		cfg.Logging.Level = "debug"
	}
	if f.logFile != "" {
		cfg.Logging.LogFile = f.logFile
	}
	if f.outputDir != "" {
		cfg.Output.Dir = f.outputDir
	}
	if f.format != "" {
		if err := cfg.Combine.SaveFormat.UnmarshalText([]byte(f.format)); err != nil {
			return err
		}
	}
	if f.after != "" {
		a, err := scene.ParseAfterCombineAction(f.after)
		if err != nil {
			return err
		}
		cfg.Combine.AfterCombine = a
	}
	if f.atlas != "" {
		cfg.Output.Atlas = f.atlas
	}
	if f.force16 {
		cfg.Combine.Force16BitIndices = true
	}
	if f.static {
		cfg.Combine.SetStatic = true
	}
	return nil
}
