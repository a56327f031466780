// meshkit combines scene meshes into batched, atlas-remapped meshes and
// reverses earlier combines.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/Faultbox/meshkit/internal/config"
	"github.com/Faultbox/meshkit/internal/logger"
	"github.com/Faultbox/meshkit/internal/meshio"
	"github.com/Faultbox/meshkit/internal/pipeline"
	"github.com/Faultbox/meshkit/internal/scene"
	"github.com/Faultbox/meshkit/internal/watch"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "combine", "c":
		cmdCombine(args)
	case "split", "s":
		cmdSplit(args)
	case "inspect", "i":
		cmdInspect(args)
	case "watch", "w":
		cmdWatch(args)
	case "config":
		cmdConfig(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`meshkit - mesh combine and atlas remap tool

Usage:
  meshkit <command> [options]

Commands:
  combine <scene.yaml>   Combine meshes under a target object
  split <scene.yaml>     Restore sources of earlier combine runs
  inspect <file>         Show a mesh (.asset, .glb) or a scene tree (.yaml)
  watch <scene.yaml>     Re-combine into another scene file on every change
  config                 Print the effective config, or save it

Examples:
  meshkit combine forest.yaml -target grove -after group,disable
  meshkit combine forest.yaml -format glb -out build/meshes
  meshkit split forest.yaml -run grove -remove-files
  meshkit inspect out/msh_grove_combined_0.asset
  meshkit watch forest.yaml -scene-out build/forest.yaml
  meshkit config -format glb -save meshkit.toml`)
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	logger.Sync()
	os.Exit(1)
}

// setup loads config and initializes logging.
func setup(flags *config.Flags) *config.Config {
	cfg, err := config.Load(flags)
	if err != nil {
		fail(err)
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fail(err)
	}
	return cfg
}

func combineOptions(cfg *config.Config, scenePath string) pipeline.Options {
	return pipeline.Options{
		ScenePath:    scenePath,
		AtlasPath:    cfg.Output.Atlas,
		OutputDir:    cfg.Output.Dir,
		ManifestPath: cfg.Output.Manifest,
		Settings:     cfg.Combine,
		Properties:   &cfg.Shader,
		Logger:       logger.Named("pipeline"),
	}
}

func cmdCombine(args []string) {
	fs := flag.NewFlagSet("combine", flag.ExitOnError)
	var flags config.Flags
	flags.Register(fs)
	target := fs.String("target", "", "Object ID or name to combine (default: whole scene)")
	sceneOut := fs.String("scene-out", "", "Write the edited scene here instead of in place")
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: meshkit combine <scene.yaml> [options]")
		os.Exit(1)
	}
	cfg := setup(&flags)
	defer logger.Sync()

	opts := combineOptions(cfg, fs.Arg(0))
	opts.Target = *target
	opts.SceneOut = *sceneOut

	res, err := pipeline.Combine(opts)
	if err != nil {
		fail(err)
	}

	fmt.Printf("Run:     %s\n", res.ID)
	fmt.Printf("Target:  %s\n", res.Target)
	fmt.Printf("Sources: %d\n", len(res.Sources))
	fmt.Println()
	for _, out := range res.Outputs {
		lod := ""
		if out.LODLevel >= 0 {
			lod = fmt.Sprintf(" lod%d", out.LODLevel)
		}
		fmt.Printf("  %-32s %6d verts %7d idx  %s%s\n",
			out.Name, out.Mesh.VertexCount(), out.Mesh.IndexCount(), out.IndexFormat, lod)
		for _, f := range out.Files {
			fmt.Printf("    %s\n", f)
		}
	}
}

func cmdSplit(args []string) {
	fs := flag.NewFlagSet("split", flag.ExitOnError)
	var flags config.Flags
	flags.Register(fs)
	run := fs.String("run", "", "Run ID or target to split (default: every run)")
	sceneOut := fs.String("scene-out", "", "Write the restored scene here instead of in place")
	removeFiles := fs.Bool("remove-files", false, "Delete the combined mesh files")
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: meshkit split <scene.yaml> [options]")
		os.Exit(1)
	}
	cfg := setup(&flags)
	defer logger.Sync()

	runs, err := pipeline.Split(pipeline.SplitOptions{
		ScenePath:    fs.Arg(0),
		SceneOut:     *sceneOut,
		ManifestPath: cfg.Output.Manifest,
		Run:          *run,
		RemoveFiles:  *removeFiles,
		Logger:       logger.Named("pipeline"),
	})
	if err != nil {
		fail(err)
	}
	for _, r := range runs {
		fmt.Printf("Split %s (%s): %d outputs\n", r.ID, r.Target, len(r.Outputs))
	}
}

func cmdInspect(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: meshkit inspect <mesh.asset|mesh.glb|scene.yaml>")
		os.Exit(1)
	}
	path := args[0]

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		s, file, err := scene.Load(path)
		if err != nil {
			fail(err)
		}
		fmt.Printf("Scene:   %s\n", file.Name)
		fmt.Printf("Objects: %d\n", len(s.Objects()))
		fmt.Println()
		printTree(s, "", 0)
	default:
		m, err := meshio.Read(path, 0)
		if err != nil {
			fail(err)
		}
		b := m.Bounds()
		fmt.Printf("Mesh:      %s\n", m.Name)
		fmt.Printf("Vertices:  %d\n", m.VertexCount())
		fmt.Printf("Indices:   %d\n", m.IndexCount())
		fmt.Printf("Submeshes: %d\n", len(m.Submeshes))
		fmt.Printf("Bounds:    (%.3f, %.3f, %.3f) - (%.3f, %.3f, %.3f)\n",
			b.Min.X, b.Min.Y, b.Min.Z, b.Max.X, b.Max.Y, b.Max.Z)
		for i, sm := range m.Submeshes {
			fmt.Printf("  [%d] %d triangles\n", i, len(sm.Indices)/3)
		}
	}
}

func printTree(s *scene.Scene, parent string, depth int) {
	for _, o := range s.Children(parent) {
		var marks []string
		if !o.Active {
			marks = append(marks, "inactive")
		}
		if o.Mesh != nil {
			marks = append(marks, fmt.Sprintf("%d verts", o.Mesh.VertexCount()))
		}
		if o.Renderer != nil && !o.Renderer.Enabled {
			marks = append(marks, "renderer off")
		}
		if len(o.LODs) > 0 {
			marks = append(marks, fmt.Sprintf("%d lods", len(o.LODs)))
		}
		if o.CombineID != "" {
			marks = append(marks, "combined")
		}
		suffix := ""
		if len(marks) > 0 {
			suffix = " (" + strings.Join(marks, ", ") + ")"
		}
		fmt.Printf("%s%s [%s]%s\n", strings.Repeat("  ", depth), o.Name, o.ID, suffix)
		printTree(s, o.ID, depth+1)
	}
}

func cmdWatch(args []string) {
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	var flags config.Flags
	flags.Register(fs)
	target := fs.String("target", "", "Object ID or name to combine (default: whole scene)")
	sceneOut := fs.String("scene-out", "", "Scene file to write (required, must differ from the input)")
	fs.Parse(args)

	if fs.NArg() < 1 || *sceneOut == "" {
		fmt.Fprintln(os.Stderr, "Usage: meshkit watch <scene.yaml> -scene-out <out.yaml> [options]")
		os.Exit(1)
	}
	in, _ := filepath.Abs(fs.Arg(0))
	out, _ := filepath.Abs(*sceneOut)
	if in == out {
		fail(errors.New("watch: -scene-out must differ from the watched scene"))
	}

	cfg := setup(&flags)
	defer logger.Sync()
	log := logger.Named("watch")

	opts := combineOptions(cfg, fs.Arg(0))
	opts.Target = *target
	opts.SceneOut = *sceneOut
	if opts.ManifestPath == "" {
		opts.ManifestPath = pipeline.ManifestFor(*sceneOut)
	}

	job := func() error {
		// The output scene is rebuilt from the input each time, so only the
		// latest run belongs in the manifest.
		if err := os.Remove(opts.ManifestPath); err != nil && !os.IsNotExist(err) {
			return err
		}
		res, err := pipeline.Combine(opts)
		if err != nil {
			return err
		}
		log.Info("recombined", zap.String("run", res.ID), zap.Int("outputs", len(res.Outputs)))
		return nil
	}

	w, err := watch.New(time.Duration(cfg.Watch.DebounceMS)*time.Millisecond, log)
	if err != nil {
		fail(err)
	}
	defer w.Close()

	files := []string{fs.Arg(0)}
	if cfg.Output.Atlas != "" {
		files = append(files, cfg.Output.Atlas)
	}
	if err := w.Add(files...); err != nil {
		fail(err)
	}

	if err := job(); err != nil {
		log.Error("initial combine failed", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("watching", zap.Strings("files", files))
	if err := w.Run(ctx, job); err != nil {
		fail(err)
	}
}

func cmdConfig(args []string) {
	fs := flag.NewFlagSet("config", flag.ExitOnError)
	var flags config.Flags
	flags.Register(fs)
	save := fs.String("save", "", "Write the effective config to this file (.yaml or .toml)")
	saveUser := fs.Bool("save-user", false, "Write the effective config to the user config directory")
	fs.Parse(args)

	cfg, err := config.Load(&flags)
	if err != nil {
		fail(err)
	}

	switch {
	case *save != "":
		if err := cfg.SaveTo(*save); err != nil {
			fail(err)
		}
		fmt.Printf("Saved %s\n", *save)
	case *saveUser:
		if err := cfg.Save(); err != nil {
			fail(err)
		}
		fmt.Printf("Saved %s\n", filepath.Join(config.ConfigDir(), "config.yaml"))
	default:
		data, err := yaml.Marshal(cfg)
		if err != nil {
			fail(err)
		}
		os.Stdout.Write(data)
	}
}
