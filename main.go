package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/ppsrender/pathtracer/pkg/geometry"
	"github.com/ppsrender/pathtracer/pkg/integrator"
	"github.com/ppsrender/pathtracer/pkg/loaders"
	"github.com/ppsrender/pathtracer/pkg/renderer"
	"github.com/ppsrender/pathtracer/pkg/scene"
)

// scenesDir is where JSON scene files are looked up by name
const scenesDir = "scenes"

// options holds the parsed command line
type options struct {
	sceneType string
	width     int
	height    int
	depth     int
	out       string
	policy    integrator.RefractionPolicy
	reference string
	quiet     bool
	list      bool
	help      bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// parseFlags parses the command line into options
func parseFlags(args []string, output io.Writer) (options, error) {
	var opts options
	var policy string

	fs := flag.NewFlagSet("pathtracer", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.StringVar(&opts.sceneType, "scene", "checkerboard", "Built-in scene name or path to a JSON scene file")
	fs.IntVar(&opts.width, "width", 0, "Image width (0 = scene default)")
	fs.IntVar(&opts.height, "height", 0, "Image height (0 = scene default)")
	fs.IntVar(&opts.depth, "depth", 0, "Maximum bounce depth (0 = scene default)")
	fs.StringVar(&opts.out, "out", "", "Output PNG path (default output/<scene>/render_<timestamp>.png)")
	fs.StringVar(&policy, "policy", "snell", "Refraction policy: 'snell' or 'entry-only'")
	fs.StringVar(&opts.reference, "reference", "", "Compare the render against this PNG and report the largest difference")
	fs.BoolVar(&opts.quiet, "quiet", false, "Suppress progress output")
	fs.BoolVar(&opts.list, "list", false, "List available scenes and exit")
	fs.BoolVar(&opts.help, "help", false, "Show help information")

	if err := fs.Parse(args); err != nil {
		return opts, err
	}

	p, ok := integrator.ParseRefractionPolicy(policy)
	if !ok {
		return opts, fmt.Errorf("unknown refraction policy %q", policy)
	}
	opts.policy = p

	if opts.width < 0 || opts.height < 0 || opts.depth < 0 {
		return opts, fmt.Errorf("width, height and depth must not be negative")
	}

	if opts.help {
		fmt.Fprintln(output, "Deterministic Path Tracer")
		fmt.Fprintln(output, "Usage: pathtracer [options]")
		fmt.Fprintln(output)
		fmt.Fprintln(output, "Options:")
		fs.PrintDefaults()
		fmt.Fprintln(output)
		fmt.Fprintf(output, "Built-in scenes: %s\n", strings.Join(scene.Names(), ", "))
		fmt.Fprintln(output, "Output will be saved to output/<scene>/render_<timestamp>.png")
	}

	return opts, nil
}

// run parses arguments, renders the selected scene and writes the PNG
func run(ctx context.Context, args []string, output io.Writer) error {
	opts, err := parseFlags(args, output)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}
	if opts.help {
		return nil
	}
	if opts.list {
		return listScenes(output)
	}

	logger := renderer.NewWriterLogger(output)
	if opts.quiet {
		logger = renderer.NewSilentLogger()
	}

	selectedScene, err := createScene(opts.sceneType)
	if err != nil {
		return err
	}

	width, height, config := renderSettings(selectedScene, opts)
	logger.Printf("Rendering scene %q at %dx%d, max depth %d, %s refraction\n",
		opts.sceneType, width, height, config.MaxDepth, config.Policy)

	// Keep the camera's aspect ratio in step with overridden dimensions
	if width != selectedScene.SamplingConfig.Width || height != selectedScene.SamplingConfig.Height {
		cameraConfig := selectedScene.CameraConfig
		cameraConfig.AspectRatio = float64(width) / float64(height)
		selectedScene.CameraConfig = cameraConfig
		selectedScene.Camera = geometry.NewCamera(cameraConfig)
	}

	raytracer := renderer.NewRaytracer(selectedScene, width, height, integrator.NewPathTracingIntegrator(config), logger)
	fb, stats, err := raytracer.Render(ctx)
	if err != nil {
		return fmt.Errorf("render failed: %w", err)
	}

	filename := opts.out
	if filename == "" {
		timestamp := time.Now().Format("20060102_150405")
		filename = filepath.Join(createOutputDir(opts.sceneType), fmt.Sprintf("render_%s.png", timestamp))
	}
	if err := loaders.SavePNG(filename, fb); err != nil {
		return err
	}
	logger.Printf("Render saved as %s (%d pixels, average luminance %.4f)\n", filename, stats.TotalPixels, stats.Luminance)

	if opts.reference != "" {
		ref, err := loaders.LoadImage(opts.reference)
		if err != nil {
			return fmt.Errorf("failed to load reference: %w", err)
		}
		// Compare what was written, not the unquantized framebuffer
		written, err := loaders.LoadImage(filename)
		if err != nil {
			return fmt.Errorf("failed to reload render: %w", err)
		}
		diff, err := loaders.MaxDifference(written, ref)
		if err != nil {
			return fmt.Errorf("failed to compare with reference: %w", err)
		}
		fmt.Fprintf(output, "Largest channel difference from %s: %.4f\n", opts.reference, diff)
	}

	return nil
}

// renderSettings combines the scene's recommendations with command line overrides
func renderSettings(s *scene.Scene, opts options) (int, int, integrator.Config) {
	width := s.SamplingConfig.Width
	height := s.SamplingConfig.Height
	if opts.width > 0 {
		width = opts.width
	}
	if opts.height > 0 {
		height = opts.height
	}

	config := integrator.DefaultConfig()
	if s.SamplingConfig.MaxDepth > 0 {
		config.MaxDepth = s.SamplingConfig.MaxDepth
	}
	if opts.depth > 0 {
		config.MaxDepth = opts.depth
	}
	config.Background = s.Background
	config.Policy = opts.policy

	return width, height, config
}

// createScene creates a scene based on the scene type string
func createScene(sceneType string) (*scene.Scene, error) {
	return loaders.ResolveScene(sceneType, scenesDir)
}

// createOutputDir returns the output directory for a scene, output/<name>
func createOutputDir(sceneType string) string {
	return filepath.Join("output", loaders.SceneOutputName(sceneType))
}

// listScenes prints the built-in scenes and any JSON scenes on disk
func listScenes(output io.Writer) error {
	fmt.Fprintln(output, "Built-in scenes:")
	for _, info := range scene.ListBuiltInScenes() {
		fmt.Fprintf(output, "  %-14s %s\n", info.ID, info.Description)
	}

	files, err := scene.ListSceneFiles(scenesDir)
	if err != nil {
		return err
	}
	if len(files) > 0 {
		fmt.Fprintln(output, "Scene files:")
		for _, info := range files {
			fmt.Fprintf(output, "  %-14s %s\n", info.FilePath, info.Name)
		}
	}
	return nil
}
