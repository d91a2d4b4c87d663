package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image/png"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/integrator"
	"github.com/df07/go-pathtracer/pkg/renderer"
	"github.com/df07/go-pathtracer/pkg/scene"
	"github.com/tidwall/gjson"
)

var errInvalidConfig = errors.New("invalid JSON config")

// renderConfig holds everything the CLI can set. Zero values keep the scene's own settings.
type renderConfig struct {
	Scene           string
	Width           int
	Height          int
	SamplesPerPixel int
	MaxDepth        int
	Passes          int
	Workers         int
	Seed            int64
	VFov            float64
	Aperture        float64
	BackgroundTop   *core.Vec3
	BackgroundBot   *core.Vec3
	Out             string
}

func defaultRenderConfig() renderConfig {
	return renderConfig{
		Scene:  "default",
		Passes: 1,
		Seed:   42,
	}
}

func main() {
	cfg := defaultRenderConfig()

	configPath := flag.String("config", "", "JSON file with render settings; flags override it")
	sceneName := flag.String("scene", cfg.Scene, "Scene name (see -help)")
	width := flag.Int("width", 0, "Image width in pixels (0 = scene default)")
	height := flag.Int("height", 0, "Image height in pixels (0 = derived from the scene's aspect ratio)")
	spp := flag.Int("spp", 0, "Samples per pixel (0 = scene default)")
	depth := flag.Int("depth", 0, "Maximum bounce depth (0 = scene default)")
	passes := flag.Int("passes", cfg.Passes, "Number of progressive passes")
	workers := flag.Int("workers", 0, "Number of parallel workers (0 = CPU count)")
	seed := flag.Int64("seed", cfg.Seed, "Base random seed")
	out := flag.String("out", "", "Output PNG path (default output/<scene>/render_<timestamp>.png)")
	help := flag.Bool("help", false, "Show help information")
	flag.Parse()

	if *help {
		fmt.Println("Path Tracer")
		fmt.Println("Usage: pathtracer [options]")
		fmt.Println()
		fmt.Println("Options:")
		flag.PrintDefaults()
		fmt.Println()
		fmt.Println("Available scenes:")
		for _, info := range scene.ListScenes() {
			fmt.Printf("  %-12s - %s\n", info.ID, info.Description)
		}
		return
	}

	if *configPath != "" {
		loaded, err := loadRenderConfig(*configPath, cfg)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}

	// Explicit flags win over the config file
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "scene":
			cfg.Scene = *sceneName
		case "width":
			cfg.Width = *width
		case "height":
			cfg.Height = *height
		case "spp":
			cfg.SamplesPerPixel = *spp
		case "depth":
			cfg.MaxDepth = *depth
		case "passes":
			cfg.Passes = *passes
		case "workers":
			cfg.Workers = *workers
		case "seed":
			cfg.Seed = *seed
		case "out":
			cfg.Out = *out
		}
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	filename, err := run(ctx, cfg, renderer.NewDefaultLogger())
	if filename != "" {
		fmt.Printf("Render saved as %s\n", filename)
	}
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

// loadRenderConfig overlays the settings found in a JSON file onto base.
// Unknown keys are ignored.
func loadRenderConfig(path string, base renderConfig) (renderConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return base, &core.SceneLoadError{Source: path, Err: err}
	}
	if !gjson.ValidBytes(data) {
		return base, &core.SceneLoadError{Source: path, Err: errInvalidConfig}
	}

	cfg := base
	doc := gjson.ParseBytes(data)

	if v := doc.Get("scene"); v.Exists() {
		cfg.Scene = v.String()
	}
	if v := doc.Get("width"); v.Exists() {
		cfg.Width = int(v.Int())
	}
	if v := doc.Get("height"); v.Exists() {
		cfg.Height = int(v.Int())
	}
	if v := doc.Get("samplesPerPixel"); v.Exists() {
		cfg.SamplesPerPixel = int(v.Int())
	}
	if v := doc.Get("maxDepth"); v.Exists() {
		cfg.MaxDepth = int(v.Int())
	}
	if v := doc.Get("passes"); v.Exists() {
		cfg.Passes = int(v.Int())
	}
	if v := doc.Get("workers"); v.Exists() {
		cfg.Workers = int(v.Int())
	}
	if v := doc.Get("seed"); v.Exists() {
		cfg.Seed = v.Int()
	}
	if v := doc.Get("out"); v.Exists() {
		cfg.Out = v.String()
	}
	if v := doc.Get("camera.vfov"); v.Exists() {
		cfg.VFov = v.Float()
	}
	if v := doc.Get("camera.aperture"); v.Exists() {
		cfg.Aperture = v.Float()
	}

	backgrounds := []struct {
		key string
		dst **core.Vec3
	}{
		{"background.top", &cfg.BackgroundTop},
		{"background.bottom", &cfg.BackgroundBot},
	}
	for _, bg := range backgrounds {
		v := doc.Get(bg.key)
		if !v.Exists() {
			continue
		}
		color, err := parseColor(v)
		if err != nil {
			return base, &core.SceneLoadError{Source: path, Err: fmt.Errorf("%s: %w", bg.key, err)}
		}
		*bg.dst = &color
	}

	return cfg, nil
}

// parseColor reads an [r, g, b] array
func parseColor(v gjson.Result) (core.Vec3, error) {
	parts := v.Array()
	if !v.IsArray() || len(parts) != 3 {
		return core.Vec3{}, fmt.Errorf("expected [r, g, b], got %s: %w", v.Raw, errInvalidConfig)
	}
	return core.NewVec3(parts[0].Float(), parts[1].Float(), parts[2].Float()), nil
}

// buildScene creates the named scene, applies the overrides and preprocesses it
func buildScene(cfg renderConfig) (*scene.Scene, error) {
	camera := geometry.CameraConfig{
		Width:    cfg.Width,
		VFov:     cfg.VFov,
		Aperture: cfg.Aperture,
	}
	if cfg.Height > 0 {
		width := cfg.Width
		if width <= 0 {
			// Keep the preset's width and fit the aspect ratio to the requested height
			preset, err := scene.NewSceneByName(cfg.Scene)
			if err != nil {
				return nil, err
			}
			width = preset.CameraConfig.Width
		}
		camera.AspectRatio = float64(width) / float64(cfg.Height)
	}

	s, err := scene.NewSceneByName(cfg.Scene, camera)
	if err != nil {
		return nil, err
	}

	if cfg.SamplesPerPixel > 0 {
		s.SamplingConfig.SamplesPerPixel = cfg.SamplesPerPixel
	}
	if cfg.MaxDepth > 0 {
		s.SamplingConfig.MaxDepth = cfg.MaxDepth
	}
	if cfg.BackgroundTop != nil || cfg.BackgroundBot != nil {
		top, bottom := s.Background.Top, s.Background.Bottom
		if cfg.BackgroundTop != nil {
			top = *cfg.BackgroundTop
		}
		if cfg.BackgroundBot != nil {
			bottom = *cfg.BackgroundBot
		}
		s.Background = integrator.NewGradientBackground(top, bottom)
	}

	if err := s.Preprocess(); err != nil {
		return nil, err
	}
	return s, nil
}

// run renders the configured scene and writes a PNG. On cancellation the
// partial image is still written and the context error returned.
func run(ctx context.Context, cfg renderConfig, logger core.Logger) (string, error) {
	s, err := buildScene(cfg)
	if err != nil {
		return "", err
	}

	width, height := s.ImageSize()
	logger.Printf("Rendering %s at %dx%d, %d samples per pixel, max depth %d\n",
		cfg.Scene, width, height, s.SamplingConfig.SamplesPerPixel, s.SamplingConfig.MaxDepth)
	bvhStats := s.BVH.Stats()
	logger.Printf("BVH: %d nodes, %d leaves, depth %d\n", bvhStats.TotalNodes, bvhStats.LeafNodes, bvhStats.MaxDepth)

	config := renderer.DefaultProgressiveConfig()
	config.MaxSamplesPerPixel = s.SamplingConfig.SamplesPerPixel
	config.MaxPasses = cfg.Passes
	config.NumWorkers = cfg.Workers
	config.Seed = cfg.Seed

	pr, err := renderer.NewProgressiveRaytracer(s, config, logger)
	if err != nil {
		return "", err
	}

	startTime := time.Now()
	fb, stats, renderErr := pr.Render(ctx)
	logger.Printf("Render finished in %v\n", time.Since(startTime))
	logger.Printf("Samples per pixel: %.1f (range %d - %d)\n",
		stats.AverageSamples, stats.MinSamples, stats.MaxSamplesUsed)

	filename := cfg.Out
	if filename == "" {
		timestamp := time.Now().Format("20060102_150405")
		filename = filepath.Join("output", cfg.Scene, fmt.Sprintf("render_%s.png", timestamp))
	}
	if err := savePNG(filename, fb); err != nil {
		return "", err
	}

	return filename, renderErr
}

func savePNG(filename string, fb *renderer.Framebuffer) error {
	if err := os.MkdirAll(filepath.Dir(filename), 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("creating file: %w", err)
	}
	defer file.Close()

	if err := png.Encode(file, fb.ToImage()); err != nil {
		return fmt.Errorf("saving PNG: %w", err)
	}
	return nil
}
