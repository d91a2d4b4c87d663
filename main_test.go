package main

import (
	"context"
	"errors"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/scene"
	"github.com/google/go-cmp/cmp"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "render.json")
	if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestLoadRenderConfig(t *testing.T) {
	path := writeConfig(t, `{
		"scene": "cornell-box",
		"width": 120,
		"height": 80,
		"samplesPerPixel": 16,
		"maxDepth": 8,
		"passes": 3,
		"seed": 7,
		"camera": {"vfov": 35.5, "aperture": 0.1},
		"background": {"top": [0.1, 0.2, 0.3]},
		"unknownKey": true
	}`)

	got, err := loadRenderConfig(path, defaultRenderConfig())
	if err != nil {
		t.Fatalf("loadRenderConfig: %v", err)
	}

	top := core.NewVec3(0.1, 0.2, 0.3)
	want := renderConfig{
		Scene:           "cornell-box",
		Width:           120,
		Height:          80,
		SamplesPerPixel: 16,
		MaxDepth:        8,
		Passes:          3,
		Seed:            7,
		VFov:            35.5,
		Aperture:        0.1,
		BackgroundTop:   &top,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("loadRenderConfig mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadRenderConfig_FirstBadColorReported(t *testing.T) {
	path := writeConfig(t, `{"background": {"bottom": "red", "top": [1, 2]}}`)

	for i := 0; i < 20; i++ {
		_, err := loadRenderConfig(path, defaultRenderConfig())
		if err == nil || !strings.Contains(err.Error(), "background.top") {
			t.Fatalf("Expected error for background.top, got %v", err)
		}
	}
}

func TestLoadRenderConfig_Errors(t *testing.T) {
	tests := []struct {
		name string
		path func(t *testing.T) string
	}{
		{"Malformed JSON", func(t *testing.T) string { return writeConfig(t, `{"width": 10,`) }},
		{"Bad color", func(t *testing.T) string { return writeConfig(t, `{"background": {"top": [1, 2]}}`) }},
		{"Missing file", func(t *testing.T) string { return filepath.Join(t.TempDir(), "missing.json") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := tt.path(t)
			_, err := loadRenderConfig(path, defaultRenderConfig())

			var loadErr *core.SceneLoadError
			if !errors.As(err, &loadErr) {
				t.Fatalf("Expected *core.SceneLoadError, got %v", err)
			}
			if loadErr.Source != path {
				t.Errorf("Expected source %q, got %q", path, loadErr.Source)
			}
		})
	}
}

func TestBuildScene(t *testing.T) {
	cfg := defaultRenderConfig()
	cfg.Scene = "sphere-light"
	cfg.Width = 40
	cfg.Height = 20
	cfg.SamplesPerPixel = 3
	cfg.MaxDepth = 2

	s, err := buildScene(cfg)
	if err != nil {
		t.Fatalf("buildScene: %v", err)
	}

	width, height := s.ImageSize()
	if width != 40 || height != 20 {
		t.Errorf("Expected 40x20, got %dx%d", width, height)
	}
	if s.SamplingConfig.SamplesPerPixel != 3 || s.SamplingConfig.MaxDepth != 2 {
		t.Errorf("Expected sampling overrides, got %+v", s.SamplingConfig)
	}
}

func TestBuildScene_HeightOnly(t *testing.T) {
	cfg := defaultRenderConfig()
	cfg.Scene = "sphere-light"
	cfg.Height = 25

	preset, err := scene.NewSceneByName(cfg.Scene)
	if err != nil {
		t.Fatalf("NewSceneByName: %v", err)
	}

	s, err := buildScene(cfg)
	if err != nil {
		t.Fatalf("buildScene: %v", err)
	}

	width, height := s.ImageSize()
	if width != preset.CameraConfig.Width || height != 25 {
		t.Errorf("Expected %dx25, got %dx%d", preset.CameraConfig.Width, width, height)
	}
}

func TestBuildScene_Unknown(t *testing.T) {
	cfg := defaultRenderConfig()
	cfg.Scene = "nonexistent"

	_, err := buildScene(cfg)
	if !errors.Is(err, scene.ErrUnknownScene) {
		t.Errorf("Expected ErrUnknownScene, got %v", err)
	}
}

func TestRunWritesPNG(t *testing.T) {
	cfg := defaultRenderConfig()
	cfg.Scene = "sphere-light"
	cfg.Width = 16
	cfg.SamplesPerPixel = 2
	cfg.Out = filepath.Join(t.TempDir(), "out", "render.png")

	filename, err := run(context.Background(), cfg, testLogger{t})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if filename != cfg.Out {
		t.Errorf("Expected %s, got %s", cfg.Out, filename)
	}

	file, err := os.Open(filename)
	if err != nil {
		t.Fatalf("opening output: %v", err)
	}
	defer file.Close()

	img, err := png.Decode(file)
	if err != nil {
		t.Fatalf("decoding PNG: %v", err)
	}
	if img.Bounds().Dx() != 16 || img.Bounds().Dy() != 16 {
		t.Errorf("Expected 16x16 image, got %v", img.Bounds())
	}
}

func TestRunCancelledStillWritesPartialImage(t *testing.T) {
	cfg := defaultRenderConfig()
	cfg.Scene = "sphere-light"
	cfg.Width = 8
	cfg.Out = filepath.Join(t.TempDir(), "partial.png")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	filename, err := run(ctx, cfg, testLogger{t})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
	if _, statErr := os.Stat(filename); statErr != nil {
		t.Errorf("Expected partial image on disk: %v", statErr)
	}
}

type testLogger struct{ t *testing.T }

func (l testLogger) Printf(format string, args ...interface{}) {
	l.t.Logf(format, args...)
}
