package scene

import (
	"errors"
	"math"
	"testing"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/material"
)

func TestPresetsPreprocess(t *testing.T) {
	for _, info := range ListScenes() {
		t.Run(info.ID, func(t *testing.T) {
			s, err := NewSceneByName(info.ID)
			if err != nil {
				t.Fatalf("NewSceneByName(%q): %v", info.ID, err)
			}
			if err := s.Preprocess(); err != nil {
				t.Fatalf("Preprocess: %v", err)
			}
			if s.BVH == nil || s.Camera == nil || s.LightList == nil {
				t.Fatal("Expected Preprocess to build camera, BVH and light list")
			}
			if s.LightList.Len() == 0 {
				t.Error("Expected every preset to have at least one light")
			}
			if got := s.BVH.Stats().LeafNodes; got != len(s.Shapes) {
				t.Errorf("Expected %d BVH leaves, got %d", len(s.Shapes), got)
			}
		})
	}
}

func TestListScenesSorted(t *testing.T) {
	scenes := ListScenes()
	if len(scenes) != len(presets) {
		t.Fatalf("Expected %d scenes, got %d", len(presets), len(scenes))
	}
	for i := 1; i < len(scenes); i++ {
		if scenes[i-1].ID >= scenes[i].ID {
			t.Errorf("Scenes not sorted: %q before %q", scenes[i-1].ID, scenes[i].ID)
		}
	}
}

func TestNewSceneByName_Unknown(t *testing.T) {
	_, err := NewSceneByName("no-such-scene")
	if err == nil {
		t.Fatal("Expected error for unknown scene")
	}

	var loadErr *core.SceneLoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("Expected *core.SceneLoadError, got %T", err)
	}
	if loadErr.Source != "no-such-scene" {
		t.Errorf("Expected source %q, got %q", "no-such-scene", loadErr.Source)
	}
	if !errors.Is(err, ErrUnknownScene) {
		t.Error("Expected error to wrap ErrUnknownScene")
	}
	if errors.Is(err, core.ErrMalformedScene) {
		t.Error("Load errors must be distinct from malformed scenes")
	}
}

func TestCameraOverrides(t *testing.T) {
	s, err := NewSceneByName("cornell-box", geometry.CameraConfig{Width: 32})
	if err != nil {
		t.Fatalf("NewSceneByName: %v", err)
	}
	if err := s.Preprocess(); err != nil {
		t.Fatalf("Preprocess: %v", err)
	}

	width, height := s.ImageSize()
	if width != 32 || height != 32 {
		t.Errorf("Expected 32x32 image, got %dx%d", width, height)
	}
	if s.CameraConfig.VFov != 40 {
		t.Errorf("Expected preset fov to survive override, got %f", s.CameraConfig.VFov)
	}
}

func validScene() *Scene {
	s := &Scene{
		CameraConfig:   geometry.DefaultCameraConfig(),
		SamplingConfig: DefaultSamplingConfig(),
	}
	s.Shapes = append(s.Shapes, geometry.NewSphere(core.NewVec3(0, 0, -1), 0.5, material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5))))
	return s
}

func TestPreprocess_Malformed(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Scene)
	}{
		{"Empty scene", func(s *Scene) { s.Shapes = nil }},
		{"Zero samples", func(s *Scene) { s.SamplingConfig.SamplesPerPixel = 0 }},
		{"Negative depth", func(s *Scene) { s.SamplingConfig.MaxDepth = -1 }},
		{"Degenerate camera", func(s *Scene) { s.CameraConfig.LookAt = s.CameraConfig.Center }},
		{"Non-finite camera", func(s *Scene) { s.CameraConfig.Center = core.NewVec3(math.NaN(), 0, 0) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validScene()
			tt.modify(s)
			err := s.Preprocess()
			if !errors.Is(err, core.ErrMalformedScene) {
				t.Errorf("Expected ErrMalformedScene, got %v", err)
			}
		})
	}
}

func TestPreprocess_NoLights(t *testing.T) {
	s := validScene()
	if err := s.Preprocess(); err != nil {
		t.Fatalf("Preprocess: %v", err)
	}
	if s.LightList.Len() != 0 {
		t.Errorf("Expected empty light list, got %d", s.LightList.Len())
	}
}

func TestAddQuadLight(t *testing.T) {
	s := validScene()
	light := s.AddQuadLight(core.NewVec3(0, 2, 0), core.NewVec3(1, 0, 0), core.NewVec3(0, 0, 1), core.NewVec3(4, 4, 4))

	if len(s.Lights) != 1 || s.Lights[0] != light {
		t.Error("Expected light to be registered for sampling")
	}
	if s.Shapes[len(s.Shapes)-1] != light {
		t.Error("Expected light to be added to the intersectable shapes")
	}
	if _, ok := light.Material.(*material.DiffuseLight); !ok {
		t.Errorf("Expected diffuse light material, got %T", light.Material)
	}
}

func TestIntegratorConfig(t *testing.T) {
	s := NewCornellScene()
	config := s.IntegratorConfig()
	if config.MaxDepth != s.SamplingConfig.MaxDepth {
		t.Errorf("Expected max depth %d, got %d", s.SamplingConfig.MaxDepth, config.MaxDepth)
	}
	if config.RussianRouletteMinBounces != s.SamplingConfig.RussianRouletteMinBounces {
		t.Errorf("Expected RR min bounces %d, got %d", s.SamplingConfig.RussianRouletteMinBounces, config.RussianRouletteMinBounces)
	}
	if config.Background != s.Background {
		t.Error("Expected background to be carried over")
	}
}

func TestNewGroundQuadFacesUp(t *testing.T) {
	ground := NewGroundQuad(core.NewVec3(0, 0, 0), 10, nil)
	hit, ok := ground.Hit(core.NewRay(core.NewVec3(1, 1, 1), core.NewVec3(0, -1, 0)), core.NewInterval(0.001, math.Inf(1)))
	if !ok {
		t.Fatal("Expected hit on ground quad")
	}
	if !hit.FrontFace {
		t.Error("Expected downward ray to hit the front face of the ground")
	}
}
