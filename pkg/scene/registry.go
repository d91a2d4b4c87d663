package scene

import (
	"errors"
	"sort"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
)

// ErrUnknownScene is wrapped in a core.SceneLoadError for names with no preset
var ErrUnknownScene = errors.New("unknown scene")

// SceneInfo describes a built-in scene
type SceneInfo struct {
	ID          string `json:"id"`          // Unique identifier
	DisplayName string `json:"displayName"` // UI display name
	Description string `json:"description"` // Optional description
}

type preset struct {
	info  SceneInfo
	build func(cameraOverrides ...geometry.CameraConfig) *Scene
}

var presets = map[string]preset{
	"cornell-box": {
		info:  SceneInfo{ID: "cornell-box", DisplayName: "Cornell Box", Description: "Cornell box with two rotated blocks"},
		build: NewCornellScene,
	},
	"default": {
		info:  SceneInfo{ID: "default", DisplayName: "Default Scene", Description: "Diffuse, metal and glass spheres on a checkered ground"},
		build: NewDefaultScene,
	},
	"sphere-grid": {
		info:  SceneInfo{ID: "sphere-grid", DisplayName: "Sphere Grid", Description: "Grid of rainbow-colored metallic spheres"},
		build: NewSphereGridScene,
	},
	"pyramid": {
		info:  SceneInfo{ID: "pyramid", DisplayName: "Pyramid", Description: "Triangle pyramid lit by a quad light"},
		build: NewPyramidScene,
	},
	"sphere-light": {
		info:  SceneInfo{ID: "sphere-light", DisplayName: "Sphere and Light", Description: "White sphere under a small quad light, seen from above"},
		build: NewSphereLightScene,
	},
}

// ListScenes returns the built-in scenes sorted by ID
func ListScenes() []SceneInfo {
	scenes := make([]SceneInfo, 0, len(presets))
	for _, p := range presets {
		scenes = append(scenes, p.info)
	}
	sort.Slice(scenes, func(i, j int) bool {
		return scenes[i].ID < scenes[j].ID
	})
	return scenes
}

// NewSceneByName builds a preset scene. Unknown names are reported as a
// *core.SceneLoadError wrapping ErrUnknownScene.
func NewSceneByName(name string, cameraOverrides ...geometry.CameraConfig) (*Scene, error) {
	p, ok := presets[name]
	if !ok {
		return nil, &core.SceneLoadError{Source: name, Err: ErrUnknownScene}
	}
	return p.build(cameraOverrides...), nil
}
