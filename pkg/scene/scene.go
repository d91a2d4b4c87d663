package scene

import (
	"fmt"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/integrator"
	"github.com/df07/go-pathtracer/pkg/material"
)

// Scene contains all the elements needed for rendering. It is assembled by a
// preset or the caller, frozen by Preprocess, and read-only while rendering.
type Scene struct {
	CameraConfig   geometry.CameraConfig
	Shapes         []geometry.Shape // Objects in the scene, including emitters
	Lights         []geometry.Shape // Shapes sampled directly for next-event estimation
	Background     integrator.Background
	SamplingConfig SamplingConfig

	// Built by Preprocess
	Camera    *geometry.Camera
	BVH       *geometry.BVH       // Acceleration structure for ray-object intersection
	LightList *geometry.ShapeList // Light target for importance sampling
}

// SamplingConfig contains rendering configuration
type SamplingConfig struct {
	SamplesPerPixel           int     // Number of rays per pixel
	MaxDepth                  int     // Maximum ray bounce depth
	RussianRouletteMinBounces int     // Minimum bounces before Russian Roulette can activate (0 disables it)
	AdaptiveMinSamples        float64 // Minimum samples as fraction of max samples (0.0-1.0)
	AdaptiveThreshold         float64 // Relative error threshold for adaptive convergence (0 disables it)
}

// DefaultSamplingConfig returns sensible default values
func DefaultSamplingConfig() SamplingConfig {
	return SamplingConfig{
		SamplesPerPixel:           100,
		MaxDepth:                  50,
		RussianRouletteMinBounces: 0,
		AdaptiveMinSamples:        0.15,
		AdaptiveThreshold:         0,
	}
}

// NewGroundQuad creates a large quad to replace infinite ground planes
// Creates a horizontal quad centered at the given point with normal pointing up (0,1,0)
func NewGroundQuad(center core.Vec3, size float64, mat material.Material) *geometry.Quad {
	// Create corner at bottom-left of the quad
	corner := core.NewVec3(center.X-size/2, center.Y, center.Z-size/2)
	// u × v = (0,0,size) × (size,0,0) = (0,size²,0) which normalizes to (0,1,0)
	u := core.NewVec3(0, 0, size)
	v := core.NewVec3(size, 0, 0)
	return geometry.NewQuad(corner, u, v, mat)
}

// Preprocess validates the scene and builds the camera, BVH and light list.
// It must complete before rendering starts.
func (s *Scene) Preprocess() error {
	if len(s.Shapes) == 0 {
		return fmt.Errorf("scene has no shapes: %w", core.ErrMalformedScene)
	}
	if s.SamplingConfig.SamplesPerPixel <= 0 {
		return fmt.Errorf("samples per pixel %d: %w", s.SamplingConfig.SamplesPerPixel, core.ErrMalformedScene)
	}
	if s.SamplingConfig.MaxDepth < 0 {
		return fmt.Errorf("max depth %d: %w", s.SamplingConfig.MaxDepth, core.ErrMalformedScene)
	}

	camera, err := geometry.NewCamera(s.CameraConfig)
	if err != nil {
		return fmt.Errorf("building camera: %w", err)
	}

	bvh, err := geometry.NewBVH(s.Shapes)
	if err != nil {
		return err
	}

	s.Camera = camera
	s.BVH = bvh
	s.LightList = geometry.NewShapeList(s.Lights...)
	return nil
}

// IntegratorConfig returns the path tracer settings for this scene
func (s *Scene) IntegratorConfig() integrator.Config {
	return integrator.Config{
		MaxDepth:                  s.SamplingConfig.MaxDepth,
		RussianRouletteMinBounces: s.SamplingConfig.RussianRouletteMinBounces,
		Background:                s.Background,
	}
}

// ImageSize returns the output resolution implied by the camera configuration
func (s *Scene) ImageSize() (width, height int) {
	if s.Camera != nil {
		return s.Camera.ImageSize()
	}
	return s.CameraConfig.Width, 0
}

// AddSphereLight adds a spherical area light to the scene
func (s *Scene) AddSphereLight(center core.Vec3, radius float64, emission core.Vec3) *geometry.Sphere {
	light := geometry.NewSphere(center, radius, material.NewDiffuseLight(emission))
	s.AddLight(light)
	return light
}

// AddQuadLight adds a rectangular area light to the scene
func (s *Scene) AddQuadLight(corner, u, v core.Vec3, emission core.Vec3) *geometry.Quad {
	light := geometry.NewQuad(corner, u, v, material.NewDiffuseLight(emission))
	s.AddLight(light)
	return light
}

// AddLight adds an emissive shape that is both intersected and sampled
func (s *Scene) AddLight(light geometry.Shape) {
	s.Shapes = append(s.Shapes, light)
	s.Lights = append(s.Lights, light)
}

// mergeCamera applies the first override, if any, to a preset's camera
func mergeCamera(base geometry.CameraConfig, overrides []geometry.CameraConfig) geometry.CameraConfig {
	if len(overrides) > 0 {
		return geometry.MergeCameraConfig(base, overrides[0])
	}
	return base
}
