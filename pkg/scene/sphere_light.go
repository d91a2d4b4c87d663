package scene

import (
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/integrator"
	"github.com/df07/go-pathtracer/pkg/material"
)

// NewSphereLightScene creates a white unit sphere at the origin lit by one small
// quad light, with the camera looking straight down from between the two.
// Only one bounce is traced, so every pixel is direct lighting.
func NewSphereLightScene(cameraOverrides ...geometry.CameraConfig) *Scene {
	cameraConfig := mergeCamera(geometry.CameraConfig{
		Center:      core.NewVec3(0, 2.5, 0),
		LookAt:      core.NewVec3(0, 0, 0),
		Up:          core.NewVec3(0, 0, -1), // Looking straight down, so up is -Z
		Width:       64,
		AspectRatio: 1.0,
		VFov:        60.0,
	}, cameraOverrides)

	s := &Scene{
		CameraConfig: cameraConfig,
		Background:   integrator.NewConstantBackground(core.Vec3{}),
		SamplingConfig: SamplingConfig{
			SamplesPerPixel: 16,
			MaxDepth:        1,
		},
	}

	s.Shapes = append(s.Shapes, geometry.NewSphere(core.NewVec3(0, 0, 0), 1, material.NewLambertian(core.NewVec3(1, 1, 1))))

	// Above the camera, facing down
	s.AddQuadLight(
		core.NewVec3(-0.5, 3, -0.5),
		core.NewVec3(1, 0, 0),
		core.NewVec3(0, 0, 1),
		core.NewVec3(15, 15, 15),
	)

	return s
}
