package scene

import (
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/integrator"
	"github.com/df07/go-pathtracer/pkg/material"
)

// NewDefaultScene creates a default scene with spheres, ground, and camera
func NewDefaultScene(cameraOverrides ...geometry.CameraConfig) *Scene {
	cameraConfig := mergeCamera(geometry.CameraConfig{
		Center:        core.NewVec3(0, 0.75, 2), // Position camera higher and farther back
		LookAt:        core.NewVec3(0, 0.5, -1), // Look at the sphere center
		Up:            core.NewVec3(0, 1, 0),    // Standard up direction
		Width:         400,
		AspectRatio:   16.0 / 9.0,
		VFov:          40.0, // Narrower field of view for focus effect
		Aperture:      0.05, // Strong depth of field blur
		FocusDistance: 0.0,  // Auto-calculate focus distance
	}, cameraOverrides)

	s := &Scene{
		CameraConfig: cameraConfig,
		Background: integrator.NewGradientBackground(
			core.NewVec3(0.5, 0.7, 1.0), // topColor (blue sky)
			core.NewVec3(1.0, 1.0, 1.0), // bottomColor (white ground)
		),
		SamplingConfig: SamplingConfig{
			SamplesPerPixel:           200,
			MaxDepth:                  50,
			RussianRouletteMinBounces: 20,   // Need a lot of bounces for complex glass
			AdaptiveMinSamples:        0.15, // 15% of max samples minimum for adaptive sampling
			AdaptiveThreshold:         0.01, // 1% relative error threshold
		},
	}

	// Create materials
	groundChecker := material.NewTexturedLambertian(material.NewChecker(0.5,
		core.NewVec3(0.8, 0.8, 0.0).Multiply(0.6),
		core.NewVec3(0.9, 0.9, 0.9),
	))
	lambertianBlue := material.NewLambertian(core.NewVec3(0.1, 0.2, 0.5))
	lambertianRed := material.NewLambertian(core.NewVec3(0.65, 0.25, 0.2))
	metalSilver := material.NewMetal(core.NewVec3(0.8, 0.8, 0.8), 0.0)
	metalGold := material.NewMetal(core.NewVec3(0.8, 0.6, 0.2), 0.3)
	materialGlass := material.NewDielectric(1.5)
	materialAirBubble := material.NewDielectric(1.0 / 1.5)

	s.Shapes = append(s.Shapes,
		// Ground quad instead of infinite plane (large but finite for proper bounds)
		NewGroundQuad(core.NewVec3(0, 0, 0), 10000.0, groundChecker),

		geometry.NewSphere(core.NewVec3(0, 0.5, -1), 0.5, lambertianRed),
		geometry.NewSphere(core.NewVec3(-1, 0.5, -1), 0.5, metalSilver),
		geometry.NewSphere(core.NewVec3(1, 0.5, -1), 0.5, metalGold),
		geometry.NewSphere(core.NewVec3(0.5, 0.25, -0.5), 0.25, materialGlass),

		// Hollow glass sphere with a blue sphere inside
		geometry.NewSphere(core.NewVec3(-0.5, 0.25, -0.5), 0.25, materialGlass),
		geometry.NewSphere(core.NewVec3(-0.5, 0.25, -0.5), 0.24, materialAirBubble),
		geometry.NewSphere(core.NewVec3(-0.5, 0.25, -0.5), 0.20, lambertianBlue),
	)

	// Distant warm sun
	s.AddSphereLight(
		core.NewVec3(30, 30.5, 15),     // position
		10,                             // radius
		core.NewVec3(15.0, 14.0, 13.0), // emission
	)

	return s
}
