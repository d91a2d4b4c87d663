package scene

import (
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/integrator"
	"github.com/df07/go-pathtracer/pkg/material"
)

// NewCornellScene creates a classic Cornell box scene with quad walls, area
// lighting and two rotated blocks
func NewCornellScene(cameraOverrides ...geometry.CameraConfig) *Scene {
	cameraConfig := mergeCamera(geometry.CameraConfig{
		Center:        core.NewVec3(278, 278, -800), // Position camera outside the box looking in
		LookAt:        core.NewVec3(278, 278, 0),    // Look at the center of the box
		Up:            core.NewVec3(0, 1, 0),        // Standard up direction
		Width:         400,
		AspectRatio:   1.0,  // Square aspect ratio for Cornell box
		VFov:          40.0, // Field of view
		Aperture:      0.0,  // No depth of field for Cornell box
		FocusDistance: 0.0,  // Auto-calculate focus distance
	}, cameraOverrides)

	s := &Scene{
		CameraConfig: cameraConfig,
		Background:   integrator.NewConstantBackground(core.Vec3{}), // Closed box, black outside
		SamplingConfig: SamplingConfig{
			SamplesPerPixel:           150,
			MaxDepth:                  40,
			RussianRouletteMinBounces: 4,
			AdaptiveMinSamples:        0.15,
			AdaptiveThreshold:         0.01,
		},
	}

	// Create materials
	white := material.NewLambertian(core.NewVec3(0.73, 0.73, 0.73))
	red := material.NewLambertian(core.NewVec3(0.65, 0.05, 0.05))
	green := material.NewLambertian(core.NewVec3(0.12, 0.45, 0.15))

	// Cornell box dimensions (standard 555x555x555 units)
	boxSize := 555.0

	s.Shapes = append(s.Shapes,
		// Left wall (green) - YZ plane at x=boxSize
		geometry.NewQuad(core.NewVec3(boxSize, 0, 0), core.NewVec3(0, boxSize, 0), core.NewVec3(0, 0, boxSize), green),
		// Right wall (red) - YZ plane at x=0
		geometry.NewQuad(core.NewVec3(0, 0, 0), core.NewVec3(0, boxSize, 0), core.NewVec3(0, 0, boxSize), red),
		// Floor
		geometry.NewQuad(core.NewVec3(0, 0, 0), core.NewVec3(boxSize, 0, 0), core.NewVec3(0, 0, boxSize), white),
		// Ceiling
		geometry.NewQuad(core.NewVec3(boxSize, boxSize, boxSize), core.NewVec3(-boxSize, 0, 0), core.NewVec3(0, 0, -boxSize), white),
		// Back wall
		geometry.NewQuad(core.NewVec3(0, 0, boxSize), core.NewVec3(boxSize, 0, 0), core.NewVec3(0, boxSize, 0), white),
	)

	// Ceiling light, just below the ceiling
	s.AddQuadLight(
		core.NewVec3(343, boxSize-1, 332), // corner
		core.NewVec3(-130, 0, 0),          // u vector (X direction)
		core.NewVec3(0, 0, -105),          // v vector (Z direction)
		core.NewVec3(15.0, 15.0, 15.0),    // bright white emission
	)

	// Tall block, turned toward the light
	tallBlock := geometry.NewBox(core.NewVec3(0, 0, 0), core.NewVec3(165, 330, 165), white)
	s.Shapes = append(s.Shapes, geometry.NewTranslate(geometry.NewRotateY(tallBlock, 15), core.NewVec3(265, 0, 295)))

	// Short block, turned the other way
	shortBlock := geometry.NewBox(core.NewVec3(0, 0, 0), core.NewVec3(165, 165, 165), white)
	s.Shapes = append(s.Shapes, geometry.NewTranslate(geometry.NewRotateY(shortBlock, -18), core.NewVec3(130, 0, 65)))

	return s
}
