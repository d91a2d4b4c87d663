package scene

import (
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/integrator"
	"github.com/df07/go-pathtracer/pkg/material"
)

// NewPyramidScene creates a triangle pyramid on a ground quad under a quad light
func NewPyramidScene(cameraOverrides ...geometry.CameraConfig) *Scene {
	cameraConfig := mergeCamera(geometry.CameraConfig{
		Center:      core.NewVec3(3, 2.5, 5),
		LookAt:      core.NewVec3(0, 0.75, 0),
		Up:          core.NewVec3(0, 1, 0),
		Width:       400,
		AspectRatio: 4.0 / 3.0,
		VFov:        35.0,
	}, cameraOverrides)

	s := &Scene{
		CameraConfig: cameraConfig,
		Background:   integrator.NewConstantBackground(core.NewVec3(0.05, 0.05, 0.08)),
		SamplingConfig: SamplingConfig{
			SamplesPerPixel:           64,
			MaxDepth:                  20,
			RussianRouletteMinBounces: 5,
		},
	}

	ground := material.NewTexturedLambertian(material.NewChecker(1.0,
		core.NewVec3(0.7, 0.7, 0.7),
		core.NewVec3(0.2, 0.2, 0.25),
	))
	stone := material.NewLambertian(core.NewVec3(0.8, 0.6, 0.3))

	s.Shapes = append(s.Shapes, NewGroundQuad(core.NewVec3(0, 0, 0), 40, ground))

	// Four sides meeting at the apex; the ground closes the base
	apex := core.NewVec3(0, 1.5, 0)
	base := []core.Vec3{
		core.NewVec3(-1, 0, -1),
		core.NewVec3(1, 0, -1),
		core.NewVec3(1, 0, 1),
		core.NewVec3(-1, 0, 1),
	}
	sides := geometry.NewShapeList()
	for i := range base {
		sides.Add(geometry.NewTriangle(base[i], base[(i+1)%len(base)], apex, stone))
	}
	s.Shapes = append(s.Shapes, geometry.NewRotateY(sides, 30))

	// Glass sphere beside the pyramid
	s.Shapes = append(s.Shapes, geometry.NewSphere(core.NewVec3(1.8, 0.4, 0.8), 0.4, material.NewDielectric(1.5)))

	s.AddQuadLight(
		core.NewVec3(-1, 4, -1),
		core.NewVec3(2, 0, 0),
		core.NewVec3(0, 0, 2),
		core.NewVec3(8, 8, 8),
	)

	return s
}
