package geometry

import (
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
)

// Hittable is anything a ray can be intersected with
type Hittable interface {
	// Hit returns the nearest intersection with t inside rayT
	Hit(ray core.Ray, rayT core.Interval) (*material.HitRecord, bool)
	BoundingBox() AABB
}

// Shape is a scene object that can also be importance sampled as a light
type Shape interface {
	Hittable

	// PDFValue returns the solid-angle density of sampling direction from origin
	// toward this shape. It is 0 when the direction misses the shape.
	PDFValue(origin, direction core.Vec3) float64

	// Random returns a (not necessarily unit) direction from origin toward a point on the shape
	Random(origin core.Vec3, sampler core.Sampler) core.Vec3
}

// lightSampleInterval is the range used when casting rays to evaluate a light PDF
var lightSampleInterval = core.NewInterval(0.001, math.Inf(1))
