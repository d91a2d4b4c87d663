package integrator

import (
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
)

// Integrator defines the interface for light transport algorithms
type Integrator interface {
	// RayColor estimates the radiance arriving along ray. lights may be nil or
	// empty, in which case only the materials' own distributions are sampled.
	RayColor(ray core.Ray, world geometry.Hittable, lights *geometry.ShapeList, sampler core.Sampler) core.Vec3
}

// Background is the radiance seen by rays that escape the scene. Directions are
// blended from Bottom (straight down) to Top (straight up).
type Background struct {
	Top    core.Vec3
	Bottom core.Vec3
}

// NewConstantBackground returns a background of a single color
func NewConstantBackground(color core.Vec3) Background {
	return Background{Top: color, Bottom: color}
}

// NewGradientBackground returns a vertical gradient background
func NewGradientBackground(top, bottom core.Vec3) Background {
	return Background{Top: top, Bottom: bottom}
}

// Color returns the background radiance in the given direction
func (b Background) Color(direction core.Vec3) core.Vec3 {
	if b.Top == b.Bottom {
		return b.Top
	}

	// Map the y-component from [-1,1] to [0,1]
	t := 0.5 * (direction.Normalize().Y + 1.0)

	// Linear interpolation: (1-t)*bottom + t*top
	return b.Bottom.Multiply(1.0 - t).Add(b.Top.Multiply(t))
}
