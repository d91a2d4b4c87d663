// Package pdf provides sampleable direction distributions used for importance
// sampling in the path integrator.
package pdf

import (
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
)

// PDF is a probability density over directions that can also be sampled
type PDF interface {
	// Value returns the density for sampling the given direction (>= 0)
	Value(direction core.Vec3) float64

	// Generate samples a direction distributed according to Value
	Generate(sampler core.Sampler) core.Vec3
}

// CosinePDF is the cosine-weighted hemisphere around a surface normal
type CosinePDF struct {
	uvw core.ONB
}

// NewCosinePDF creates a cosine-weighted hemisphere PDF around w
func NewCosinePDF(w core.Vec3) *CosinePDF {
	return &CosinePDF{uvw: core.NewONB(w)}
}

// Value returns cos(θ)/π, or 0 below the surface
func (c *CosinePDF) Value(direction core.Vec3) float64 {
	cosTheta := direction.Normalize().Dot(c.uvw.W)
	if cosTheta <= 0 {
		return 0
	}
	return cosTheta / math.Pi
}

// Generate samples a cosine-weighted direction in the hemisphere
func (c *CosinePDF) Generate(sampler core.Sampler) core.Vec3 {
	return c.uvw.Local(core.RandomCosineDirection(sampler.Get2D()))
}

// SpherePDF is uniform over the full sphere of directions
type SpherePDF struct{}

// NewSpherePDF creates a uniform sphere PDF
func NewSpherePDF() SpherePDF {
	return SpherePDF{}
}

// Value returns 1/(4π) for every direction
func (SpherePDF) Value(direction core.Vec3) float64 {
	return 1.0 / (4.0 * math.Pi)
}

// Generate samples a uniform unit direction
func (SpherePDF) Generate(sampler core.Sampler) core.Vec3 {
	return core.SampleOnUnitSphere(sampler.Get2D())
}
