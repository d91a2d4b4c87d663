package pdf

import "github.com/df07/go-pathtracer/pkg/core"

// Target is anything that can be sampled by direction from a reference point,
// typically a light shape or a list of light shapes.
type Target interface {
	// PDFValue returns the solid-angle density of sampling direction from origin
	PDFValue(origin, direction core.Vec3) float64

	// Random returns a direction from origin toward a point on the target
	Random(origin core.Vec3, sampler core.Sampler) core.Vec3
}

// ObjectPDF samples directions toward a target from a fixed origin.
// The target is shared scene data and is never modified.
type ObjectPDF struct {
	target Target
	origin core.Vec3
}

// NewObjectPDF creates a PDF that samples target as seen from origin
func NewObjectPDF(target Target, origin core.Vec3) *ObjectPDF {
	return &ObjectPDF{target: target, origin: origin}
}

// Value returns the target's solid-angle density for direction
func (o *ObjectPDF) Value(direction core.Vec3) float64 {
	return o.target.PDFValue(o.origin, direction)
}

// Generate samples a direction toward the target
func (o *ObjectPDF) Generate(sampler core.Sampler) core.Vec3 {
	return o.target.Random(o.origin, sampler)
}
