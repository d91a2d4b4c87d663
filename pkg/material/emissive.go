package material

import (
	"github.com/df07/go-pathtracer/pkg/core"
)

// DiffuseLight is an area light emitter with constant radiance
type DiffuseLight struct {
	Emission core.Vec3 // Emitted radiance
}

// NewDiffuseLight creates a new emissive material
func NewDiffuseLight(emission core.Vec3) *DiffuseLight {
	return &DiffuseLight{Emission: emission}
}

// Scatter never scatters: lights absorb all incoming rays
func (e *DiffuseLight) Scatter(rayIn core.Ray, hit HitGeometry, sampler core.Sampler) (ScatterResult, bool) {
	return ScatterResult{}, false
}

// Emitted returns the fixed radiance of the light
func (e *DiffuseLight) Emitted(rayIn core.Ray, hit HitGeometry) core.Vec3 {
	return e.Emission
}

// ScatteringPDF is zero since the light never scatters
func (e *DiffuseLight) ScatteringPDF(rayIn core.Ray, hit HitGeometry, scattered core.Ray) float64 {
	return 0
}

// Empty neither scatters nor emits
type Empty struct{}

// NewEmpty returns the neutral material
func NewEmpty() Empty {
	return Empty{}
}

// Scatter always absorbs the incoming ray
func (Empty) Scatter(rayIn core.Ray, hit HitGeometry, sampler core.Sampler) (ScatterResult, bool) {
	return ScatterResult{}, false
}

// Emitted returns black
func (Empty) Emitted(rayIn core.Ray, hit HitGeometry) core.Vec3 {
	return core.Vec3{}
}

// ScatteringPDF returns 0 since nothing is scattered
func (Empty) ScatteringPDF(rayIn core.Ray, hit HitGeometry, scattered core.Ray) float64 {
	return 0
}
