package material

import (
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/pdf"
)

// Material describes how light scatters from and is emitted by a surface
type Material interface {
	// Scatter samples an outgoing ray. It returns false when the ray is absorbed.
	Scatter(rayIn core.Ray, hit HitGeometry, sampler core.Sampler) (ScatterResult, bool)

	// Emitted returns the radiance emitted at the hit (zero for non-emitters)
	Emitted(rayIn core.Ray, hit HitGeometry) core.Vec3

	// ScatteringPDF returns the density of the material's own BRDF lobe for
	// scattering rayIn into scattered, including the cosine term
	ScatteringPDF(rayIn core.Ray, hit HitGeometry, scattered core.Ray) float64
}

// ScatterResult contains the result of material scattering
type ScatterResult struct {
	Scattered   core.Ray  // The sampled outgoing ray
	Attenuation core.Vec3 // Color attenuation
	PDF         pdf.PDF   // Natural sampling distribution, nil for specular lobes
	PDFValue    float64   // Density of Scattered under PDF (0 for specular)
}

// IsSpecular returns true if this is specular scattering (no PDF)
func (s ScatterResult) IsSpecular() bool {
	return s.PDF == nil
}

// HitGeometry is the material-free part of a ray-surface intersection
type HitGeometry struct {
	Point     core.Vec3 // Point of intersection
	Normal    core.Vec3 // Unit normal, oriented against the incoming ray
	T         float64   // Parameter t along the ray
	FrontFace bool      // Whether ray hit the front face
	UV        core.Vec2 // Surface texture coordinates
}

// SetFaceNormal sets the normal vector and determines front/back face.
// outwardNormal must be unit length.
func (h *HitGeometry) SetFaceNormal(ray core.Ray, outwardNormal core.Vec3) {
	h.FrontFace = ray.Direction.Dot(outwardNormal) < 0
	if h.FrontFace {
		h.Normal = outwardNormal
	} else {
		h.Normal = outwardNormal.Negate()
	}
}

// HitRecord contains information about a ray-object intersection
type HitRecord struct {
	HitGeometry
	Material Material // Material of the hit object
}
