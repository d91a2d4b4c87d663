package material

import (
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/pdf"
)

// Lambertian represents a perfectly diffuse material
type Lambertian struct {
	Albedo ColorSource // Base color/reflectance (can be solid or textured)
}

// NewLambertian creates a new lambertian material with solid color
func NewLambertian(albedo core.Vec3) *Lambertian {
	return &Lambertian{Albedo: NewSolidColor(albedo)}
}

// NewTexturedLambertian creates a new lambertian material with texture
func NewTexturedLambertian(albedoTexture ColorSource) *Lambertian {
	return &Lambertian{Albedo: albedoTexture}
}

// Scatter implements the Material interface for lambertian scattering
func (l *Lambertian) Scatter(rayIn core.Ray, hit HitGeometry, sampler core.Sampler) (ScatterResult, bool) {
	cosinePDF := pdf.NewCosinePDF(hit.Normal)
	scatterDirection := cosinePDF.Generate(sampler)

	// Catch degenerate scatter direction
	if scatterDirection.NearZero() {
		scatterDirection = hit.Normal
	}

	return ScatterResult{
		Scattered:   core.NewRayAtTime(hit.Point, scatterDirection, rayIn.Time),
		Attenuation: l.Albedo.Evaluate(hit.UV, hit.Point),
		PDF:         cosinePDF,
		PDFValue:    cosinePDF.Value(scatterDirection),
	}, true
}

// Emitted returns black: lambertian surfaces do not emit
func (l *Lambertian) Emitted(rayIn core.Ray, hit HitGeometry) core.Vec3 {
	return core.Vec3{}
}

// ScatteringPDF returns cos(θ)/π for directions above the surface, 0 otherwise
func (l *Lambertian) ScatteringPDF(rayIn core.Ray, hit HitGeometry, scattered core.Ray) float64 {
	cosTheta := hit.Normal.Dot(scattered.Direction.Normalize())
	if cosTheta <= 0 {
		return 0
	}
	return cosTheta / math.Pi
}
