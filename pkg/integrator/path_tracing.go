package integrator

import (
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/pdf"
)

const (
	// rayEpsilon offsets the start of every ray to avoid self-intersection
	rayEpsilon = 0.001

	// minMixturePDF is the smallest sampling density whose contribution is kept
	minMixturePDF = 1e-12
)

// Config controls path termination and the environment
type Config struct {
	MaxDepth                  int        // Maximum number of bounces after the camera ray
	RussianRouletteMinBounces int        // Bounces before Russian roulette starts (0 disables it)
	Background                Background // Radiance for escaping rays
}

// DefaultConfig returns the configuration used by the preset scenes
func DefaultConfig() Config {
	return Config{
		MaxDepth:                  50,
		RussianRouletteMinBounces: 0,
		Background:                NewGradientBackground(core.NewVec3(0.5, 0.7, 1.0), core.NewVec3(1.0, 1.0, 1.0)),
	}
}

// PathTracer implements unidirectional path tracing with a mixture of light and
// material sampling at every diffuse bounce
type PathTracer struct {
	config Config
}

// NewPathTracer creates a new path tracing integrator
func NewPathTracer(config Config) *PathTracer {
	return &PathTracer{config: config}
}

// Config returns the integrator configuration
func (pt *PathTracer) Config() Config {
	return pt.config
}

// RayColor computes the color for a single camera ray. The path is followed
// iteratively; throughput carries the product of bounce weights so far.
func (pt *PathTracer) RayColor(ray core.Ray, world geometry.Hittable, lights *geometry.ShapeList, sampler core.Sampler) core.Vec3 {
	color := core.Vec3{}
	throughput := core.NewVec3(1, 1, 1)
	rayT := core.NewInterval(rayEpsilon, math.Inf(1))
	sampleLights := lights != nil && lights.Len() > 0

	for depth := 0; depth <= pt.config.MaxDepth; depth++ {
		hit, isHit := world.Hit(ray, rayT)
		if !isHit {
			color = color.Add(throughput.MultiplyVec(pt.config.Background.Color(ray.Direction)))
			break
		}

		// Start with emitted light from the hit material
		emitted := hit.Material.Emitted(ray, hit.HitGeometry)
		color = color.Add(throughput.MultiplyVec(emitted))

		if depth == pt.config.MaxDepth {
			break
		}

		scatter, didScatter := hit.Material.Scatter(ray, hit.HitGeometry, sampler)
		if !didScatter {
			break
		}

		if scatter.IsSpecular() {
			// Delta lobes are followed directly; no density to divide by
			throughput = throughput.MultiplyVec(scatter.Attenuation)
			ray = scatter.Scattered
		} else {
			var samplingPDF pdf.PDF = scatter.PDF
			if sampleLights {
				samplingPDF = pdf.NewMixturePDF(pdf.NewObjectPDF(lights, hit.Point), scatter.PDF)
			}

			direction := samplingPDF.Generate(sampler)
			scattered := core.NewRayAtTime(hit.Point, direction, ray.Time)

			// Skip contributions whose sampling density collapsed
			pdfValue := samplingPDF.Value(direction)
			if !(pdfValue > minMixturePDF) || math.IsInf(pdfValue, 0) {
				break
			}

			scatteringPDF := hit.Material.ScatteringPDF(ray, hit.HitGeometry, scattered)
			weight := scatter.Attenuation.Multiply(scatteringPDF / pdfValue)
			throughput = throughput.MultiplyVec(weight)
			ray = scattered
		}

		if !throughput.IsFinite() {
			return core.Vec3{}
		}
		if throughput.NearZero() {
			break
		}

		terminate, compensation := pt.applyRussianRoulette(depth+1, throughput, sampler)
		if terminate {
			break
		}
		throughput = throughput.Multiply(compensation)
	}

	// Discard samples poisoned by numeric blowups
	if !color.IsFinite() {
		return core.Vec3{}
	}
	return color
}

// applyRussianRoulette determines if a path should be terminated and returns the compensation factor
func (pt *PathTracer) applyRussianRoulette(bounces int, throughput core.Vec3, sampler core.Sampler) (bool, float64) {
	if pt.config.RussianRouletteMinBounces <= 0 || bounces < pt.config.RussianRouletteMinBounces {
		return false, 1.0
	}

	// Survival probability follows luminance, bounded to keep compensation within 1.05x to 2x
	survivalProb := math.Min(0.95, math.Max(0.5, throughput.Luminance()))

	if sampler.Get1D() > survivalProb {
		return true, 0.0
	}
	return false, 1.0 / survivalProb
}
