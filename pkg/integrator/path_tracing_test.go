package integrator

import (
	"math"
	"testing"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/material"
	"github.com/df07/go-pathtracer/pkg/pdf"
	"gonum.org/v1/gonum/stat"
)

// litSphereScene is a white unit sphere at the origin under a small quad light
func litSphereScene(t *testing.T) (*geometry.BVH, *geometry.ShapeList) {
	t.Helper()

	sphere := geometry.NewSphere(core.NewVec3(0, 0, 0), 1, material.NewLambertian(core.NewVec3(0.9, 0.9, 0.9)))
	light := geometry.NewQuad(
		core.NewVec3(-0.5, 3, -0.5),
		core.NewVec3(1, 0, 0),
		core.NewVec3(0, 0, 1),
		material.NewDiffuseLight(core.NewVec3(15, 15, 15)),
	)

	bvh, err := geometry.NewBVH([]geometry.Shape{sphere, light})
	if err != nil {
		t.Fatalf("NewBVH: %v", err)
	}
	return bvh, geometry.NewShapeList(light)
}

func blackConfig(maxDepth int) Config {
	return Config{MaxDepth: maxDepth, Background: NewConstantBackground(core.Vec3{})}
}

func TestPathTracingDepthTermination(t *testing.T) {
	world, lights := litSphereScene(t)
	sampler := core.NewSeededSampler(42)

	// Ray pointing down at the top of the sphere from below the light
	ray := core.NewRay(core.NewVec3(0, 2.5, 0), core.NewVec3(0, -1, 0))

	// With no bounces the camera ray only sees the sphere's (zero) emission
	colorDepth0 := NewPathTracer(blackConfig(0)).RayColor(ray, world, lights, sampler)
	if colorDepth0 != (core.Vec3{}) {
		t.Errorf("Expected black color for depth 0, got %v", colorDepth0)
	}

	// One bounce reaches the light
	pt := NewPathTracer(blackConfig(1))
	sum := core.Vec3{}
	for i := 0; i < 64; i++ {
		sum = sum.Add(pt.RayColor(ray, world, lights, sampler))
	}
	if sum.Luminance() <= 0 {
		t.Error("Expected non-black color for positive depth")
	}
}

func TestPathTracingDirectEmission(t *testing.T) {
	world, lights := litSphereScene(t)
	ray := core.NewRay(core.NewVec3(0, 5, 0), core.NewVec3(0, -1, 0))

	got := NewPathTracer(blackConfig(0)).RayColor(ray, world, lights, core.NewSeededSampler(1))
	want := core.NewVec3(15, 15, 15)
	if got != want {
		t.Errorf("Expected light emission %v, got %v", want, got)
	}
}

func TestPathTracingBackground(t *testing.T) {
	world, lights := litSphereScene(t)
	top := core.NewVec3(0.5, 0.7, 1.0)
	bottom := core.NewVec3(1, 1, 1)
	pt := NewPathTracer(Config{MaxDepth: 5, Background: NewGradientBackground(top, bottom)})

	tests := []struct {
		name      string
		direction core.Vec3
		expected  core.Vec3
	}{
		{"Straight up", core.NewVec3(0, 1, 0), top},
		{"Straight down", core.NewVec3(0, -1, 0), bottom},
		{"Horizon", core.NewVec3(1, 0, 0), top.Add(bottom).Multiply(0.5)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Start far to the side so the ray misses everything
			ray := core.NewRay(core.NewVec3(100, 0, 100), tt.direction)
			got := pt.RayColor(ray, world, lights, core.NewSeededSampler(1))
			if got.Subtract(tt.expected).Length() > 1e-9 {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestPathTracingSpecularBounce(t *testing.T) {
	albedo := core.NewVec3(0.8, 0.6, 0.4)
	mirror := geometry.NewQuad(core.NewVec3(-1, 0, -1), core.NewVec3(0, 0, 2), core.NewVec3(2, 0, 0), material.NewMetal(albedo, 0))
	world, err := geometry.NewBVH([]geometry.Shape{mirror})
	if err != nil {
		t.Fatalf("NewBVH: %v", err)
	}

	sky := core.NewVec3(0.2, 0.3, 0.4)
	pt := NewPathTracer(Config{MaxDepth: 5, Background: NewConstantBackground(sky)})

	ray := core.NewRay(core.NewVec3(0, 1, 0), core.NewVec3(0, -1, 0))
	got := pt.RayColor(ray, world, nil, core.NewSeededSampler(1))
	want := albedo.MultiplyVec(sky)
	if got.Subtract(want).Length() > 1e-9 {
		t.Errorf("Expected mirrored sky %v, got %v", want, got)
	}
}

func TestPathTracingWithoutLights(t *testing.T) {
	world, _ := litSphereScene(t)
	pt := NewPathTracer(DefaultConfig())
	sampler := core.NewSeededSampler(3)

	ray := core.NewRay(core.NewVec3(0, 0, 5), core.NewVec3(0, 0, -1))
	for i := 0; i < 100; i++ {
		color := pt.RayColor(ray, world, nil, sampler)
		if !color.IsFinite() {
			t.Fatalf("Expected finite color without lights, got %v", color)
		}
		color = pt.RayColor(ray, world, geometry.NewShapeList(), sampler)
		if !color.IsFinite() {
			t.Fatalf("Expected finite color with empty light list, got %v", color)
		}
	}
}

// zeroPDF never produces a usable density
type zeroPDF struct{}

func (zeroPDF) Value(direction core.Vec3) float64     { return 0 }
func (zeroPDF) Generate(sampler core.Sampler) core.Vec3 { return core.NewVec3(0, 1, 0) }

// collapsingMaterial glows and scatters with a density that is always zero
type collapsingMaterial struct{}

func (collapsingMaterial) Scatter(rayIn core.Ray, hit material.HitGeometry, sampler core.Sampler) (material.ScatterResult, bool) {
	return material.ScatterResult{
		Scattered:   core.NewRay(hit.Point, core.NewVec3(0, 1, 0)),
		Attenuation: core.NewVec3(1, 1, 1),
		PDF:         zeroPDF{},
	}, true
}

func (collapsingMaterial) Emitted(rayIn core.Ray, hit material.HitGeometry) core.Vec3 {
	return core.NewVec3(0.25, 0.25, 0.25)
}

func (collapsingMaterial) ScatteringPDF(rayIn core.Ray, hit material.HitGeometry, scattered core.Ray) float64 {
	return 1
}

func TestPathTracingGuardsZeroMixtureDensity(t *testing.T) {
	floor := geometry.NewQuad(core.NewVec3(-1, 0, -1), core.NewVec3(0, 0, 2), core.NewVec3(2, 0, 0), collapsingMaterial{})
	world, err := geometry.NewBVH([]geometry.Shape{floor})
	if err != nil {
		t.Fatalf("NewBVH: %v", err)
	}

	pt := NewPathTracer(Config{MaxDepth: 10, Background: NewConstantBackground(core.NewVec3(1, 1, 1))})
	got := pt.RayColor(core.NewRay(core.NewVec3(0, 1, 0), core.NewVec3(0, -1, 0)), world, nil, core.NewSeededSampler(1))

	// Only the emission survives; the bounce is skipped instead of dividing by zero
	want := core.NewVec3(0.25, 0.25, 0.25)
	if got != want {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func TestPathTracingRussianRoulette(t *testing.T) {
	pt := NewPathTracer(Config{MaxDepth: 50, RussianRouletteMinBounces: 1})
	sampler := core.NewSeededSampler(42)

	// Low throughput survives at the minimum probability
	lowThroughput := core.NewVec3(0.01, 0.01, 0.01)
	terminationCount := 0
	testCount := 1000
	for i := 0; i < testCount; i++ {
		terminate, compensation := pt.applyRussianRoulette(2, lowThroughput, sampler)
		if terminate {
			terminationCount++
		} else if math.Abs(compensation-2.0) > 1e-9 {
			t.Fatalf("Expected compensation 2.0 at minimum survival, got %f", compensation)
		}
	}
	if terminationCount < 400 || terminationCount > 600 {
		t.Errorf("Expected about half of low-throughput paths terminated, got %d/%d", terminationCount, testCount)
	}

	// Before the minimum bounce count nothing is terminated
	if terminate, compensation := pt.applyRussianRoulette(0, lowThroughput, sampler); terminate || compensation != 1.0 {
		t.Errorf("Expected no roulette before min bounces, got terminate=%v compensation=%f", terminate, compensation)
	}

	// Disabled roulette never terminates
	disabled := NewPathTracer(Config{MaxDepth: 50})
	if terminate, _ := disabled.applyRussianRoulette(10, lowThroughput, sampler); terminate {
		t.Error("Expected disabled roulette to never terminate")
	}
}

// estimatePixel averages spp radiance samples along a fixed ray, the way a
// camera averages samples for one pixel
func estimatePixel(pt *PathTracer, ray core.Ray, world geometry.Hittable, lights *geometry.ShapeList, spp int, seed int64) float64 {
	sampler := core.NewSeededSampler(seed)
	sum := 0.0
	for s := 0; s < spp; s++ {
		sum += pt.RayColor(ray, world, lights, sampler).Luminance()
	}
	return sum / float64(spp)
}

func TestPathTracingVarianceShrinksWithSamples(t *testing.T) {
	world, lights := litSphereScene(t)
	pt := NewPathTracer(blackConfig(1))

	// Looking straight down at the top of the sphere
	ray := core.NewRay(core.NewVec3(0, 2.5, 0), core.NewVec3(0, -1, 0))

	const renders = 60
	lowSPP := make([]float64, renders)
	highSPP := make([]float64, renders)
	for i := 0; i < renders; i++ {
		lowSPP[i] = estimatePixel(pt, ray, world, lights, 4, int64(1000+i))
		highSPP[i] = estimatePixel(pt, ray, world, lights, 256, int64(5000+i))
	}

	lowMean, lowStd := stat.MeanStdDev(lowSPP, nil)
	highMean, highStd := stat.MeanStdDev(highSPP, nil)

	if lowStd <= 0 || highStd <= 0 {
		t.Fatalf("Expected nonzero variance, got std %f (4 spp) and %f (256 spp)", lowStd, highStd)
	}

	// 64x the samples should cut the standard deviation by about 8x
	ratio := lowStd / highStd
	if ratio < 4 || ratio > 16 {
		t.Errorf("Expected std ratio near 8, got %f (4 spp std %f, 256 spp std %f)", ratio, lowStd, highStd)
	}

	// Both estimators converge to the same mean
	tolerance := 4 * lowStd / math.Sqrt(renders)
	if math.Abs(lowMean-highMean) > tolerance {
		t.Errorf("Expected means to agree within %f, got %f (4 spp) and %f (256 spp)", tolerance, lowMean, highMean)
	}
}

func TestMixtureSamplingIsUnbiased(t *testing.T) {
	// Light-only and material-only estimators of the same pixel agree
	world, lights := litSphereScene(t)
	pt := NewPathTracer(blackConfig(1))
	ray := core.NewRay(core.NewVec3(0, 2.5, 0), core.NewVec3(0, -1, 0))

	const samples = 200000
	withLights := estimatePixel(pt, ray, world, lights, samples, 77)
	withoutLights := estimatePixel(pt, ray, world, nil, samples, 78)

	if math.Abs(withLights-withoutLights) > 0.05*withLights {
		t.Errorf("Expected mixture and material-only estimates to agree, got %f and %f", withLights, withoutLights)
	}
}

var _ pdf.PDF = zeroPDF{}
