package material

import (
	"math"
	"testing"

	"github.com/df07/go-pathtracer/pkg/core"
)

// fixedSampler returns the same value for every dimension
type fixedSampler struct {
	value float64
}

func (f fixedSampler) Get1D() float64 { return f.value }
func (f fixedSampler) Get2D() core.Vec2 {
	return core.NewVec2(f.value, f.value)
}
func (f fixedSampler) Get3D() core.Vec3 {
	return core.NewVec3(f.value, f.value, f.value)
}

func upHit() HitGeometry {
	return HitGeometry{
		Point:     core.NewVec3(0, 0, 0),
		Normal:    core.NewVec3(0, 1, 0),
		T:         1.0,
		FrontFace: true,
	}
}

func TestSetFaceNormal(t *testing.T) {
	outward := core.NewVec3(0, 1, 0)

	var front HitGeometry
	front.SetFaceNormal(core.NewRay(core.NewVec3(0, 1, 0), core.NewVec3(0, -1, 0)), outward)
	if !front.FrontFace || front.Normal != outward {
		t.Errorf("Expected front face with outward normal, got front=%v normal=%v", front.FrontFace, front.Normal)
	}

	var back HitGeometry
	back.SetFaceNormal(core.NewRay(core.NewVec3(0, -1, 0), core.NewVec3(0, 1, 0)), outward)
	if back.FrontFace || back.Normal != outward.Negate() {
		t.Errorf("Expected back face with flipped normal, got front=%v normal=%v", back.FrontFace, back.Normal)
	}
}

func TestLambertian_Scatter(t *testing.T) {
	albedo := core.NewVec3(0.7, 0.5, 0.3)
	lambertian := NewLambertian(albedo)
	ray := core.NewRayAtTime(core.NewVec3(0, 1, 0), core.NewVec3(0, -1, 0), 0.25)
	hit := upHit()

	sampler := core.NewSeededSampler(42)
	for i := 0; i < 100; i++ {
		result, scattered := lambertian.Scatter(ray, hit, sampler)
		if !scattered {
			t.Fatal("Lambertian should always scatter")
		}
		if result.IsSpecular() {
			t.Fatal("Lambertian scattering should not be specular")
		}
		if result.Attenuation != albedo {
			t.Errorf("Expected attenuation %v, got %v", albedo, result.Attenuation)
		}
		if result.Scattered.Direction.Dot(hit.Normal) < 0 {
			t.Errorf("Scattered direction %v below surface", result.Scattered.Direction)
		}
		if result.Scattered.Time != ray.Time {
			t.Errorf("Expected scattered ray time %f, got %f", ray.Time, result.Scattered.Time)
		}

		expectedPDF := lambertian.ScatteringPDF(ray, hit, result.Scattered)
		if math.Abs(result.PDFValue-expectedPDF) > 1e-9 {
			t.Errorf("PDFValue %f does not match scattering pdf %f", result.PDFValue, expectedPDF)
		}
	}
}

func TestLambertian_ScatteringPDF(t *testing.T) {
	lambertian := NewLambertian(core.NewVec3(0.5, 0.5, 0.5))
	ray := core.NewRay(core.NewVec3(0, 1, 0), core.NewVec3(0, -1, 0))
	hit := upHit()

	tests := []struct {
		name      string
		direction core.Vec3
		expected  float64
	}{
		{"Normal direction", core.NewVec3(0, 1, 0), 1.0 / math.Pi},
		{"45 degrees", core.NewVec3(1, 1, 0), math.Cos(math.Pi/4) / math.Pi},
		{"Grazing", core.NewVec3(1, 0, 0), 0},
		{"Below surface", core.NewVec3(0, -1, 0), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := lambertian.ScatteringPDF(ray, hit, core.NewRay(hit.Point, tt.direction))
			if math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("Expected %f, got %f", tt.expected, got)
			}
		})
	}
}

func TestNewMetal_FuzznessClamp(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected float64
	}{
		{"Negative clamps to zero", -0.5, 0.0},
		{"In range kept", 0.3, 0.3},
		{"Above one clamps to one", 2.0, 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			metal := NewMetal(core.NewVec3(1, 1, 1), tt.input)
			if metal.Fuzzness != tt.expected {
				t.Errorf("Expected fuzzness %f, got %f", tt.expected, metal.Fuzzness)
			}
		})
	}
}

func TestMetal_PerfectReflection(t *testing.T) {
	albedo := core.NewVec3(0.9, 0.8, 0.7)
	metal := NewMetal(albedo, 0)
	ray := core.NewRay(core.NewVec3(-1, 1, 0), core.NewVec3(1, -1, 0))

	result, scattered := metal.Scatter(ray, upHit(), core.NewSeededSampler(1))
	if !scattered {
		t.Fatal("Expected mirror reflection to scatter")
	}
	if !result.IsSpecular() {
		t.Error("Metal scattering should be specular")
	}

	expected := core.NewVec3(1, 1, 0).Normalize()
	if result.Scattered.Direction.Subtract(expected).Length() > 1e-9 {
		t.Errorf("Expected reflection %v, got %v", expected, result.Scattered.Direction)
	}
	if result.Attenuation != albedo {
		t.Errorf("Expected attenuation %v, got %v", albedo, result.Attenuation)
	}
}

func TestMetal_AbsorbsBelowSurface(t *testing.T) {
	metal := NewMetal(core.NewVec3(1, 1, 1), 1.0)
	// Grazing ray reflects almost along the surface; the fuzz pushes it below
	ray := core.NewRay(core.NewVec3(-1, 1e-3, 0), core.NewVec3(1, -1e-3, 0))

	absorbed := false
	s := core.NewSeededSampler(7)
	for i := 0; i < 200 && !absorbed; i++ {
		_, scattered := metal.Scatter(ray, upHit(), s)
		absorbed = !scattered
	}
	if !absorbed {
		t.Error("Expected fuzzy grazing reflections to be absorbed at least once")
	}
}

func TestDielectric_Specular(t *testing.T) {
	glass := NewDielectric(1.5)
	ray := core.NewRay(core.NewVec3(0, 1, 0), core.NewVec3(1, -1, 0).Normalize())

	result, scattered := glass.Scatter(ray, upHit(), core.NewSeededSampler(42))
	if !scattered {
		t.Fatal("Dielectric should always scatter")
	}
	if !result.IsSpecular() {
		t.Error("Dielectric scattering should be specular")
	}
	if result.Attenuation != core.NewVec3(1, 1, 1) {
		t.Errorf("Expected white attenuation, got %v", result.Attenuation)
	}
}

func TestDielectric_MatchedIndexPassesStraightThrough(t *testing.T) {
	// A medium with the same index as its surroundings neither bends nor reflects
	glass := NewDielectric(1.0)
	direction := core.NewVec3(0, -1, 0)
	ray := core.NewRay(core.NewVec3(0, 1, 0), direction)

	for _, value := range []float64{0.0, 0.5, 0.999} {
		result, scattered := glass.Scatter(ray, upHit(), fixedSampler{value: value})
		if !scattered {
			t.Fatal("Dielectric should always scatter")
		}
		if result.Scattered.Direction.Subtract(direction).Length() > 1e-9 {
			t.Errorf("sample %f: expected direction %v, got %v", value, direction, result.Scattered.Direction)
		}
	}
}

func TestDielectric_TotalInternalReflection(t *testing.T) {
	glass := NewDielectric(1.5)
	// Exiting glass at a steep angle: sin(60°) * 1.5 > 1
	direction := core.NewVec3(math.Sin(math.Pi/3), -math.Cos(math.Pi/3), 0)
	ray := core.NewRay(core.NewVec3(0, 1, 0), direction)
	hit := upHit()
	hit.FrontFace = false

	for _, value := range []float64{0.0, 0.5, 0.999} {
		result, _ := glass.Scatter(ray, hit, fixedSampler{value: value})
		if result.Scattered.Direction.Y <= 0 {
			t.Errorf("sample %f: expected reflection above surface, got %v", value, result.Scattered.Direction)
		}
	}
}

func TestReflectance(t *testing.T) {
	// At normal incidence Schlick reduces to r0
	r0 := math.Pow((1-1.5)/(1+1.5), 2)
	if got := Reflectance(1.0, 1.5); math.Abs(got-r0) > 1e-12 {
		t.Errorf("Expected %f at normal incidence, got %f", r0, got)
	}
	// At grazing incidence everything reflects
	if got := Reflectance(0.0, 1.5); math.Abs(got-1.0) > 1e-12 {
		t.Errorf("Expected 1 at grazing incidence, got %f", got)
	}
}

func TestDiffuseLight(t *testing.T) {
	emission := core.NewVec3(15, 15, 15)
	light := NewDiffuseLight(emission)
	ray := core.NewRay(core.NewVec3(0, 1, 0), core.NewVec3(0, -1, 0))

	if _, scattered := light.Scatter(ray, upHit(), core.NewSeededSampler(1)); scattered {
		t.Error("Diffuse light should not scatter")
	}

	front := upHit()
	back := upHit()
	back.FrontFace = false
	if light.Emitted(ray, front) != emission || light.Emitted(ray, back) != emission {
		t.Error("Diffuse light should emit on both faces")
	}
}

func TestEmpty(t *testing.T) {
	empty := NewEmpty()
	ray := core.NewRay(core.NewVec3(0, 1, 0), core.NewVec3(0, -1, 0))

	if _, scattered := empty.Scatter(ray, upHit(), core.NewSeededSampler(1)); scattered {
		t.Error("Empty material should not scatter")
	}
	if got := empty.Emitted(ray, upHit()); got != (core.Vec3{}) {
		t.Errorf("Empty material should not emit, got %v", got)
	}
}

func TestChecker(t *testing.T) {
	even := core.NewVec3(1, 1, 1)
	odd := core.NewVec3(0, 0, 0)
	checker := NewChecker(1.0, even, odd)

	tests := []struct {
		name     string
		point    core.Vec3
		expected core.Vec3
	}{
		{"Origin cell", core.NewVec3(0.5, 0.5, 0.5), even},
		{"Adjacent cell", core.NewVec3(1.5, 0.5, 0.5), odd},
		{"Negative cell", core.NewVec3(-0.5, 0.5, 0.5), odd},
		{"Diagonal cell", core.NewVec3(1.5, 1.5, 0.5), even},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := checker.Evaluate(core.Vec2{}, tt.point); got != tt.expected {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}
}
