package renderer

import (
	"context"
	"errors"
	"image"
	"testing"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/material"
	"github.com/df07/go-pathtracer/pkg/scene"
)

// MockIntegrator returns a fixed color and can cancel a context after a number of calls
type MockIntegrator struct {
	returnColor core.Vec3
	callCount   int
	cancelAfter int
	cancel      context.CancelFunc
}

func (m *MockIntegrator) RayColor(ray core.Ray, world geometry.Hittable, lights *geometry.ShapeList, sampler core.Sampler) core.Vec3 {
	m.callCount++
	if m.cancel != nil && m.callCount == m.cancelAfter {
		m.cancel()
	}
	return m.returnColor
}

func newMockTileRenderer(t *testing.T, mock *MockIntegrator, sampling scene.SamplingConfig) *TileRenderer {
	t.Helper()

	config := geometry.DefaultCameraConfig()
	config.Width = 8
	config.AspectRatio = 1
	camera, err := geometry.NewCamera(config)
	if err != nil {
		t.Fatalf("NewCamera: %v", err)
	}

	sphere := geometry.NewSphere(core.NewVec3(0, 0, -1), 0.5, material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5)))
	bvh, err := geometry.NewBVH([]geometry.Shape{sphere})
	if err != nil {
		t.Fatalf("NewBVH: %v", err)
	}

	return &TileRenderer{
		camera:     camera,
		world:      bvh,
		lights:     geometry.NewShapeList(),
		integrator: mock,
		sampling:   sampling,
	}
}

func newPixelStats(width, height int) [][]PixelStats {
	stats := make([][]PixelStats, height)
	for y := range stats {
		stats[y] = make([]PixelStats, width)
	}
	return stats
}

func TestRenderTileBounds(t *testing.T) {
	mock := &MockIntegrator{returnColor: core.NewVec3(0.5, 0.25, 1)}
	tr := newMockTileRenderer(t, mock, scene.SamplingConfig{})
	pixelStats := newPixelStats(8, 8)

	bounds := image.Rect(2, 2, 6, 5)
	stats, err := tr.RenderTileBounds(context.Background(), bounds, pixelStats, core.NewSeededSampler(1), 3)
	if err != nil {
		t.Fatalf("RenderTileBounds: %v", err)
	}

	if stats.TotalPixels != 12 || stats.TotalSamples != 36 || stats.AverageSamples != 3 {
		t.Errorf("Unexpected stats %+v", stats)
	}
	if mock.callCount != 36 {
		t.Errorf("Expected 36 integrator calls, got %d", mock.callCount)
	}

	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			inside := image.Pt(x, y).In(bounds)
			ps := pixelStats[y][x]
			switch {
			case inside && ps.GetColor().Subtract(mock.returnColor).Length() > 1e-12:
				t.Errorf("Pixel (%d,%d): expected %v, got %v", x, y, mock.returnColor, ps.GetColor())
			case !inside && ps.SampleCount != 0:
				t.Errorf("Pixel (%d,%d) outside bounds was sampled", x, y)
			}
		}
	}

	// A second call only tops pixels up to the new target
	stats, _ = tr.RenderTileBounds(context.Background(), bounds, pixelStats, core.NewSeededSampler(1), 5)
	if stats.TotalSamples != 24 {
		t.Errorf("Expected 24 additional samples, got %d", stats.TotalSamples)
	}
}

func TestRenderTileBounds_CancelBetweenPixels(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Cancel during the second pixel; it must still finish all its samples
	mock := &MockIntegrator{returnColor: core.NewVec3(1, 1, 1), cancelAfter: 6, cancel: cancel}
	tr := newMockTileRenderer(t, mock, scene.SamplingConfig{})
	pixelStats := newPixelStats(8, 8)

	stats, err := tr.RenderTileBounds(ctx, image.Rect(0, 0, 8, 8), pixelStats, core.NewSeededSampler(1), 4)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Expected context.Canceled, got %v", err)
	}
	if stats.TotalSamples != 8 {
		t.Errorf("Expected 8 samples before cancel, got %d", stats.TotalSamples)
	}

	tests := []struct {
		x, y int
		want int
	}{
		{0, 0, 4},
		{1, 0, 4},
		{2, 0, 0},
		{7, 7, 0},
	}
	for _, tt := range tests {
		if got := pixelStats[tt.y][tt.x].SampleCount; got != tt.want {
			t.Errorf("Pixel (%d,%d): expected %d samples, got %d", tt.x, tt.y, tt.want, got)
		}
	}
}

func TestAdaptiveSampling(t *testing.T) {
	tests := []struct {
		name      string
		threshold float64
		want      int
	}{
		{"Disabled", 0, 100},
		{"Converged constant pixel", 0.01, 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &MockIntegrator{returnColor: core.NewVec3(0.3, 0.3, 0.3)}
			tr := newMockTileRenderer(t, mock, scene.SamplingConfig{AdaptiveMinSamples: 0.25, AdaptiveThreshold: tt.threshold})
			pixelStats := newPixelStats(8, 8)

			_, err := tr.RenderTileBounds(context.Background(), image.Rect(0, 0, 1, 1), pixelStats, core.NewSeededSampler(1), 100)
			if err != nil {
				t.Fatalf("RenderTileBounds: %v", err)
			}
			if got := pixelStats[0][0].SampleCount; got != tt.want {
				t.Errorf("Expected %d samples, got %d", tt.want, got)
			}
		})
	}
}

func TestPixelStats(t *testing.T) {
	var ps PixelStats
	if ps.GetColor() != (core.Vec3{}) {
		t.Error("Expected black for a pixel with no samples")
	}

	ps.AddSample(core.NewVec3(1, 1, 1))
	ps.AddSample(core.NewVec3(0, 0, 0))
	if got := ps.GetColor(); got != core.NewVec3(0.5, 0.5, 0.5) {
		t.Errorf("Expected average (0.5,0.5,0.5), got %v", got)
	}
	// Luminance samples 1 and 0: mean 0.5, std 0.5
	if got := ps.RelativeError(); got < 0.999 || got > 1.001 {
		t.Errorf("Expected relative error 1, got %f", got)
	}
}

func TestDefaultWorkerCount(t *testing.T) {
	if n := DefaultWorkerCount(); n <= 0 {
		t.Errorf("Expected positive worker count, got %d", n)
	}
}
