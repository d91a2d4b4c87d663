package renderer

import (
	"image"
	"image/color"

	"github.com/df07/go-pathtracer/pkg/core"
	"gonum.org/v1/gonum/stat"
)

// Framebuffer holds linear radiance values, three float64 channels per pixel in
// row-major order with row 0 at the top of the image.
type Framebuffer struct {
	Width, Height int
	Pix           []float64
}

// NewFramebuffer creates a black framebuffer
func NewFramebuffer(width, height int) *Framebuffer {
	return &Framebuffer{
		Width:  width,
		Height: height,
		Pix:    make([]float64, width*height*3),
	}
}

// Set stores the linear color of pixel (x, y)
func (fb *Framebuffer) Set(x, y int, c core.Vec3) {
	i := fb.offset(x, y)
	fb.Pix[i], fb.Pix[i+1], fb.Pix[i+2] = c.X, c.Y, c.Z
}

// At returns the linear color of pixel (x, y)
func (fb *Framebuffer) At(x, y int) core.Vec3 {
	i := fb.offset(x, y)
	return core.NewVec3(fb.Pix[i], fb.Pix[i+1], fb.Pix[i+2])
}

func (fb *Framebuffer) offset(x, y int) int {
	return (y*fb.Width + x) * 3
}

// ToImage tone maps the buffer into an 8-bit image
func (fb *Framebuffer) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	for y := 0; y < fb.Height; y++ {
		for x := 0; x < fb.Width; x++ {
			img.SetRGBA(x, y, Vec3ToColor(fb.At(x, y)))
		}
	}
	return img
}

// Luminances returns the luminance of every pixel in row-major order
func (fb *Framebuffer) Luminances() []float64 {
	lum := make([]float64, 0, fb.Width*fb.Height)
	for y := 0; y < fb.Height; y++ {
		for x := 0; x < fb.Width; x++ {
			lum = append(lum, fb.At(x, y).Luminance())
		}
	}
	return lum
}

// LuminanceStats returns the mean and standard deviation of pixel luminance
func (fb *Framebuffer) LuminanceStats() (mean, std float64) {
	lum := fb.Luminances()
	if len(lum) < 2 {
		if len(lum) == 1 {
			return lum[0], 0
		}
		return 0, 0
	}
	return stat.MeanStdDev(lum, nil)
}

// PixelVariance returns the variance across independent renders of the
// luminance of pixel (x, y). All buffers must share the same size.
func PixelVariance(renders []*Framebuffer, x, y int) float64 {
	if len(renders) < 2 {
		return 0
	}
	lum := make([]float64, len(renders))
	for i, fb := range renders {
		lum[i] = fb.At(x, y).Luminance()
	}
	return stat.Variance(lum, nil)
}

// Vec3ToColor applies gamma 2 and clamps a linear color to 8 bits per channel
func Vec3ToColor(colorVec core.Vec3) color.RGBA {
	// Apply gamma correction (gamma = 2.0)
	colorVec = colorVec.GammaCorrect(2.0)

	// Clamp to valid color range
	colorVec = colorVec.Clamp(0.0, 1.0)

	return color.RGBA{
		R: uint8(255 * colorVec.X),
		G: uint8(255 * colorVec.Y),
		B: uint8(255 * colorVec.Z),
		A: 255,
	}
}
