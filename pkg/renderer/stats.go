package renderer

import (
	"image"
)

// RenderStats contains statistics about the rendering process
type RenderStats struct {
	TotalPixels   int // Total number of pixels covered
	SampledPixels int // Pixels whose color was computed in this run
	ReusedPixels  int // Block colors carried over from an earlier pass
	TotalSamples  int // Total number of camera rays traced
	PixelSize     int // Block size of the pass, 1 in chunked mode
}

// Add accumulates the counters of other into s
func (s *RenderStats) Add(other RenderStats) {
	s.TotalPixels += other.TotalPixels
	s.SampledPixels += other.SampledPixels
	s.ReusedPixels += other.ReusedPixels
	s.TotalSamples += other.TotalSamples
}

// Luminance returns the Rec. 709 luminance of an 8-bit color
func Luminance(r, g, b uint8) float64 {
	return (0.2126*float64(r) + 0.7152*float64(g) + 0.0722*float64(b)) / 255
}

// CalculateAverageLuminance returns the mean luminance of an image in [0, 1]
func CalculateAverageLuminance(img *image.RGBA) float64 {
	bounds := img.Bounds()
	pixels := bounds.Dx() * bounds.Dy()
	if pixels == 0 {
		return 0
	}

	total := 0.0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := img.RGBAAt(x, y)
			total += Luminance(c.R, c.G, c.B)
		}
	}
	return total / float64(pixels)
}
