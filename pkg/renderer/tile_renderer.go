package renderer

import (
	"image"
	"image/color"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/integrator"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// PixelSampler turns pixel coordinates into display colors by tracing camera
// rays through the scene
type PixelSampler struct {
	scene      *scene.Scene
	integrator integrator.Integrator
	width      int
	height     int
}

// NewPixelSampler creates a sampler for the scene's configured resolution
func NewPixelSampler(s *scene.Scene, integ integrator.Integrator) *PixelSampler {
	return &PixelSampler{
		scene:      s,
		integrator: integ,
		width:      s.SamplingConfig.Width,
		height:     s.SamplingConfig.Height,
	}
}

// Width returns the image width in pixels
func (ps *PixelSampler) Width() int { return ps.width }

// Height returns the image height in pixels
func (ps *PixelSampler) Height() int { return ps.height }

// GetColor returns the color of pixel (x, y) in [0, 1], averaged over
// samplesPerPixel² sub-samples. Sample i is offset by
// 1/((samplesPerPixel+1)(i+1)) in both axes. Non-finite components of a
// sample become 0 before it is clamped.
func (ps *PixelSampler) GetColor(x, y, samplesPerPixel int) core.Vec3 {
	if samplesPerPixel < 1 {
		samplesPerPixel = 1
	}
	n := samplesPerPixel * samplesPerPixel

	total := core.Vec3{}
	for i := 0; i < n; i++ {
		shift := 1 / float64((samplesPerPixel+1)*(i+1))
		ray := ps.scene.Camera.GetRay(
			(float64(x)+shift)/float64(ps.width),
			(float64(y)+shift)/float64(ps.height),
		)
		c := ps.integrator.RayColor(ray, ps.scene)
		total = total.Add(c.Sanitize().Clamp(0, 1))
	}
	return total.Multiply(1 / float64(n))
}

// TileRenderer renders rectangular regions with a PixelSampler
type TileRenderer struct {
	sampler *PixelSampler
}

// NewTileRenderer creates a new tile renderer
func NewTileRenderer(sampler *PixelSampler) *TileRenderer {
	return &TileRenderer{sampler: sampler}
}

// RenderBlocks fills bounds with pixelSize blocks, each colored by one
// sample at its top-left pixel. Blocks whose top-left was already sampled
// into the frame are reused. bounds must be aligned to pixelSize so that no
// block crosses into another tile.
func (tr *TileRenderer) RenderBlocks(frame *Frame, bounds image.Rectangle, pixelSize, samplesPerPixel int) RenderStats {
	stats := RenderStats{TotalPixels: bounds.Dx() * bounds.Dy(), PixelSize: pixelSize}
	samples := max(1, samplesPerPixel) * max(1, samplesPerPixel)

	for y := bounds.Min.Y; y < bounds.Max.Y; y += pixelSize {
		for x := bounds.Min.X; x < bounds.Max.X; x += pixelSize {
			c, ok := frame.Sampled(x, y)
			if ok {
				stats.ReusedPixels++
			} else {
				c = tr.sampler.GetColor(x, y, samplesPerPixel)
				frame.Sample(x, y, c)
				stats.SampledPixels++
				stats.TotalSamples += samples
			}
			block := image.Rect(x, y, x+pixelSize, y+pixelSize).Intersect(bounds)
			frame.Fill(block, c)
		}
	}
	return stats
}

// RenderTile renders every pixel of bounds at full resolution into a new
// image whose origin is the tile's top-left corner
func (tr *TileRenderer) RenderTile(bounds image.Rectangle, samplesPerPixel int) (*image.RGBA, RenderStats) {
	img := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	samples := max(1, samplesPerPixel) * max(1, samplesPerPixel)
	stats := RenderStats{TotalPixels: bounds.Dx() * bounds.Dy(), PixelSize: 1}

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := tr.sampler.GetColor(x, y, samplesPerPixel)
			img.SetRGBA(x-bounds.Min.X, y-bounds.Min.Y, ToRGBA(c))
			stats.SampledPixels++
			stats.TotalSamples += samples
		}
	}
	return img, stats
}

// ToRGBA converts a color in [0, 1] to 8-bit RGBA
func ToRGBA(c core.Vec3) color.RGBA {
	c = c.Clamp(0, 1)
	return color.RGBA{
		R: uint8(255 * c.X),
		G: uint8(255 * c.Y),
		B: uint8(255 * c.Z),
		A: 255,
	}
}

// Frame is the shared pixel buffer of a progressive render. Workers write
// disjoint regions, so it needs no locking.
type Frame struct {
	width, height int
	colors        []core.Vec3
	sampled       []bool
}

// NewFrame allocates a black frame
func NewFrame(width, height int) *Frame {
	return &Frame{
		width:   width,
		height:  height,
		colors:  make([]core.Vec3, width*height),
		sampled: make([]bool, width*height),
	}
}

// Sampled returns the color traced at (x, y) by an earlier pass, if any
func (f *Frame) Sampled(x, y int) (core.Vec3, bool) {
	i := y*f.width + x
	return f.colors[i], f.sampled[i]
}

// Sample records the traced color of pixel (x, y)
func (f *Frame) Sample(x, y int, c core.Vec3) {
	i := y*f.width + x
	f.colors[i] = c
	f.sampled[i] = true
}

// Fill paints rect with c. Pixels that hold their own traced color keep it.
func (f *Frame) Fill(rect image.Rectangle, c core.Vec3) {
	rect = rect.Intersect(image.Rect(0, 0, f.width, f.height))
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			if i := y*f.width + x; !f.sampled[i] {
				f.colors[i] = c
			}
		}
	}
}

// At returns the current color of pixel (x, y)
func (f *Frame) At(x, y int) core.Vec3 {
	return f.colors[y*f.width+x]
}

// Image converts the region of the frame to an image with the same bounds
func (f *Frame) Image(bounds image.Rectangle) *image.RGBA {
	img := image.NewRGBA(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			img.SetRGBA(x, y, ToRGBA(f.At(x, y)))
		}
	}
	return img
}
