package material

import (
	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// NewCheckerboardTexture creates a procedural checkerboard pattern texture
func NewCheckerboardTexture(width, height, checkSize int, color1, color2 core.Vec3) *ImageTexture {
	pixels := make([]core.Vec3, width*height)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			color := color2
			if (x/checkSize+y/checkSize)%2 == 0 {
				color = color1
			}
			pixels[y*width+x] = color
		}
	}

	return NewImageTexture(width, height, pixels)
}

// NewStoneTexture creates a mottled two-tone texture from a noise function
// sampled over the image plane. It stands in for photographic stone textures
// when no image file is available.
func NewStoneTexture(width, height int, sample func(x, y float64) float64, color1, color2 core.Vec3) *ImageTexture {
	pixels := make([]core.Vec3, width*height)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			t := sample(float64(x)/float64(width)*8, float64(y)/float64(height)*8)
			pixels[y*width+x] = core.Lerp(color1, color2, t)
		}
	}

	return NewImageTexture(width, height, pixels)
}
