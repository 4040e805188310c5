// Package loaders reads textures and scene description files from disk.
package loaders

import (
	"fmt"
	_ "image/jpeg" // JPEG decoder
	_ "image/png"  // PNG decoder

	"github.com/anthonynsimon/bild/imgio"
	"github.com/anthonynsimon/bild/transform"
	_ "golang.org/x/image/bmp"  // BMP decoder
	_ "golang.org/x/image/tiff" // TIFF decoder
	_ "golang.org/x/image/webp" // WebP decoder

	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// LoadTexture decodes an image file (PNG, JPEG, BMP, TIFF or WebP) into a
// texture. If maxSize is positive, images whose larger side exceeds it are
// downsampled to fit.
func LoadTexture(filename string, maxSize int) (*material.ImageTexture, error) {
	img, err := imgio.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open texture %s: %w", filename, err)
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width == 0 || height == 0 {
		return nil, fmt.Errorf("texture %s is empty", filename)
	}

	if maxSize > 0 && max(width, height) > maxSize {
		scale := float64(maxSize) / float64(max(width, height))
		width = max(1, int(float64(width)*scale))
		height = max(1, int(float64(height)*scale))
		img = transform.Resize(img, width, height, transform.Linear)
	}

	return material.NewImageTextureFromImage(img), nil
}
