package loaders

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

func quadrantImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{R: 255, G: 255, B: 255, A: 255}) // white
	img.Set(1, 0, color.RGBA{R: 255, G: 0, B: 0, A: 255})     // red
	img.Set(0, 1, color.RGBA{R: 0, G: 255, B: 0, A: 255})     // green
	img.Set(1, 1, color.RGBA{R: 0, G: 0, B: 255, A: 255})     // blue
	return img
}

func assertColor(t *testing.T, expected, got core.Vec3) {
	t.Helper()
	const tolerance = 0.01
	assert.InDelta(t, expected.X, got.X, tolerance)
	assert.InDelta(t, expected.Y, got.Y, tolerance)
	assert.InDelta(t, expected.Z, got.Z, tolerance)
}

// TestLoadTexture creates a test PNG and verifies loading
func TestLoadTexture(t *testing.T) {
	testFile := filepath.Join(t.TempDir(), "test.png")
	require.NoError(t, imgio.Save(testFile, quadrantImage(), imgio.PNGEncoder()))

	texture, err := LoadTexture(testFile, 0)
	require.NoError(t, err)
	require.Equal(t, 2, texture.Width)
	require.Equal(t, 2, texture.Height)

	assertColor(t, core.NewVec3(1, 1, 1), texture.Pixel(0, 0))
	assertColor(t, core.NewVec3(1, 0, 0), texture.Pixel(1, 0))
	assertColor(t, core.NewVec3(0, 1, 0), texture.Pixel(0, 1))
	assertColor(t, core.NewVec3(0, 0, 1), texture.Pixel(1, 1))
}

func TestLoadTextureBMP(t *testing.T) {
	testFile := filepath.Join(t.TempDir(), "test.bmp")
	f, err := os.Create(testFile)
	require.NoError(t, err)
	require.NoError(t, bmp.Encode(f, quadrantImage()))
	require.NoError(t, f.Close())

	texture, err := LoadTexture(testFile, 0)
	require.NoError(t, err)
	assertColor(t, core.NewVec3(1, 0, 0), texture.Pixel(1, 0))
}

func TestLoadTextureDownsamples(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 64, 32))
	for y := 0; y < 32; y++ {
		for x := 0; x < 64; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 100, B: 50, A: 255})
		}
	}
	testFile := filepath.Join(t.TempDir(), "big.png")
	require.NoError(t, imgio.Save(testFile, img, imgio.PNGEncoder()))

	texture, err := LoadTexture(testFile, 16)
	require.NoError(t, err)
	assert.Equal(t, 16, texture.Width)
	assert.Equal(t, 8, texture.Height)
	assertColor(t, core.NewVec3(200.0/255, 100.0/255, 50.0/255), texture.Pixel(8, 4))
}

// TestLoadTextureNotFound verifies error handling for missing files
func TestLoadTextureNotFound(t *testing.T) {
	_, err := LoadTexture("nonexistent.png", 0)
	assert.Error(t, err)
}
