package renderer

import (
	"image"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/integrator"
	"github.com/df07/go-whitted-raytracer/pkg/material"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// countingIntegrator counts camera rays across workers
type countingIntegrator struct {
	integrator.Integrator
	rays atomic.Int64
}

func (c *countingIntegrator) RayColor(ray core.Ray, s *scene.Scene) core.Vec3 {
	c.rays.Add(1)
	return c.Integrator.RayColor(ray, s)
}

func newCountingIntegrator() *countingIntegrator {
	return &countingIntegrator{Integrator: integrator.NewWhittedIntegrator(integrator.WhittedConfig{MaxDepth: integrator.DefaultMaxDepth})}
}

// createTestScene builds a small lit scene with a floor and two spheres so
// neighbouring pixels differ
func createTestScene(width, height int) *scene.Scene {
	s := scene.New(scene.DefaultCameraConfig(), scene.SamplingConfig{
		Width: width, Height: height, SamplesPerPixel: 1, MaxDepth: integrator.DefaultMaxDepth,
	})
	s.AddPlane(core.NewVec3(0, -1, 0), core.NewVec3(0, 1, 0), material.NewSolid(core.NewVec3(0.6, 0.6, 0.6)))
	s.AddSphere(core.NewVec3(0, 0, -6), 1, material.NewSolid(core.NewVec3(0.9, 0.2, 0.2)))
	mirror := material.NewSolid(core.NewVec3(0.2, 0.2, 0.9))
	mirror.Reflectivity = 0.8
	s.AddSphere(core.NewVec3(1.5, 0, -7), 0.8, mirror)
	s.AddPointLight(core.NewVec3(-2, 4, 0), core.NewVec3(1, 1, 1))
	return s
}

func assertImagesEqual(t *testing.T, expected, actual image.Image) {
	t.Helper()
	if !assert.Equal(t, expected.Bounds(), actual.Bounds()) {
		return
	}
	b := expected.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			er, eg, eb, ea := expected.At(x, y).RGBA()
			ar, ag, ab, aa := actual.At(x, y).RGBA()
			if er != ar || eg != ag || eb != ab || ea != aa {
				t.Fatalf("pixel (%d,%d) differs: expected %v, got %v", x, y, expected.At(x, y), actual.At(x, y))
			}
		}
	}
}
