package scene

import (
	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/material"
	"github.com/df07/go-whitted-raytracer/pkg/noise"
)

// NewNoiseScene lines up one sphere per noise pattern above a tiled-cloud
// floor
func NewNoiseScene(noiseSet *noise.Set, cameraOverrides ...geometry.CameraConfig) (*Scene, error) {
	cameraConfig := geometry.CameraConfig{
		Focus:         core.NewVec3(0, 0, -2),
		Forward:       core.NewVec3(0, -0.3, -1),
		Up:            core.NewVec3(0, 1, 0),
		FieldOfView:   60,
		FocusDistance: 3,
	}
	if len(cameraOverrides) > 0 {
		cameraConfig = MergeCameraConfig(cameraConfig, cameraOverrides[0])
	}
	s := New(cameraConfig, DefaultSamplingConfig())
	s.AddPointLight(core.NewVec3(-1, 3, 2), core.NewVec3(1, 1, 1))

	// Patterns blend their default colors
	patterns := []noise.Pattern{
		{Name: "clouds"},
		{Name: "marble"},
		{Name: "wood"},
		{Name: "fire"},
		{Name: "clouds3d", Field: 1},
		{Name: "marble3d", Field: 2},
		{Name: "wood3d", Field: 3},
	}

	for i, pattern := range patterns {
		fn, err := noiseSet.Lookup(pattern)
		if err != nil {
			return nil, err
		}
		base, _, err := noise.DefaultColors(pattern.Name)
		if err != nil {
			return nil, err
		}
		m := material.NewSolid(base)
		m.Noise = fn
		x := (float64(i) - float64(len(patterns)-1)/2) * 0.9
		s.AddSphere(core.NewVec3(x, 0, -2.5), 0.4, m)
	}

	gray := material.MustColor("gray")
	floorNoise, err := noiseSet.Lookup(noise.Pattern{Name: "tiledclouds", Field: 4, Color1: &gray})
	if err != nil {
		return nil, err
	}
	floor := material.NewSolid(gray)
	floor.Noise = floorNoise
	s.AddPlane(core.NewVec3(0, -0.5, 0), core.NewVec3(0, 1, 0), floor)
	return s, nil
}
