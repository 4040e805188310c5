package scene

import (
	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/material"
	"github.com/df07/go-whitted-raytracer/pkg/noise"
)

// NewPlaneScene creates a single gray floor lit by one point light, with the
// camera looking down at the floor. Its shading has a closed form, which
// makes it useful as a regression reference.
func NewPlaneScene(noiseSet *noise.Set, cameraOverrides ...geometry.CameraConfig) (*Scene, error) {
	cameraConfig := geometry.CameraConfig{
		Focus:         core.NewVec3(0, -1, -2),
		Forward:       core.NewVec3(0, -1, -1),
		Up:            core.NewVec3(0, 1, 0),
		FieldOfView:   45,
		FocusDistance: 2.5,
	}
	if len(cameraOverrides) > 0 {
		cameraConfig = MergeCameraConfig(cameraConfig, cameraOverrides[0])
	}

	sampling := DefaultSamplingConfig()
	sampling.Width, sampling.Height = 200, 200
	s := New(cameraConfig, sampling)

	floor := phong(material.MustColor("gray"), core.NewVec3(0.3, 0.3, 0.3), core.NewVec3(0.7, 0.7, 0.7), core.NewVec3(1, 1, 1), 5, 0.1)
	s.AddPlane(core.NewVec3(0, -1, 0), core.NewVec3(0, 1, 0), floor)
	s.AddPointLight(core.NewVec3(-1, 2, 2), core.NewVec3(1, 1, 1))
	return s, nil
}
