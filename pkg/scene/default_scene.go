package scene

import (
	"fmt"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/material"
	"github.com/df07/go-whitted-raytracer/pkg/noise"
)

// DefaultCameraConfig looks down -z at a point just above the origin
func DefaultCameraConfig() geometry.CameraConfig {
	return geometry.CameraConfig{
		Focus:         core.NewVec3(0, 0.2, 0),
		Forward:       core.NewVec3(0, 0, -1),
		Up:            core.NewVec3(0, 1, 0),
		FieldOfView:   45,
		FocusDistance: 2.5,
		AspectRatio:   4.0 / 3.0,
	}
}

// DefaultSamplingConfig is 675x450 with one sample per pixel
func DefaultSamplingConfig() SamplingConfig {
	return SamplingConfig{
		Width:           675,
		Height:          450,
		SamplesPerPixel: 1,
		MaxDepth:        5,
	}
}

// phong creates a material with explicit ambient, diffuse and specular colors
func phong(base, ambient, diffuse, specular core.Vec3, shininess, specCoeff float64) *material.Material {
	return &material.Material{
		BaseColor:           base,
		Ambient:             ambient,
		Diffuse:             diffuse,
		Specular:            specular,
		Shininess:           shininess,
		SpecularCoefficient: specCoeff,
	}
}

// NewDefaultScene creates the demo scene: a gray floor, a refractive blue
// cube, checkerboard and cloud spheres, a purple glass sphere, a stone
// ellipsoid, a tilted green cube and a mirror sphere, lit by one point light.
func NewDefaultScene(noiseSet *noise.Set, cameraOverrides ...geometry.CameraConfig) (*Scene, error) {
	if noiseSet.Len() == 0 {
		return nil, fmt.Errorf("default scene: %w", noise.ErrEmptySet)
	}
	cameraConfig := DefaultCameraConfig()
	if len(cameraOverrides) > 0 {
		cameraConfig = MergeCameraConfig(cameraConfig, cameraOverrides[0])
	}
	s := New(cameraConfig, DefaultSamplingConfig())

	white := core.NewVec3(1, 1, 1)
	s.AddPointLight(core.NewVec3(-1, 2, 2), white)

	// Gray floor
	floor := phong(material.MustColor("gray"), core.NewVec3(0.3, 0.3, 0.3), core.NewVec3(0.7, 0.7, 0.7), white, 5, 0.1)
	floor.RefractiveIndex = 1
	s.AddPlane(core.NewVec3(0, -1, 0), core.NewVec3(0, 1, 0), floor)

	// Blue refractive cube
	blueGlass := phong(material.MustColor("blue"), core.NewVec3(0.3, 0.3, 0.7), core.NewVec3(0.3, 0.3, 0.7), white, 100, 1)
	blueGlass.RefractiveIndex = 1.53
	if _, err := s.AddCube(core.NewVec3(1, 0, 0), core.NewVec3(1, 0, 0), core.NewVec3(0, 0, 1.5), 0.5, blueGlass); err != nil {
		return nil, err
	}

	// Checkerboard sphere
	blue := core.NewVec3(0, 0, 1)
	checker := phong(blue, core.NewVec3(0.2, 0.2, 0.4), core.NewVec3(0.2, 0.2, 0.4), core.NewVec3(0.8, 0.8, 1), 50, 0.5)
	checker.RefractiveIndex = 1
	checker.Texture = material.NewCheckerboardTexture(256, 256, 32, white, material.MustColor("black"))
	s.AddSphere(core.NewVec3(1, 0, -2), 0.5, checker)

	// Cloud sphere
	clouds := phong(blue, core.NewVec3(0.2, 0.2, 0.4), core.NewVec3(0.2, 0.2, 0.4), core.NewVec3(0.8, 0.8, 1), 50, 0.5)
	clouds.RefractiveIndex = 1
	clouds.Noise = noiseSet.Clouds3D(noiseSet.Field(0), material.MustColor("blue"), white)
	s.AddSphere(core.NewVec3(-1, 0, -2), 0.5, clouds)

	// Purple refracting sphere
	purple := core.NewVec3(1, 0, 1)
	purpleGlass := phong(purple, core.NewVec3(0.4, 0.2, 0.4), core.NewVec3(0.4, 0.2, 0.4), core.NewVec3(1, 0.8, 1), 50, 0.5)
	purpleGlass.Reflectivity = 1
	purpleGlass.RefractiveIndex = 1.53
	s.AddSphere(core.NewVec3(-1, 0, 0), 0.4, purpleGlass)

	// Brown stone ellipsoid
	black := core.NewVec3(0, 0, 0)
	stone := phong(black, black, black, white, 100, 1)
	stone.Texture = material.NewStoneTexture(256, 128, noiseSet.Field(1).Noise2D,
		material.MustColor("sienna4"), material.MustColor("tan"))
	s.AddEllipsoid(core.NewVec3(0, 1, -2.3), core.NewVec3(1.5, 0.7, 0.5), stone)

	// Green cube
	green := phong(material.MustColor("green"), core.NewVec3(0.3, 0.7, 0.3), core.NewVec3(0, 0.7, 0.3), core.NewVec3(0.8, 1, 0.8), 100, 1)
	if _, err := s.AddCube(core.NewVec3(-2, 1, -3), core.NewVec3(1, 1, 0), core.NewVec3(1, 1, 1), 0.5, green); err != nil {
		return nil, err
	}

	// Reflecting sphere
	mirror := phong(purple, core.NewVec3(0.4, 0.2, 0.4), core.NewVec3(0.4, 0.2, 0.4), core.NewVec3(1, 0.8, 1), 50, 0.5)
	mirror.Reflectivity = 0.8
	mirror.RefractiveIndex = 1.53
	s.AddSphere(core.NewVec3(0, 0, -3), 0.4, mirror)

	return s, nil
}

// MergeCameraConfig overlays the non-zero fields of override onto base
func MergeCameraConfig(base, override geometry.CameraConfig) geometry.CameraConfig {
	zero := core.Vec3{}
	if override.Focus != zero {
		base.Focus = override.Focus
	}
	if override.Forward != zero {
		base.Forward = override.Forward
	}
	if override.Up != zero {
		base.Up = override.Up
	}
	if override.FieldOfView != 0 {
		base.FieldOfView = override.FieldOfView
	}
	if override.FocusDistance != 0 {
		base.FocusDistance = override.FocusDistance
	}
	if override.AspectRatio != 0 {
		base.AspectRatio = override.AspectRatio
	}
	return base
}
