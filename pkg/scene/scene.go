// Package scene aggregates the objects, lights and camera of a render and
// answers nearest-intersection queries.
package scene

import (
	"fmt"
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/lights"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// Scene contains all the elements needed for rendering. It is built once and
// must not be modified while a render is running.
type Scene struct {
	Camera         *geometry.Camera
	CameraConfig   geometry.CameraConfig
	Objects        []geometry.Object // First object wins ties on equal distance
	Lights         []lights.Light
	Fog            core.Vec3 // Color returned by rays that hit nothing
	SamplingConfig SamplingConfig
}

// SamplingConfig contains rendering configuration
type SamplingConfig struct {
	Width           int // Image width
	Height          int // Image height
	SamplesPerPixel int // Samples per axis; each pixel averages the square of this
	MaxDepth        int // Maximum reflection/refraction recursion depth
}

// DefaultFog is the pale sky blue returned for rays that escape the scene
var DefaultFog = core.NewVec3(0.7, 0.9, 1.0)

// New creates an empty scene. The camera aspect ratio is taken from the image
// size when both dimensions are set.
func New(cameraConfig geometry.CameraConfig, samplingConfig SamplingConfig) *Scene {
	s := &Scene{
		Objects:        make([]geometry.Object, 0),
		Lights:         make([]lights.Light, 0),
		Fog:            DefaultFog,
		SamplingConfig: samplingConfig,
	}
	s.SetCamera(cameraConfig)
	return s
}

// SetCamera rebuilds the camera, deriving the aspect ratio from the image size
func (s *Scene) SetCamera(config geometry.CameraConfig) {
	if s.SamplingConfig.Width > 0 && s.SamplingConfig.Height > 0 {
		config.AspectRatio = float64(s.SamplingConfig.Width) / float64(s.SamplingConfig.Height)
	}
	s.CameraConfig = config
	if s.Camera == nil {
		s.Camera = geometry.NewCamera(config)
		return
	}
	s.Camera.Configure(config)
}

// SetResolution changes the image size and reconfigures the camera to match
func (s *Scene) SetResolution(width, height int) {
	s.SamplingConfig.Width = width
	s.SamplingConfig.Height = height
	s.SetCamera(s.CameraConfig)
}

// NearestIntersection returns the closest object hit by the ray and its
// distance, skipping exclude. It returns (nil, +Inf) when nothing is hit.
func (s *Scene) NearestIntersection(ray core.Ray, exclude geometry.Object) (geometry.Object, float64) {
	var nearest geometry.Object
	distance := math.Inf(1)

	for _, obj := range s.Objects {
		if obj == exclude {
			continue
		}
		if t := obj.Intersect(ray); t >= 0 && t < distance {
			nearest, distance = obj, t
		}
	}
	return nearest, distance
}

// AddSphere adds a sphere to the scene
func (s *Scene) AddSphere(center core.Vec3, radius float64, mat *material.Material) *geometry.Sphere {
	sphere := geometry.NewSphere(center, radius, mat)
	s.Objects = append(s.Objects, sphere)
	return sphere
}

// AddEllipsoid adds an axis-aligned ellipsoid with semi-axes radii
func (s *Scene) AddEllipsoid(center, radii core.Vec3, mat *material.Material) *geometry.Ellipsoid {
	ellipsoid := geometry.NewEllipsoid(center, radii, mat)
	s.Objects = append(s.Objects, ellipsoid)
	return ellipsoid
}

// AddPlane adds an infinite plane through point
func (s *Scene) AddPlane(point, normal core.Vec3, mat *material.Material) *geometry.Plane {
	plane := geometry.NewPlane(point, normal, mat)
	s.Objects = append(s.Objects, plane)
	return plane
}

// AddCube adds a cube of edge length centred on center
func (s *Scene) AddCube(center, top, forward core.Vec3, length float64, mat *material.Material) (*geometry.Cube, error) {
	cube, err := geometry.NewCube(center, top, forward, length, mat)
	if err != nil {
		return nil, fmt.Errorf("failed to build cube at %v: %w", center, err)
	}
	s.Objects = append(s.Objects, cube)
	return cube, nil
}

// AddPointLight adds a point light
func (s *Scene) AddPointLight(position, color core.Vec3) {
	s.Lights = append(s.Lights, lights.NewPointLight(position, color))
}

// AddDirectionalLight adds a light shining from direction
func (s *Scene) AddDirectionalLight(direction, color core.Vec3) {
	s.Lights = append(s.Lights, lights.NewDirectionalLight(direction, color))
}

// GetPrimitiveCount returns the number of objects in the scene
func (s *Scene) GetPrimitiveCount() int {
	return len(s.Objects)
}
