package geometry

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

func defaultCameraConfig() CameraConfig {
	return CameraConfig{
		Focus:         core.NewVec3(0, 0.2, 0),
		Forward:       core.NewVec3(0, 0, -1),
		Up:            core.NewVec3(0, 1, 0),
		FieldOfView:   45,
		FocusDistance: 2.5,
		AspectRatio:   1.5,
	}
}

func TestCamera_CenterRayIsForward(t *testing.T) {
	configs := []CameraConfig{
		defaultCameraConfig(),
		{
			Focus:         core.NewVec3(1, 2, 3),
			Forward:       core.NewVec3(1, -1, -1),
			Up:            core.NewVec3(0, 1, 0),
			FieldOfView:   90,
			FocusDistance: 4,
			AspectRatio:   16.0 / 9.0,
		},
	}

	for _, config := range configs {
		camera := NewCamera(config)
		ray := camera.GetRay(0.5, 0.5)
		direction := ray.Direction.Normalize()

		assertVecInDelta(t, camera.Forward(), direction, 1e-12)
		assertVecInDelta(t, config.Focus, ray.At(1), 1e-12)
	}
}

func TestCamera_Basis(t *testing.T) {
	camera := NewCamera(defaultCameraConfig())

	assertVecInDelta(t, core.NewVec3(1, 0, 0), camera.Right(), 1e-12)
	assertVecInDelta(t, core.NewVec3(0, 1, 0), camera.Up(), 1e-12)
	assertVecInDelta(t, core.NewVec3(0, 0.2, 2.5), camera.Position(), 1e-12)
}

func TestCamera_OrthogonalizesUp(t *testing.T) {
	config := defaultCameraConfig()
	config.Up = core.NewVec3(0, 1, -0.5)
	camera := NewCamera(config)

	assert.InDelta(t, 0.0, camera.Up().Dot(camera.Forward()), 1e-12)
	assert.InDelta(t, 0.0, camera.Right().Dot(camera.Forward()), 1e-12)
	assert.InDelta(t, 1.0, camera.Up().Length(), 1e-12)
}

func TestCamera_FieldOfViewInDegrees(t *testing.T) {
	config := defaultCameraConfig()
	config.FieldOfView = 90
	camera := NewCamera(config)

	// Left and right edges span 45 degrees either side of forward
	left := camera.GetRay(0, 0.5).Direction.Normalize()
	right := camera.GetRay(1, 0.5).Direction.Normalize()
	assert.InDelta(t, math.Cos(math.Pi/4), left.Dot(camera.Forward()), 1e-12)
	assert.InDelta(t, math.Pi/2, math.Acos(left.Dot(right)), 1e-12)
}

func TestCamera_CornersAndAspect(t *testing.T) {
	config := defaultCameraConfig()
	camera := NewCamera(config)

	width := 2 * config.FocusDistance * math.Tan(config.FieldOfView*math.Pi/360)
	height := width / config.AspectRatio

	upperLeft := camera.GetRay(0, 0).At(1)
	lowerRight := camera.GetRay(1, 1).At(1)
	assert.InDelta(t, -width/2, upperLeft.X, 1e-12)
	assert.InDelta(t, 0.2+height/2, upperLeft.Y, 1e-12)
	assert.InDelta(t, width/2, lowerRight.X, 1e-12)
	assert.InDelta(t, 0.2-height/2, lowerRight.Y, 1e-12)
}

func TestCamera_ConfigureRebuilds(t *testing.T) {
	camera := NewCamera(defaultCameraConfig())
	config := defaultCameraConfig()
	config.Forward = core.NewVec3(1, 0, 0)
	camera.Configure(config)

	assertVecInDelta(t, core.NewVec3(1, 0, 0), camera.Forward(), 1e-12)
	assert.Equal(t, config, camera.Config())
}
