package geometry

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// CameraConfig contains all camera configuration parameters
type CameraConfig struct {
	Focus         core.Vec3 // Point at the centre of the view
	Forward       core.Vec3 // View direction
	Up            core.Vec3 // Approximate up direction
	FieldOfView   float64   // Horizontal field of view in degrees
	FocusDistance float64   // Distance from the eye to Focus
	AspectRatio   float64   // Width / height
}

// Camera maps normalized screen coordinates to primary rays. The view is a
// rectangle around the focus point whose four corners are interpolated.
type Camera struct {
	config   CameraConfig
	forward  core.Vec3
	up       core.Vec3
	right    core.Vec3
	position core.Vec3

	upperLeft  core.Vec3
	upperRight core.Vec3
	lowerLeft  core.Vec3
	lowerRight core.Vec3
}

// NewCamera creates a camera from the config
func NewCamera(config CameraConfig) *Camera {
	c := &Camera{}
	c.Configure(config)
	return c
}

// Configure rebuilds the whole camera from the config. It must not be called
// while a render is using the camera.
func (c *Camera) Configure(config CameraConfig) {
	if config.AspectRatio <= 0 {
		config.AspectRatio = 1
	}

	forward := config.Forward.Normalize()
	right := forward.Cross(config.Up).Normalize()
	up := right.Cross(forward).Normalize()

	width := 2 * config.FocusDistance * math.Tan(config.FieldOfView*math.Pi/180/2)
	height := width / config.AspectRatio

	halfUp := up.Multiply(height / 2)
	halfRight := right.Multiply(width / 2)
	top := config.Focus.Add(halfUp)
	bottom := config.Focus.Subtract(halfUp)

	*c = Camera{
		config:     config,
		forward:    forward,
		up:         up,
		right:      right,
		position:   config.Focus.Subtract(forward.Multiply(config.FocusDistance)),
		upperLeft:  top.Subtract(halfRight),
		upperRight: top.Add(halfRight),
		lowerLeft:  bottom.Subtract(halfRight),
		lowerRight: bottom.Add(halfRight),
	}
}

// GetRay returns the ray through screen coordinates (x, y) in [0, 1], where
// (0, 0) is the upper-left corner. The direction is not normalized.
func (c *Camera) GetRay(x, y float64) core.Ray {
	top := core.Lerp(c.upperLeft, c.upperRight, x)
	bottom := core.Lerp(c.lowerLeft, c.lowerRight, x)
	target := core.Lerp(top, bottom, y)
	return core.NewRay(c.position, target.Subtract(c.position))
}

// Forward returns the unit view direction
func (c *Camera) Forward() core.Vec3 {
	return c.forward
}

// Up returns the re-orthogonalized unit up vector
func (c *Camera) Up() core.Vec3 {
	return c.up
}

// Right returns the unit right vector
func (c *Camera) Right() core.Vec3 {
	return c.right
}

// Position returns the eye position
func (c *Camera) Position() core.Vec3 {
	return c.position
}

// Config returns the configuration the camera was built from
func (c *Camera) Config() CameraConfig {
	return c.config
}
