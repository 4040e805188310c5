package lights

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// DirectionalLight illuminates every point from the same direction, like a
// distant sun
type DirectionalLight struct {
	direction core.Vec3 // unit vector pointing toward the light
	color     core.Vec3
}

// NewDirectionalLight creates a directional light. direction points from the
// scene toward the light and is normalized here.
func NewDirectionalLight(direction, color core.Vec3) *DirectionalLight {
	return &DirectionalLight{direction: direction.Normalize(), color: color}
}

// Type implements the Light interface
func (d *DirectionalLight) Type() LightType {
	return LightTypeDirectional
}

// Color implements the Light interface
func (d *DirectionalLight) Color() core.Vec3 {
	return d.color
}

// Direction returns the normalized direction toward the light
func (d *DirectionalLight) Direction() core.Vec3 {
	return d.direction
}

// VectorToLight implements the Light interface
func (d *DirectionalLight) VectorToLight(point core.Vec3) core.Vec3 {
	return d.direction
}

// Distance implements the Light interface
func (d *DirectionalLight) Distance(point core.Vec3) float64 {
	return math.Inf(1)
}
