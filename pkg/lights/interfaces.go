// Package lights defines the light sources used for direct illumination.
package lights

import "github.com/df07/go-whitted-raytracer/pkg/core"

type LightType string

const (
	LightTypePoint       LightType = "point"
	LightTypeDirectional LightType = "directional"
)

// Light is a source of direct illumination
type Light interface {
	Type() LightType

	// Color returns the light's RGB intensity
	Color() core.Vec3

	// VectorToLight returns the unit direction FROM point TO the light
	VectorToLight(point core.Vec3) core.Vec3

	// Distance returns how far the light is from point. Directional lights
	// are infinitely far away.
	Distance(point core.Vec3) float64
}
