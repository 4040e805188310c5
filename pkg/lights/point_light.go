package lights

import "github.com/df07/go-whitted-raytracer/pkg/core"

// PointLight emits uniformly from a single position
type PointLight struct {
	Position core.Vec3
	color    core.Vec3
}

// NewPointLight creates a point light
func NewPointLight(position, color core.Vec3) *PointLight {
	return &PointLight{Position: position, color: color}
}

// Type implements the Light interface
func (p *PointLight) Type() LightType {
	return LightTypePoint
}

// Color implements the Light interface
func (p *PointLight) Color() core.Vec3 {
	return p.color
}

// VectorToLight implements the Light interface
func (p *PointLight) VectorToLight(point core.Vec3) core.Vec3 {
	return p.Position.Subtract(point).Normalize()
}

// Distance implements the Light interface
func (p *PointLight) Distance(point core.Vec3) float64 {
	return p.Position.Subtract(point).Length()
}
