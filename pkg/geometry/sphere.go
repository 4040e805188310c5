package geometry

import (
	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// Sphere represents a sphere shape
type Sphere struct {
	Center core.Vec3
	Radius float64
	mat    *material.Material
}

// NewSphere creates a new sphere
func NewSphere(center core.Vec3, radius float64, mat *material.Material) *Sphere {
	return &Sphere{
		Center: center,
		Radius: radius,
		mat:    mat,
	}
}

// Intersect implements Object
func (s *Sphere) Intersect(ray core.Ray) float64 {
	// Vector from sphere center to ray origin
	d := ray.Origin.Subtract(s.Center)

	a := ray.Direction.Dot(ray.Direction)
	b := 2 * d.Dot(ray.Direction)
	c := d.Dot(d) - s.Radius*s.Radius
	return nearestRoot(a, b, c)
}

// NormalAt implements Object
func (s *Sphere) NormalAt(point core.Vec3) core.Vec3 {
	return point.Subtract(s.Center).Normalize()
}

// Extent implements Object
func (s *Sphere) Extent() float64 {
	return 2 * s.Radius
}

// TextureUV implements Object
func (s *Sphere) TextureUV(point, forward core.Vec3) core.Vec2 {
	return sphericalUV(s.Center.Subtract(point).Normalize())
}

// Position implements Object
func (s *Sphere) Position() core.Vec3 {
	return s.Center
}

// Material implements Object
func (s *Sphere) Material() *material.Material {
	return s.mat
}
