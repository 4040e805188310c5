package geometry

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// Plane represents an infinite plane defined by a point and normal
type Plane struct {
	Point  core.Vec3 // A point on the plane
	Normal core.Vec3 // Unit normal
	mat    *material.Material
}

// NewPlane creates a new plane. The normal is normalized.
func NewPlane(point, normal core.Vec3, mat *material.Material) *Plane {
	return &Plane{
		Point:  point,
		Normal: normal.Normalize(),
		mat:    mat,
	}
}

// SignedIntersect returns the unclamped ray parameter of the plane crossing.
// Negative values lie behind the ray origin. A ray parallel to the plane
// returns +Inf; near-parallel rays may return very large finite values.
func (p *Plane) SignedIntersect(ray core.Ray) float64 {
	denominator := ray.Direction.Dot(p.Normal)
	if denominator == 0 {
		return Miss
	}
	return p.Point.Subtract(ray.Origin).Dot(p.Normal) / denominator
}

// Intersect implements Object
func (p *Plane) Intersect(ray core.Ray) float64 {
	t := p.SignedIntersect(ray)
	if t < 0 || math.IsNaN(t) {
		return Miss
	}
	return t
}

// NormalAt implements Object
func (p *Plane) NormalAt(point core.Vec3) core.Vec3 {
	return p.Normal
}

// Extent implements Object. Planes have no thickness.
func (p *Plane) Extent() float64 {
	return 0
}

// TextureUV implements Object
func (p *Plane) TextureUV(point, forward core.Vec3) core.Vec2 {
	return planarUV(point.Subtract(p.Point), p.Normal, forward, p.mat.PlanarScale())
}

// Position implements Object
func (p *Plane) Position() core.Vec3 {
	return p.Point
}

// Material implements Object
func (p *Plane) Material() *material.Material {
	return p.mat
}

// distance returns the signed distance of point from the plane along its normal
func (p *Plane) distance(point core.Vec3) float64 {
	return point.Subtract(p.Point).Dot(p.Normal)
}
