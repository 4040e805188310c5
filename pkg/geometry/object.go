// Package geometry implements the primitives a ray can hit and the camera
// that generates primary rays.
package geometry

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// Object is anything a ray can hit. Implementations are immutable after
// construction and safe for concurrent use.
type Object interface {
	// Intersect returns the nearest non-negative ray parameter at which the
	// ray hits the object, or +Inf on a miss
	Intersect(ray core.Ray) float64

	// NormalAt returns the unit outward normal at a point on the surface
	NormalAt(point core.Vec3) core.Vec3

	// Extent is a diameter-like size used to step a refracted ray through
	// the object
	Extent() float64

	// TextureUV maps a surface point to texture coordinates. forward is the
	// camera's view direction, used to orient planar projections.
	TextureUV(point, forward core.Vec3) core.Vec2

	Position() core.Vec3
	Material() *material.Material
}

// Miss is the ray parameter returned when nothing is hit
var Miss = math.Inf(1)

// IsHit reports whether t is a hit distance rather than the miss sentinel
func IsHit(t float64) bool {
	return !math.IsInf(t, 1) && !math.IsNaN(t)
}

// nearestRoot solves a*t^2 + b*t + c = 0 and returns the smallest
// non-negative root, or +Inf
func nearestRoot(a, b, c float64) float64 {
	discriminant := b*b - 4*a*c
	if discriminant < 0 || a == 0 {
		return Miss
	}
	sqrtD := math.Sqrt(discriminant)
	near := (-b - sqrtD) / (2 * a)
	far := (-b + sqrtD) / (2 * a)
	if near > far {
		near, far = far, near
	}
	if near >= 0 {
		return near
	}
	if far >= 0 {
		return far
	}
	return Miss
}

// sphericalUV maps a unit direction to longitude/latitude texture coordinates
func sphericalUV(d core.Vec3) core.Vec2 {
	u := 0.5 + math.Atan2(d.Z, d.X)/(2*math.Pi)
	v := 1 - math.Acos(max(-1, min(1, d.Y)))/math.Pi
	return core.NewVec2(u, v)
}

// planarUV projects offset onto the tangent plane of normal. The u axis is
// perpendicular to both the normal and the view direction, so textures stay
// upright on screen.
func planarUV(offset, normal, forward core.Vec3, scale float64) core.Vec2 {
	u := normal.Cross(forward).Normalize()
	if u.LengthSquared() == 0 {
		// looking straight down the normal
		u = normal.Cross(core.NewVec3(0, 1, 0)).Normalize()
		if u.LengthSquared() == 0 {
			u = normal.Cross(core.NewVec3(1, 0, 0)).Normalize()
		}
	}
	v := normal.Cross(u)
	p := offset.Multiply(1 / scale)
	return core.NewVec2(p.Dot(u), p.Dot(v))
}
