package geometry

import (
	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// Ellipsoid is an axis-aligned ellipsoid with semi-axes Radii.X, Radii.Y and
// Radii.Z. It is intersected as a unit sphere in a space scaled by the radii.
type Ellipsoid struct {
	Center core.Vec3
	Radii  core.Vec3
	mat    *material.Material
}

// NewEllipsoid creates a new ellipsoid
func NewEllipsoid(center, radii core.Vec3, mat *material.Material) *Ellipsoid {
	return &Ellipsoid{
		Center: center,
		Radii:  radii,
		mat:    mat,
	}
}

// Intersect implements Object
func (e *Ellipsoid) Intersect(ray core.Ray) float64 {
	d := ray.Origin.Subtract(e.Center).DivideVec(e.Radii)
	dir := ray.Direction.DivideVec(e.Radii)

	a := dir.Dot(dir)
	b := 2 * d.Dot(dir)
	c := d.Dot(d) - 1
	return nearestRoot(a, b, c)
}

// NormalAt implements Object. The normal is the gradient of the implicit
// surface, (p-c)/r^2 per axis.
func (e *Ellipsoid) NormalAt(point core.Vec3) core.Vec3 {
	squared := e.Radii.MultiplyVec(e.Radii)
	return point.Subtract(e.Center).DivideVec(squared).Normalize()
}

// Extent implements Object
func (e *Ellipsoid) Extent() float64 {
	return e.Radii.Length()
}

// TextureUV implements Object
func (e *Ellipsoid) TextureUV(point, forward core.Vec3) core.Vec2 {
	return sphericalUV(e.Center.Subtract(point).DivideVec(e.Radii).Normalize())
}

// Position implements Object
func (e *Ellipsoid) Position() core.Vec3 {
	return e.Center
}

// Material implements Object
func (e *Ellipsoid) Material() *material.Material {
	return e.mat
}
