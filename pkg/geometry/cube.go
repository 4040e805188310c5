package geometry

import (
	"errors"
	"fmt"
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// Side labels one face of a cube
type Side int

const (
	SideTop Side = iota
	SideBottom
	SideFront
	SideBack
	SideRight
	SideLeft
)

// Sides lists every face in construction order
var Sides = [6]Side{SideTop, SideBottom, SideFront, SideBack, SideRight, SideLeft}

var (
	// ErrUnknownSide is returned when a face label is not one of Sides
	ErrUnknownSide = errors.New("unknown cube side")
	// ErrDegenerateCube is returned when Top and Forward do not span a plane
	ErrDegenerateCube = errors.New("degenerate cube orientation")
)

// minBasisLength bounds |Top|, |Forward| and |Forward×Top| of the unit vectors
const minBasisLength = 1e-6

func (s Side) String() string {
	switch s {
	case SideTop:
		return "top"
	case SideBottom:
		return "bottom"
	case SideFront:
		return "front"
	case SideBack:
		return "back"
	case SideRight:
		return "right"
	case SideLeft:
		return "left"
	}
	return fmt.Sprintf("Side(%d)", int(s))
}

// Cube is a six-sided solid of edge Length centred on Center. Its faces are
// planes with normals ±Top, ±Forward and ±(Forward×Top), each Length/2 from
// the centre. Top and Forward need not be orthogonal; the solid is then the
// intersection of the three slabs.
type Cube struct {
	Center  core.Vec3
	Top     core.Vec3
	Forward core.Vec3
	Length  float64
	mat     *material.Material
	faces   [6]*Plane
}

// NewCube builds the cube and its faces. Top and Forward must be non-zero
// and not parallel.
func NewCube(center, top, forward core.Vec3, length float64, mat *material.Material) (*Cube, error) {
	if top.Length() < minBasisLength || forward.Length() < minBasisLength {
		return nil, fmt.Errorf("%w: zero top or forward", ErrDegenerateCube)
	}
	if forward.Normalize().Cross(top.Normalize()).Length() < minBasisLength {
		return nil, fmt.Errorf("%w: top %v is parallel to forward %v", ErrDegenerateCube, top, forward)
	}
	c := &Cube{
		Center:  center,
		Top:     top.Normalize(),
		Forward: forward.Normalize(),
		Length:  length,
		mat:     mat,
	}
	for i, side := range Sides {
		face, err := c.face(side)
		if err != nil {
			return nil, err
		}
		c.faces[i] = face
	}
	return c, nil
}

// sideNormal returns the outward normal for a face label
func (c *Cube) sideNormal(side Side) (core.Vec3, error) {
	right := c.Forward.Cross(c.Top).Normalize()
	switch side {
	case SideTop:
		return c.Top, nil
	case SideBottom:
		return c.Top.Negate(), nil
	case SideFront:
		return c.Forward, nil
	case SideBack:
		return c.Forward.Negate(), nil
	case SideRight:
		return right, nil
	case SideLeft:
		return right.Negate(), nil
	}
	return core.Vec3{}, fmt.Errorf("%w: %v", ErrUnknownSide, side)
}

// face creates the plane for one side, offset Length/2 from the centre
func (c *Cube) face(side Side) (*Plane, error) {
	normal, err := c.sideNormal(side)
	if err != nil {
		return nil, err
	}
	return NewPlane(c.Center.Add(normal.Multiply(c.Length/2)), normal, c.mat), nil
}

// slab runs the slab test and returns the entry distance and the face that
// produced it. A ray whose origin is inside the cube reports a negative entry.
func (c *Cube) slab(ray core.Ray) (float64, int) {
	entry, exit := math.Inf(-1), math.Inf(1)
	entryFace := -1

	for i, f := range c.faces {
		denominator := ray.Direction.Dot(f.Normal)
		if denominator == 0 {
			// parallel to this face: inside its half-space or a miss
			if f.distance(ray.Origin) > 0 {
				return Miss, -1
			}
			continue
		}

		t := f.SignedIntersect(ray)
		if denominator < 0 {
			if t > entry {
				entry, entryFace = t, i
			}
		} else if t < exit {
			exit = t
		}
	}

	if entry >= exit {
		return Miss, -1
	}
	return entry, entryFace
}

// Intersect implements Object
func (c *Cube) Intersect(ray core.Ray) float64 {
	t, _ := c.slab(ray)
	if t < 0 {
		return Miss
	}
	return t
}

// EntryFace reports which face the ray enters through. ok is false when the
// ray misses or starts inside the cube.
func (c *Cube) EntryFace(ray core.Ray) (side Side, ok bool) {
	t, i := c.slab(ray)
	if i < 0 || t < 0 || !IsHit(t) {
		return 0, false
	}
	return Sides[i], true
}

// Face returns the plane for a side
func (c *Cube) Face(side Side) (*Plane, error) {
	for i, s := range Sides {
		if s == side {
			return c.faces[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %v", ErrUnknownSide, side)
}

// faceAt returns the face a surface point lies on, the one it is closest to
func (c *Cube) faceAt(point core.Vec3) *Plane {
	best := c.faces[0]
	bestDistance := math.Inf(1)
	for _, f := range c.faces {
		if d := math.Abs(f.distance(point)); d < bestDistance {
			best, bestDistance = f, d
		}
	}
	return best
}

// NormalAt implements Object. The normal is derived from the point, so no
// per-ray state is kept on the cube.
func (c *Cube) NormalAt(point core.Vec3) core.Vec3 {
	return c.faceAt(point).Normal
}

// Extent implements Object
func (c *Cube) Extent() float64 {
	return c.Length
}

// TextureUV implements Object. Each face is mapped like a plane through the
// cube's centre.
func (c *Cube) TextureUV(point, forward core.Vec3) core.Vec2 {
	return planarUV(point.Subtract(c.Center), c.NormalAt(point), forward, c.mat.PlanarScale())
}

// Position implements Object
func (c *Cube) Position() core.Vec3 {
	return c.Center
}

// Material implements Object
func (c *Cube) Material() *material.Material {
	return c.mat
}
