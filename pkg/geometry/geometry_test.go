package geometry

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

func gray() *material.Material {
	return material.NewSolid(core.NewVec3(0.5, 0.5, 0.5))
}

func assertVecInDelta(t *testing.T, expected, actual core.Vec3, delta float64) {
	t.Helper()
	assert.InDelta(t, expected.X, actual.X, delta, "X")
	assert.InDelta(t, expected.Y, actual.Y, delta, "Y")
	assert.InDelta(t, expected.Z, actual.Z, delta, "Z")
}

func TestPlane_Intersect(t *testing.T) {
	plane := NewPlane(core.NewVec3(0, -1, 0), core.NewVec3(0, 2, 0), gray())

	tests := []struct {
		name     string
		ray      core.Ray
		expected float64
	}{
		{"straight down", core.NewRay(core.NewVec3(0, 1, 0), core.NewVec3(0, -1, 0)), 2},
		{"unnormalized direction", core.NewRay(core.NewVec3(0, 1, 0), core.NewVec3(0, -2, 0)), 1},
		{"pointing away", core.NewRay(core.NewVec3(0, 1, 0), core.NewVec3(0, 1, 0)), math.Inf(1)},
		{"parallel", core.NewRay(core.NewVec3(0, 1, 0), core.NewVec3(1, 0, 0)), math.Inf(1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, plane.Intersect(tt.ray))
		})
	}

	assert.Equal(t, core.NewVec3(0, 1, 0), plane.NormalAt(core.NewVec3(3, -1, 4)))
	assert.Equal(t, 0.0, plane.Extent())
}

func TestPlane_SignedIntersectKeepsNegative(t *testing.T) {
	plane := NewPlane(core.NewVec3(0, -1, 0), core.NewVec3(0, 1, 0), gray())
	ray := core.NewRay(core.NewVec3(0, 1, 0), core.NewVec3(0, 1, 0))
	assert.InDelta(t, -2.0, plane.SignedIntersect(ray), 1e-12)
}

func TestPlane_NearParallelIsFinite(t *testing.T) {
	plane := NewPlane(core.NewVec3(0, -1, 0), core.NewVec3(0, 1, 0), gray())
	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(1, -1e-12, 0))
	assert.True(t, IsHit(plane.Intersect(ray)))
}

func TestSphere_FrontFaceRoot(t *testing.T) {
	for _, r := range []float64{0.5, 1, 2} {
		sphere := NewSphere(core.NewVec3(0, 0, 0), r, gray())
		ray := core.NewRay(core.NewVec3(0, 0, 5), core.NewVec3(0, 0, -1))
		assert.InDelta(t, 5-r, sphere.Intersect(ray), 1e-12)
	}
}

func TestSphere_Intersect(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 0), 1, gray())

	t.Run("miss", func(t *testing.T) {
		ray := core.NewRay(core.NewVec3(2, 0, 0), core.NewVec3(0, 1, 0))
		assert.False(t, IsHit(sphere.Intersect(ray)))
	})

	t.Run("from inside takes far root", func(t *testing.T) {
		ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, 1))
		assert.InDelta(t, 1.0, sphere.Intersect(ray), 1e-12)
	})

	t.Run("behind origin", func(t *testing.T) {
		ray := core.NewRay(core.NewVec3(0, 0, 5), core.NewVec3(0, 0, 1))
		assert.False(t, IsHit(sphere.Intersect(ray)))
	})

	assertVecInDelta(t, core.NewVec3(0, 0, 1), sphere.NormalAt(core.NewVec3(0, 0, 1)), 1e-12)
	assert.Equal(t, 2.0, sphere.Extent())
}

func TestSphere_TextureUV(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 0), 1, gray())
	forward := core.NewVec3(0, 0, -1)

	// Direction to centre from the top pole is straight down
	top := sphere.TextureUV(core.NewVec3(0, 1, 0), forward)
	assert.InDelta(t, 0.0, top.Y, 1e-12)
	bottom := sphere.TextureUV(core.NewVec3(0, -1, 0), forward)
	assert.InDelta(t, 1.0, bottom.Y, 1e-12)

	uv := sphere.TextureUV(core.NewVec3(1, 0, 0), forward)
	assert.GreaterOrEqual(t, uv.X, 0.0)
	assert.LessOrEqual(t, uv.X, 1.0)
	assert.InDelta(t, 0.5, uv.Y, 1e-12)
}

func TestEllipsoid_Intersect(t *testing.T) {
	ellipsoid := NewEllipsoid(core.NewVec3(0, 0, 0), core.NewVec3(2, 1, 0.5), gray())

	tests := []struct {
		name     string
		origin   core.Vec3
		dir      core.Vec3
		expected float64
	}{
		{"along x", core.NewVec3(5, 0, 0), core.NewVec3(-1, 0, 0), 3},
		{"along y", core.NewVec3(0, 5, 0), core.NewVec3(0, -1, 0), 4},
		{"along z", core.NewVec3(0, 0, 5), core.NewVec3(0, 0, -1), 4.5},
		{"miss", core.NewVec3(0, 2, 5), core.NewVec3(0, 0, -1), math.Inf(1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ellipsoid.Intersect(core.NewRay(tt.origin, tt.dir))
			if math.IsInf(tt.expected, 1) {
				assert.False(t, IsHit(got))
				return
			}
			assert.InDelta(t, tt.expected, got, 1e-12)
		})
	}

	assertVecInDelta(t, core.NewVec3(1, 0, 0), ellipsoid.NormalAt(core.NewVec3(2, 0, 0)), 1e-12)
	assertVecInDelta(t, core.NewVec3(0, 0, -1), ellipsoid.NormalAt(core.NewVec3(0, 0, -0.5)), 1e-12)
	assert.InDelta(t, math.Sqrt(5.25), ellipsoid.Extent(), 1e-12)
}

func TestEllipsoid_GradientNormal(t *testing.T) {
	ellipsoid := NewEllipsoid(core.NewVec3(0, 0, 0), core.NewVec3(2, 1, 1), gray())
	// (sqrt2, sqrt0.5, 0) is on the surface; gradient is (x/4, y, 0)
	p := core.NewVec3(math.Sqrt2, math.Sqrt(0.5), 0)
	expected := core.NewVec3(math.Sqrt2/4, math.Sqrt(0.5), 0).Normalize()
	assertVecInDelta(t, expected, ellipsoid.NormalAt(p), 1e-12)
}

// newUnitCube spans [-1, 1] on every axis. Forward×Top is -x, so SideRight
// faces -x.
func newUnitCube(t *testing.T) *Cube {
	t.Helper()
	cube, err := NewCube(core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0), core.NewVec3(0, 0, 1), 2, gray())
	require.NoError(t, err)
	return cube
}

func TestCube_Intersect(t *testing.T) {
	cube := newUnitCube(t)

	tests := []struct {
		name     string
		origin   core.Vec3
		dir      core.Vec3
		expected float64
		face     Side
	}{
		{"from front", core.NewVec3(0, 0, 5), core.NewVec3(0, 0, -1), 4, SideFront},
		{"from above", core.NewVec3(0.5, 3, 0.5), core.NewVec3(0, -1, 0), 2, SideTop},
		{"from +x", core.NewVec3(4, 0, 0), core.NewVec3(-2, 0, 0), 1.5, SideLeft},
		{"from -x diagonal", core.NewVec3(-3, 0, 0.5), core.NewVec3(1, 0.1, 0), 2, SideRight},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ray := core.NewRay(tt.origin, tt.dir)
			assert.InDelta(t, tt.expected, cube.Intersect(ray), 1e-12)

			side, ok := cube.EntryFace(ray)
			require.True(t, ok)
			assert.Equal(t, tt.face, side)

			hit := ray.At(cube.Intersect(ray))
			face, err := cube.Face(tt.face)
			require.NoError(t, err)
			assertVecInDelta(t, face.Normal, cube.NormalAt(hit), 1e-12)
		})
	}
}

func TestCube_Misses(t *testing.T) {
	cube := newUnitCube(t)

	tests := []struct {
		name   string
		origin core.Vec3
		dir    core.Vec3
	}{
		{"passes beside", core.NewVec3(3, 0, 5), core.NewVec3(0, 0, -1)},
		{"parallel outside slab", core.NewVec3(0, 2, 5), core.NewVec3(0, 0, -1)},
		{"diagonal past corner", core.NewVec3(-5, 0, 3), core.NewVec3(1, 0, 0.1)},
		{"pointing away", core.NewVec3(0, 0, 5), core.NewVec3(0, 0, 1)},
		{"starts inside", core.NewVec3(0, 0, 0), core.NewVec3(0, 0, 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ray := core.NewRay(tt.origin, tt.dir)
			assert.False(t, IsHit(cube.Intersect(ray)))
			_, ok := cube.EntryFace(ray)
			assert.False(t, ok)
		})
	}
}

func TestCube_Extent(t *testing.T) {
	assert.Equal(t, 2.0, newUnitCube(t).Extent())
}

func TestCube_UnknownSide(t *testing.T) {
	cube := newUnitCube(t)
	_, err := cube.Face(Side(42))
	assert.ErrorIs(t, err, ErrUnknownSide)

	_, err = cube.face(Side(-1))
	assert.ErrorIs(t, err, ErrUnknownSide)
	assert.Equal(t, "Side(-1)", Side(-1).String())
}

func TestCube_DegenerateOrientation(t *testing.T) {
	tests := []struct {
		name         string
		top, forward core.Vec3
	}{
		{"parallel", core.NewVec3(0, 1, 0), core.NewVec3(0, 2, 0)},
		{"antiparallel", core.NewVec3(1, 1, 0), core.NewVec3(-1, -1, 0)},
		{"zero top", core.NewVec3(0, 0, 0), core.NewVec3(0, 0, 1)},
		{"zero forward", core.NewVec3(0, 1, 0), core.NewVec3(0, 0, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cube, err := NewCube(core.NewVec3(0, 0, 0), tt.top, tt.forward, 1, gray())
			assert.ErrorIs(t, err, ErrDegenerateCube)
			assert.Nil(t, cube)
		})
	}

	// Skewed but independent axes still make a solid
	cube, err := NewCube(core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0), core.NewVec3(0, 1, 1), 1, gray())
	require.NoError(t, err)
	for _, side := range Sides {
		face, err := cube.Face(side)
		require.NoError(t, err)
		assert.InDelta(t, 1.0, face.Normal.Length(), 1e-12, side.String())
	}
}

func TestPlanarUVIsScaled(t *testing.T) {
	m := gray()
	m.TextureScale = 2
	plane := NewPlane(core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0), m)
	forward := core.NewVec3(0, -1, -1).Normalize()

	a := plane.TextureUV(core.NewVec3(4, 0, 0), forward)
	b := plane.TextureUV(core.NewVec3(2, 0, 0), forward)
	assert.InDelta(t, 2*b.X, a.X, 1e-12)
	assert.InDelta(t, 2.0, math.Hypot(a.X, a.Y), 1e-12)

	// Looking straight down the normal still yields a usable basis
	down := plane.TextureUV(core.NewVec3(4, 0, 0), core.NewVec3(0, -1, 0))
	assert.InDelta(t, 2.0, math.Hypot(down.X, down.Y), 1e-12)
}
