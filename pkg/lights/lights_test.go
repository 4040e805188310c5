package lights

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

func TestPointLight(t *testing.T) {
	white := core.NewVec3(1, 1, 1)
	light := NewPointLight(core.NewVec3(0, 4, 3), white)

	assert.Equal(t, LightTypePoint, light.Type())
	assert.Equal(t, white, light.Color())

	toLight := light.VectorToLight(core.NewVec3(0, 0, 0))
	assert.InDelta(t, 0.8, toLight.Y, 1e-12)
	assert.InDelta(t, 0.6, toLight.Z, 1e-12)
	assert.InDelta(t, 5.0, light.Distance(core.NewVec3(0, 0, 0)), 1e-12)
}

func TestDirectionalLight(t *testing.T) {
	light := NewDirectionalLight(core.NewVec3(0, 10, 0), core.NewVec3(1, 1, 1))

	assert.Equal(t, LightTypeDirectional, light.Type())
	for _, p := range []core.Vec3{core.NewVec3(0, 0, 0), core.NewVec3(-5, 3, 100)} {
		assert.Equal(t, core.NewVec3(0, 1, 0), light.VectorToLight(p))
		assert.True(t, math.IsInf(light.Distance(p), 1))
	}
}

func TestLightsSatisfyInterface(t *testing.T) {
	var _ Light = (*PointLight)(nil)
	var _ Light = (*DirectionalLight)(nil)
}
